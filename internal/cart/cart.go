// Package cart is the customer's in-progress order: an ordered list of lines
// plus the pending customer details, persisted after every mutation.
package cart

import (
	"strings"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/pricing"

	"github.com/google/uuid"
)

// Snapshot is the copy of a catalog item taken when it enters the cart.
type Snapshot struct {
	MenuItemID      string   `json:"menuItemId"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Image           string   `json:"image,omitempty"`
}

type Line struct {
	ID        string   `json:"id"`
	Item      Snapshot `json:"item"`
	Quantity  int      `json:"quantity"`
	LineTotal float64  `json:"lineTotal"`
}

type Customer struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	Email               string `json:"email,omitempty"`
	TableNumber         *int   `json:"tableNumber,omitempty"`
	OrderType           string `json:"orderType,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type Cart struct {
	SessionID    string    `json:"sessionId"`
	RestaurantID int       `json:"restaurantId,omitempty"`
	Lines        []Line    `json:"lines"`
	Customer     *Customer `json:"customer,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func Empty(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}}
}

func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.MenuItemID) == "" {
		return apperr.Validation("menuItemId is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return apperr.Validation("item name is required")
	}
	if err := pricing.ValidateMoney("price", s.Price); err != nil {
		return err
	}
	if s.DiscountedPrice != nil {
		return pricing.ValidateMoney("discountedPrice", *s.DiscountedPrice)
	}
	return nil
}

func (c *Cart) lineIndex(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) refresh(idx int) {
	line := &c.Lines[idx]
	line.LineTotal = pricing.LineTotal(line.Item.Price, line.Item.DiscountedPrice, line.Quantity)
}

// Add increments the line already holding the same catalog item, or appends a
// new line with quantity 1 and a fresh line id.
func (c *Cart) Add(item Snapshot) (*Line, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	for i := range c.Lines {
		if c.Lines[i].Item.MenuItemID == item.MenuItemID {
			c.Lines[i].Quantity++
			c.refresh(i)
			return &c.Lines[i], nil
		}
	}
	c.Lines = append(c.Lines, Line{ID: uuid.NewString(), Item: item, Quantity: 1})
	idx := len(c.Lines) - 1
	c.refresh(idx)
	return &c.Lines[idx], nil
}

func (c *Cart) Increase(lineID string) error {
	idx := c.lineIndex(lineID)
	if idx < 0 {
		return apperr.NotFound("cart line %s not found", lineID)
	}
	c.Lines[idx].Quantity++
	c.refresh(idx)
	return nil
}

// Decrease drops the line once its quantity reaches zero.
func (c *Cart) Decrease(lineID string) error {
	idx := c.lineIndex(lineID)
	if idx < 0 {
		return apperr.NotFound("cart line %s not found", lineID)
	}
	c.Lines[idx].Quantity--
	if c.Lines[idx].Quantity <= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		return nil
	}
	c.refresh(idx)
	return nil
}

func (c *Cart) Remove(lineID string) {
	if idx := c.lineIndex(lineID); idx >= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, pricing.Line{
			Price:           line.Item.Price,
			DiscountedPrice: line.Item.DiscountedPrice,
			Quantity:        line.Quantity,
		})
	}
	return lines
}

func (c *Cart) Totals(taxRate float64) (pricing.Breakdown, error) {
	return pricing.Compute(c.PricingLines(), taxRate)
}
