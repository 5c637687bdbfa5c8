// Package menu holds the per-restaurant catalog document: categories holding
// items, both ordered by a contiguous zero-based position.
package menu

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/pricing"

	"github.com/google/uuid"
)

type Item struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Price           float64                  `json:"price"`
	DiscountedPrice *float64                 `json:"discountedPrice,omitempty"`
	Image           string                   `json:"image"`
	IsAvailable     bool                     `json:"isAvailable"`
	IsPopular       bool                     `json:"isPopular"`
	IsVegetarian    bool                     `json:"isVegetarian"`
	IsVegan         bool                     `json:"isVegan"`
	IsGlutenFree    bool                     `json:"isGlutenFree"`
	Allergens       []string                 `json:"allergens"`
	NutritionalInfo map[string]interface{}   `json:"nutritionalInfo,omitempty"`
	Position        int                      `json:"position"`
	Variants        []map[string]interface{} `json:"variants,omitempty"`
	Options         []map[string]interface{} `json:"options,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	IsAvailable bool   `json:"isAvailable"`
	Items       []Item `json:"items"`
}

type Menu struct {
	RestaurantID int        `json:"restaurantId"`
	Categories   []Category `json:"categories"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func New(restaurantID int, now time.Time) *Menu {
	return &Menu{
		RestaurantID: restaurantID,
		Categories:   []Category{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EffectivePrice is the price a customer pays for one unit.
func (i Item) EffectivePrice() float64 {
	return pricing.EffectivePrice(i.Price, i.DiscountedPrice)
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperr.Validation("item name is required")
	}
	if err := pricing.ValidateMoney("price", i.Price); err != nil {
		return err
	}
	if i.DiscountedPrice != nil {
		if err := pricing.ValidateMoney("discountedPrice", *i.DiscountedPrice); err != nil {
			return err
		}
		if *i.DiscountedPrice >= i.Price {
			return apperr.Validation("discountedPrice must be lower than price")
		}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("category name is required")
	}
	return nil
}

// Clone returns a deep copy so a failed save never leaks a half-applied mutation.
func (m *Menu) Clone() *Menu {
	data, err := json.Marshal(m)
	if err != nil {
		panic("menu: clone: " + err.Error())
	}
	var out Menu
	if err := json.Unmarshal(data, &out); err != nil {
		panic("menu: clone: " + err.Error())
	}
	return &out
}

// Normalize stable-sorts categories and items by position and renumbers them 0..n-1.
func (m *Menu) Normalize() {
	sort.SliceStable(m.Categories, func(i, j int) bool {
		return m.Categories[i].Position < m.Categories[j].Position
	})
	for ci := range m.Categories {
		m.Categories[ci].Position = ci
		m.Categories[ci].normalizeItems()
	}
}

func (c *Category) normalizeItems() {
	if c.Items == nil {
		c.Items = []Item{}
	}
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Position < c.Items[j].Position
	})
	for ii := range c.Items {
		c.Items[ii].Position = ii
		if c.Items[ii].Allergens == nil {
			c.Items[ii].Allergens = []string{}
		}
	}
}

func (m *Menu) Touch(now time.Time) {
	m.UpdatedAt = now
}

func (m *Menu) categoryIndex(categoryID string) int {
	for i := range m.Categories {
		if m.Categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}

func (m *Menu) Category(categoryID string) (*Category, error) {
	idx := m.categoryIndex(categoryID)
	if idx < 0 {
		return nil, apperr.NotFound("category %s not found", categoryID)
	}
	return &m.Categories[idx], nil
}

// AppendCategory assigns a fresh id and puts the category at the end.
func (m *Menu) AppendCategory(c Category) *Category {
	c.ID = uuid.NewString()
	c.Position = len(m.Categories)
	if c.Items == nil {
		c.Items = []Item{}
	}
	m.Categories = append(m.Categories, c)
	return &m.Categories[len(m.Categories)-1]
}

func (m *Menu) RemoveCategory(categoryID string) error {
	idx := m.categoryIndex(categoryID)
	if idx < 0 {
		return apperr.NotFound("category %s not found", categoryID)
	}
	m.Categories = append(m.Categories[:idx], m.Categories[idx+1:]...)
	m.Normalize()
	return nil
}

// MoveCategory puts the category at index position (clamped) and renumbers.
func (m *Menu) MoveCategory(categoryID string, position int) error {
	idx := m.categoryIndex(categoryID)
	if idx < 0 {
		return apperr.NotFound("category %s not found", categoryID)
	}
	moved := m.Categories[idx]
	rest := append(append([]Category{}, m.Categories[:idx]...), m.Categories[idx+1:]...)
	position = clamp(position, len(rest))
	m.Categories = append(rest[:position], append([]Category{moved}, rest[position:]...)...)
	for i := range m.Categories {
		m.Categories[i].Position = i
	}
	return nil
}

func (c *Category) itemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Category) Item(itemID string) (*Item, error) {
	idx := c.itemIndex(itemID)
	if idx < 0 {
		return nil, apperr.NotFound("item %s not found", itemID)
	}
	return &c.Items[idx], nil
}

func (c *Category) AppendItem(it Item) *Item {
	it.ID = uuid.NewString()
	it.Position = len(c.Items)
	if it.Allergens == nil {
		it.Allergens = []string{}
	}
	c.Items = append(c.Items, it)
	return &c.Items[len(c.Items)-1]
}

func (c *Category) RemoveItem(itemID string) error {
	idx := c.itemIndex(itemID)
	if idx < 0 {
		return apperr.NotFound("item %s not found", itemID)
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.normalizeItems()
	return nil
}

// MoveItem puts the item at index position (clamped) and renumbers the category.
func (c *Category) MoveItem(itemID string, position int) error {
	idx := c.itemIndex(itemID)
	if idx < 0 {
		return apperr.NotFound("item %s not found", itemID)
	}
	moved := c.Items[idx]
	rest := append(append([]Item{}, c.Items[:idx]...), c.Items[idx+1:]...)
	position = clamp(position, len(rest))
	c.Items = append(rest[:position], append([]Item{moved}, rest[position:]...)...)
	for i := range c.Items {
		c.Items[i].Position = i
	}
	return nil
}

// FindItem looks an item up across all categories.
func (m *Menu) FindItem(itemID string) (Item, Category, bool) {
	for _, c := range m.Categories {
		for _, it := range c.Items {
			if it.ID == itemID {
				return it, c, true
			}
		}
	}
	return Item{}, Category{}, false
}

// Public is the customer-facing copy: unavailable categories dropped, sorted by position.
func (m *Menu) Public() *Menu {
	out := m.Clone()
	out.Normalize()
	visible := make([]Category, 0, len(out.Categories))
	for _, c := range out.Categories {
		if c.IsAvailable {
			visible = append(visible, c)
		}
	}
	out.Categories = visible
	return out
}

func clamp(position, length int) int {
	if position < 0 {
		return 0
	}
	if position > length {
		return length
	}
	return position
}
