// Package pricing computes line totals, subtotal, tax and grand total. The cart
// display path and order creation both go through Compute so the numbers they
// show and persist are identical.
package pricing

import (
	"math"

	"qrmenu/internal/apperr"
)

// Line is one priced entry: a unit price, an optional discounted price and a quantity.
type Line struct {
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Quantity        int      `json:"quantity"`
}

type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	TaxRate  float64 `json:"taxRate"`
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func EffectivePrice(price float64, discounted *float64) float64 {
	if discounted != nil && *discounted < price {
		return *discounted
	}
	return price
}

func LineTotal(price float64, discounted *float64, quantity int) float64 {
	return RoundCents(EffectivePrice(price, discounted) * float64(quantity))
}

func Subtotal(lines []Line) float64 {
	var sum float64
	for _, line := range lines {
		sum += LineTotal(line.Price, line.DiscountedPrice, line.Quantity)
	}
	return RoundCents(sum)
}

func Tax(subtotal, rate float64) float64 {
	return math.Round(subtotal*rate*100) / 100
}

func Total(subtotal, tax, discount float64) float64 {
	return RoundCents(subtotal + tax - discount)
}

// ValidateMoney rejects negative, NaN and infinite amounts.
func ValidateMoney(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperr.Validation("%s must be a number", field)
	}
	if v < 0 {
		return apperr.Validation("%s must not be negative", field)
	}
	return nil
}

func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return apperr.Validation("tax rate must be between 0 and 1")
	}
	return nil
}

func validateLine(line Line) error {
	if err := ValidateMoney("price", line.Price); err != nil {
		return err
	}
	if line.DiscountedPrice != nil {
		if err := ValidateMoney("discountedPrice", *line.DiscountedPrice); err != nil {
			return err
		}
	}
	if line.Quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}
	return nil
}

// Compute validates every line and returns the priced breakdown with no discount applied.
func Compute(lines []Line, rate float64) (Breakdown, error) {
	if err := ValidateRate(rate); err != nil {
		return Breakdown{}, err
	}
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return Breakdown{}, err
		}
	}

	subtotal := Subtotal(lines)
	tax := Tax(subtotal, rate)
	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Total(subtotal, tax, 0),
		TaxRate:  rate,
	}, nil
}
