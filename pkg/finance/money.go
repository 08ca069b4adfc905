// Package finance provides integer money arithmetic for equipment pricing.
package finance

import (
	"fmt"
	"math"
)

// Money represents a monetary value in a specific currency.
// It uses integer math (minor units) to avoid floating point errors.
type Money struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"` // ISO 4217 code
	Scale       int    `json:"scale"`    // e.g. 2 for USD/EUR, 0 for JPY
}

func scaleFor(currency string) int {
	switch currency {
	case "JPY", "KRW":
		return 0
	default:
		return 2
	}
}

// NewMoney creates a new Money instance from minor units.
func NewMoney(amount int64, currency string) Money {
	return Money{
		AmountMinor: amount,
		Currency:    currency,
		Scale:       scaleFor(currency),
	}
}

// FromMajor converts a catalog price in major units (e.g. 12.5 dollars),
// rounding half away from zero to the currency's minor unit.
func FromMajor(amount float64, currency string) Money {
	scale := scaleFor(currency)
	minor := math.Round(amount * math.Pow10(scale))
	return Money{AmountMinor: int64(minor), Currency: currency, Scale: scale}
}

// Add adds two Money amounts. Returns error on currency mismatch.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	if m.Scale != other.Scale {
		return Money{}, fmt.Errorf("scale mismatch: %d vs %d", m.Scale, other.Scale)
	}
	return Money{
		AmountMinor: m.AmountMinor + other.AmountMinor,
		Currency:    m.Currency,
		Scale:       m.Scale,
	}, nil
}

// Sub subtracts other Money from m. Returns error on currency mismatch.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{
		AmountMinor: m.AmountMinor - other.AmountMinor,
		Currency:    m.Currency,
		Scale:       m.Scale,
	}, nil
}

// Mul multiplies m by an integer quantity.
func (m Money) Mul(qty int) Money {
	m.AmountMinor *= int64(qty)
	return m
}

// IsZero returns true if the amount is 0.
func (m Money) IsZero() bool {
	return m.AmountMinor == 0
}

// IsPositive returns true if the amount is > 0.
func (m Money) IsPositive() bool {
	return m.AmountMinor > 0
}

// IsNegative returns true if the amount is < 0.
func (m Money) IsNegative() bool {
	return m.AmountMinor < 0
}

// String renders m as "1234.50 USD".
func (m Money) String() string {
	if m.Scale == 0 {
		return fmt.Sprintf("%d %s", m.AmountMinor, m.Currency)
	}
	div := int64(math.Pow10(m.Scale))
	sign := ""
	v := m.AmountMinor
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%0*d %s", sign, v/div, m.Scale, v%div, m.Currency)
}
