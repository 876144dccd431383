package catalog

import (
	"errors"
	"math"
)

// PromoKind selects how a promo affects the product price.
type PromoKind string

const (
	// PromoDiscount lowers the sale price by Amount (or Percent of price).
	PromoDiscount PromoKind = "discount"
	// PromoCashback keeps the sale price and refunds Amount after purchase.
	PromoCashback PromoKind = "cashback"
)

// Promo describes a product promotion. Percent and Amount are kept mutually
// consistent: editing either field recomputes the other against the base
// price. Amounts are whole Rupiah; fractional results round half away from
// zero, matching the admin form's behavior.
type Promo struct {
	Kind       PromoKind `json:"kind"`
	Percent    int       `json:"percent"`
	Amount     int64     `json:"amount"`
	FinalPrice int64     `json:"finalPrice"`
}

var ErrInvalidBasePrice = errors.New("catalog: base price must be positive")

// PercentFromAmount back-computes the discount percentage a fixed amount
// represents against the base price.
func PercentFromAmount(basePrice, amount int64) (int, error) {
	if basePrice <= 0 {
		return 0, ErrInvalidBasePrice
	}
	return int(math.Round(float64(amount) / float64(basePrice) * 100)), nil
}

// AmountFromPercent computes the fixed discount amount for a percentage of
// the base price.
func AmountFromPercent(basePrice int64, percent int) (int64, error) {
	if basePrice <= 0 {
		return 0, ErrInvalidBasePrice
	}
	return int64(math.Round(float64(basePrice) * float64(percent) / 100)), nil
}

// SetPercent sets the discount percentage and recomputes Amount and
// FinalPrice from the base price.
func (p *Promo) SetPercent(basePrice int64, percent int) error {
	amount, err := AmountFromPercent(basePrice, percent)
	if err != nil {
		return err
	}
	p.Percent = percent
	p.Amount = amount
	p.recompute(basePrice)
	return nil
}

// SetAmount sets the fixed discount amount and back-computes Percent and
// FinalPrice from the base price.
func (p *Promo) SetAmount(basePrice, amount int64) error {
	percent, err := PercentFromAmount(basePrice, amount)
	if err != nil {
		return err
	}
	p.Amount = amount
	p.Percent = percent
	p.recompute(basePrice)
	return nil
}

func (p *Promo) recompute(basePrice int64) {
	if p.Kind == PromoCashback {
		// Cashback refunds after purchase; the sale price is untouched.
		p.FinalPrice = basePrice
		return
	}
	p.FinalPrice = basePrice - p.Amount
	if p.FinalPrice < 0 {
		p.FinalPrice = 0
	}
}

// EffectivePrice returns the price the customer pays up front.
func (p *Promo) EffectivePrice(basePrice int64) int64 {
	if p == nil {
		return basePrice
	}
	if p.Kind == PromoCashback {
		return basePrice
	}
	return p.FinalPrice
}
