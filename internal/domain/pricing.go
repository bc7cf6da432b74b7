package domain

import "math"

// AddOn optional extra priced on top of the session
type AddOn struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AddOnCatalog add-ons a parent may attach on the coach step
var AddOnCatalog = map[string]AddOn{
	"video_analysis":   {Code: "video_analysis", Name: "Video analysis", Price: 20},
	"equipment_rental": {Code: "equipment_rental", Name: "Equipment rental", Price: 10},
	"extended_session": {Code: "extended_session", Name: "Extended session (+30 min)", Price: 35},
}

// PricingBreakdown derived price of a draft.
// Amounts are computed in minor units; the float fields mirror them for display.
// Invariant: TotalMinor == SessionPriceMinor + SetupFeeMinor + TaxAmountMinor,
// TaxAmountMinor == round((SessionPriceMinor+SetupFeeMinor)*TaxRate).
type PricingBreakdown struct {
	SessionPrice float64  `json:"sessionPrice"` // coach rate plus add-ons
	AddOns       []AddOn  `json:"addOns,omitempty"`
	SetupFee     float64  `json:"setupFee"`
	TaxRate      float64  `json:"taxRate"`
	TaxAmount    float64  `json:"taxAmount"`
	Total        float64  `json:"total"`
	Currency     string   `json:"currency"`
	Warnings     []string `json:"warnings,omitempty"`

	SessionPriceMinor int64 `json:"sessionPriceMinor"`
	SetupFeeMinor     int64 `json:"setupFeeMinor"`
	TaxAmountMinor    int64 `json:"taxAmountMinor"`
	TotalMinor        int64 `json:"totalMinor"`
}

// NewPricingBreakdown fills the breakdown from minor-unit components
func NewPricingBreakdown(sessionMinor, setupMinor, taxMinor int64, taxRate float64, currency string) PricingBreakdown {
	total := sessionMinor + setupMinor + taxMinor
	return PricingBreakdown{
		SessionPrice:      FromMinor(sessionMinor),
		SetupFee:          FromMinor(setupMinor),
		TaxRate:           taxRate,
		TaxAmount:         FromMinor(taxMinor),
		Total:             FromMinor(total),
		Currency:          currency,
		SessionPriceMinor: sessionMinor,
		SetupFeeMinor:     setupMinor,
		TaxAmountMinor:    taxMinor,
		TotalMinor:        total,
	}
}

// AmountMinor total in minor currency units
func (p PricingBreakdown) AmountMinor() int64 {
	return p.TotalMinor
}

// ToMinor converts a major-unit amount to minor units, half away from zero
func ToMinor(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromMinor converts minor units back to a major-unit amount for display
func FromMinor(minor int64) float64 {
	return float64(minor) / 100
}
