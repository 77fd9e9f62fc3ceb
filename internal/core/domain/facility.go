package domain

import (
	"fmt"
	"math"
	"strings"
)

// FacilityCharge is a request to bill a hotel facility (spa, gym,
// dining, golf and so on) against a payment. Quantity defaults to 1;
// Surcharge covers per-use extras such as treatment fees or green
// fees.
type FacilityCharge struct {
	Description string
	BaseCost    float64
	Quantity    int
	Surcharge   float64
}

// Charge computes the billable total: base cost times quantity plus
// the surcharge.
func (f FacilityCharge) Charge() float64 {
	qty := f.Quantity
	if qty < 1 {
		qty = 1
	}
	return f.BaseCost*float64(qty) + f.Surcharge
}

// ApplyTo validates the facility charge and records it as a line item
// on the payment.
func (f FacilityCharge) ApplyTo(p *Payment) error {
	if p == nil {
		return fmt.Errorf("%w: payment is required to apply a facility charge", ErrValidation)
	}
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("%w: facility description is required", ErrValidation)
	}
	if f.BaseCost < 0 || f.Surcharge < 0 || math.IsNaN(f.BaseCost) || math.IsNaN(f.Surcharge) {
		return fmt.Errorf("%w: facility cost must be non-negative", ErrValidation)
	}
	return p.AddCharge(f.Description, f.Charge())
}
