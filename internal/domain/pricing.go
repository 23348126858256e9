package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTranches   = errors.New("invalid tranche configuration")
	ErrNegativeSoldCount = errors.New("sold count cannot be negative")
)

// Tranche is a pricing band. CumulativeCeiling counts every ticket of the
// type sold so far, not the width of this band.
type Tranche struct {
	CumulativeCeiling int     `json:"cumulative_ceiling"`
	UnitPrice         float64 `json:"unit_price"`
}

// PriceFor returns the unit price of the first tranche whose ceiling is
// strictly greater than sold. ok is false when every tranche is exhausted,
// which includes an empty tranche list.
func PriceFor(tranches []Tranche, sold int) (price float64, ok bool) {
	for _, t := range tranches {
		if sold < t.CumulativeCeiling {
			return t.UnitPrice, true
		}
	}
	return 0, false
}

// ValidateSoldCount rejects counts that cannot come from a ticket store
func ValidateSoldCount(sold int) error {
	if sold < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSoldCount, sold)
	}
	return nil
}

// ValidateTranches checks ceilings are positive and strictly increasing and
// prices are positive
func ValidateTranches(tranches []Tranche) error {
	prev := 0
	for i, t := range tranches {
		if t.CumulativeCeiling <= 0 {
			return fmt.Errorf("%w: tranche %d ceiling must be positive", ErrInvalidTranches, i)
		}
		if t.CumulativeCeiling <= prev {
			return fmt.Errorf("%w: tranche %d ceiling %d does not exceed %d", ErrInvalidTranches, i, t.CumulativeCeiling, prev)
		}
		if t.UnitPrice <= 0 || math.IsNaN(t.UnitPrice) || math.IsInf(t.UnitPrice, 0) {
			return fmt.Errorf("%w: tranche %d price must be a positive number", ErrInvalidTranches, i)
		}
		prev = t.CumulativeCeiling
	}
	return nil
}

// MinorUnits converts a price to the smallest currency unit, rounding half away from zero
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
