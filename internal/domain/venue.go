package domain

import (
	"strconv"
	"time"
)

// Observed average ticket price upper bounds for the low, medium and high
// tiers. Anything at or above the last bound is premium.
var priceTierBounds = []float64{15, 30, 50}

// Venue is a club hosting events
type Venue struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	PriceRange         string    `json:"price_range"`
	ObservedPriceTotal float64   `json:"observed_price_total"`
	ObservedPriceCount int       `json:"observed_price_count"`
	OwnerID            string    `json:"owner_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Tier returns the venue's normalized price tier
func (v *Venue) Tier() PriceTier {
	return NormalizePriceTier(v.PriceRange)
}

// AverageObservedPrice returns the mean price of tickets sold at the venue
func (v *Venue) AverageObservedPrice() float64 {
	if v.ObservedPriceCount == 0 {
		return 0
	}
	return v.ObservedPriceTotal / float64(v.ObservedPriceCount)
}

// RecordObservedPrice folds a sold ticket price into the running average
// and re-derives PriceRange from it
func (v *Venue) RecordObservedPrice(price float64, now time.Time) {
	v.ObservedPriceTotal += price
	v.ObservedPriceCount++
	v.PriceRange = PriceRangeForAverage(v.AverageObservedPrice())
	v.UpdatedAt = now
}

// PriceRangeForAverage maps an average ticket price to a numeric price range
func PriceRangeForAverage(avg float64) string {
	for i, bound := range priceTierBounds {
		if avg < bound {
			return strconv.Itoa(i + 1)
		}
	}
	return strconv.Itoa(len(priceTierBounds) + 1)
}

// DJ is a performer that can be booked on events
type DJ struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
