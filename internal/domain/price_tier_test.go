package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriceTier(t *testing.T) {
	tests := []struct {
		raw  string
		want PriceTier
	}{
		{"1", PriceTierLow},
		{"$", PriceTierLow},
		{"Barato", PriceTierLow},
		{"2", PriceTierMedium},
		{"$$", PriceTierMedium},
		{"moderado", PriceTierMedium},
		{" 3 ", PriceTierHigh},
		{"€€€", PriceTierHigh},
		{"CARO", PriceTierHigh},
		{"4", PriceTierPremium},
		{"$$$$", PriceTierPremium},
		{"Lujo", PriceTierPremium},
		{"", PriceTierLow},
		{"astronomical", PriceTierLow},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePriceTier(tt.raw))
		})
	}
}

func TestIsKnownPriceRange(t *testing.T) {
	assert.True(t, IsKnownPriceRange("$$"))
	assert.True(t, IsKnownPriceRange("premium"))
	assert.False(t, IsKnownPriceRange("cheapish"))
}

func TestPriceTier_JSON(t *testing.T) {
	data, err := json.Marshal(PriceTierHigh)
	require.NoError(t, err)
	assert.Equal(t, `"high"`, string(data))

	var tier PriceTier
	require.NoError(t, json.Unmarshal([]byte(`"premium"`), &tier))
	assert.Equal(t, PriceTierPremium, tier)
	assert.Equal(t, 4, tier.Level())
}

func TestPriceRangeForAverage(t *testing.T) {
	assert.Equal(t, "1", PriceRangeForAverage(0))
	assert.Equal(t, "1", PriceRangeForAverage(14.99))
	assert.Equal(t, "2", PriceRangeForAverage(15))
	assert.Equal(t, "3", PriceRangeForAverage(30))
	assert.Equal(t, "4", PriceRangeForAverage(50))
}

func TestVenue_RecordObservedPrice(t *testing.T) {
	v := &Venue{PriceRange: "$"}

	v.RecordObservedPrice(20, fixedNow)
	assert.Equal(t, "2", v.PriceRange)
	assert.Equal(t, PriceTierMedium, v.Tier())

	v.RecordObservedPrice(80, fixedNow)
	assert.Equal(t, 2, v.ObservedPriceCount)
	assert.InDelta(t, 50.0, v.AverageObservedPrice(), 0.0001)
	assert.Equal(t, PriceTierPremium, v.Tier())
	assert.Equal(t, fixedNow, v.UpdatedAt)
}

func TestVenue_RecordObservedPrice_OverridesConfiguredRange(t *testing.T) {
	v := &Venue{PriceRange: "$$"}
	require.Equal(t, PriceTierMedium, v.Tier())

	v.RecordObservedPrice(12, fixedNow)
	assert.Equal(t, "1", v.PriceRange)
	assert.Equal(t, PriceTierLow, v.Tier())
}
