package domain

import (
	"strings"
)

// PriceTier is the four-valued ordinal used to bucket reward progress
type PriceTier int

const (
	PriceTierLow PriceTier = iota
	PriceTierMedium
	PriceTierHigh
	PriceTierPremium
)

// AllPriceTiers lists every tier in ascending order
var AllPriceTiers = []PriceTier{PriceTierLow, PriceTierMedium, PriceTierHigh, PriceTierPremium}

var priceTierNames = map[PriceTier]string{
	PriceTierLow:     "low",
	PriceTierMedium:  "medium",
	PriceTierHigh:    "high",
	PriceTierPremium: "premium",
}

// priceTierAliases maps every accepted price range spelling to its tier
var priceTierAliases = func() map[string]PriceTier {
	groups := map[PriceTier][]string{
		PriceTierLow:     {"1", "$", "€", "low", "cheap", "bajo", "baja", "barato", "economico", "económico"},
		PriceTierMedium:  {"2", "$$", "€€", "medium", "moderate", "medio", "media", "moderado"},
		PriceTierHigh:    {"3", "$$$", "€€€", "high", "expensive", "alto", "alta", "caro"},
		PriceTierPremium: {"4", "$$$$", "€€€€", "premium", "luxury", "lujo", "exclusive", "exclusivo"},
	}
	aliases := make(map[string]PriceTier)
	for tier, names := range groups {
		for _, name := range names {
			aliases[name] = tier
		}
	}
	return aliases
}()

// NormalizePriceTier maps a venue's configured price range to its tier.
// Missing or unrecognized values fall back to PriceTierLow.
func NormalizePriceTier(raw string) PriceTier {
	key := strings.ToLower(strings.TrimSpace(raw))
	if tier, ok := priceTierAliases[key]; ok {
		return tier
	}
	return PriceTierLow
}

// IsKnownPriceRange reports whether raw is one of the accepted spellings
func IsKnownPriceRange(raw string) bool {
	_, ok := priceTierAliases[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

func (t PriceTier) String() string {
	if name, ok := priceTierNames[t]; ok {
		return name
	}
	return "unknown"
}

// Level returns the 1-4 numeric form stored as a venue price range
func (t PriceTier) Level() int {
	return int(t) + 1
}

func (t PriceTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PriceTier) UnmarshalText(text []byte) error {
	*t = NormalizePriceTier(string(text))
	return nil
}
