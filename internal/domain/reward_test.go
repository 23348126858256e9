package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

func TestRewardProgress_NextAndUnlocked(t *testing.T) {
	p := RewardProgress{Tier: PriceTierLow, ReviewCount: 30, Thresholds: RewardLadder()}

	unlocked := p.Unlocked()
	require.Len(t, unlocked, 2)
	assert.Equal(t, RewardFreeEntry, unlocked[1].Reward)

	next := p.Next()
	require.NotNil(t, next)
	assert.Equal(t, 50, next.Count)

	p.ReviewCount = 100
	assert.Nil(t, p.Next())
}

func TestRewardSummary_Count(t *testing.T) {
	s := NewRewardSummary("user-1")
	require.Len(t, s.Tiers, 4)

	s.Count(PriceTierHigh)
	s.Count(PriceTierHigh)
	s.CountUnresolved()

	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, 1, s.Unresolved)
	assert.Equal(t, 2, s.Tiers[PriceTierHigh].ReviewCount)
	for _, tier := range s.Tiers {
		assert.Equal(t, RewardLadder(), tier.Thresholds)
	}
}

func TestValidateRating(t *testing.T) {
	for _, ok := range []float64{0.5, 1, 2.5, 5} {
		assert.NoError(t, ValidateRating(ok), "rating=%v", ok)
	}
	for _, bad := range []float64{0, 0.25, 4.75, 5.5, -1} {
		assert.ErrorIs(t, ValidateRating(bad), ErrInvalidRating, "rating=%v", bad)
	}
}

func TestEvent_Attendees(t *testing.T) {
	e := &Event{VenueID: "v1", DJIDs: []string{"dj1"}}

	assert.True(t, e.AddAttendee("u1"))
	assert.False(t, e.AddAttendee("u1"))
	assert.True(t, e.HasAttendee("u1"))
	assert.True(t, e.HasDJ("dj1"))
	assert.False(t, e.HasDJ("dj2"))
}

func TestValidateTicketTypes(t *testing.T) {
	ok := []TicketType{{Name: "General", Tranches: []Tranche{{CumulativeCeiling: 10, UnitPrice: 5}}}}
	assert.NoError(t, ValidateTicketTypes(ok))

	dup := append(ok, TicketType{Name: "General"})
	assert.ErrorIs(t, ValidateTicketTypes(dup), ErrDuplicateTicketType)

	assert.ErrorIs(t, ValidateTicketTypes([]TicketType{{Name: " "}}), ErrEmptyTicketTypeName)
	assert.ErrorIs(t, ValidateTicketTypes([]TicketType{{Name: "VIP", Tranches: []Tranche{{CumulativeCeiling: -1}}}}), ErrInvalidTranches)
}
