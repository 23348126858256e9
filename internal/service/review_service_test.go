package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviewable(t *testing.T, env *testEnv) {
	t.Helper()
	env.seedVenue(t, "v1", "owner-1", "2")
	env.seedDJ(t, "dj1", "Amelie Lens")
	env.seedEvent(t, "e1", "v1", "dj1")
	require.NoError(t, env.events.AddAttendee(context.Background(), "e1", "u1"))
}

func TestReviewService_CreateReview(t *testing.T) {
	env := newTestEnv()
	seedReviewable(t, env)
	svc := NewReviewService(env.reviews, env.events)

	review, err := svc.CreateReview(context.Background(), Actor{UserID: "u1"}, &dto.CreateReviewRequest{
		TargetID: "v1", TargetType: domain.TargetClub, EventID: "e1", Rating: 4.5, Comment: "great sound",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", review.UserID)
	assert.Equal(t, 4.5, review.Rating)

	// Same user may review the DJ of the same night separately
	_, err = svc.CreateReview(context.Background(), Actor{UserID: "u1"}, &dto.CreateReviewRequest{
		TargetID: "dj1", TargetType: domain.TargetDJ, EventID: "e1", Rating: 5,
	})
	require.NoError(t, err)

	reviews, err := svc.ListUserReviews(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviewService_CreateReview_Rejections(t *testing.T) {
	env := newTestEnv()
	seedReviewable(t, env)
	svc := NewReviewService(env.reviews, env.events)
	_, err := svc.CreateReview(context.Background(), Actor{UserID: "u1"}, &dto.CreateReviewRequest{
		TargetID: "v1", TargetType: domain.TargetClub, EventID: "e1", Rating: 3,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   string
		req     dto.CreateReviewRequest
		wantErr error
	}{
		{name: "duplicate", actor: "u1", req: dto.CreateReviewRequest{TargetID: "v1", TargetType: domain.TargetClub, EventID: "e1", Rating: 2}, wantErr: domain.ErrDuplicateReview},
		{name: "not attendee", actor: "u2", req: dto.CreateReviewRequest{TargetID: "v1", TargetType: domain.TargetClub, EventID: "e1", Rating: 2}, wantErr: domain.ErrNotAttendee},
		{name: "other club", actor: "u1", req: dto.CreateReviewRequest{TargetID: "v9", TargetType: domain.TargetClub, EventID: "e1", Rating: 2}, wantErr: domain.ErrInvalidTarget},
		{name: "dj not on lineup", actor: "u1", req: dto.CreateReviewRequest{TargetID: "dj9", TargetType: domain.TargetDJ, EventID: "e1", Rating: 2}, wantErr: domain.ErrInvalidTarget},
		{name: "unknown event", actor: "u1", req: dto.CreateReviewRequest{TargetID: "v1", TargetType: domain.TargetClub, EventID: "e9", Rating: 2}, wantErr: domain.ErrEventNotFound},
		{name: "quarter star", actor: "u1", req: dto.CreateReviewRequest{TargetID: "dj1", TargetType: domain.TargetDJ, EventID: "e1", Rating: 3.25}, wantErr: domain.ErrInvalidRating},
		{name: "bad target type", actor: "u1", req: dto.CreateReviewRequest{TargetID: "v1", TargetType: "bar", EventID: "e1", Rating: 3}, wantErr: domain.ErrInvalidTargetType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreateReview(context.Background(), Actor{UserID: tt.actor}, &req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	_, err = svc.CreateReview(context.Background(), Actor{UserID: "u1"}, &dto.CreateReviewRequest{
		TargetID: "dj1", TargetType: domain.TargetDJ, EventID: "e1", Rating: 7,
	})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredArg)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
	assert.True(t, domain.IsValidationError(err))
}
