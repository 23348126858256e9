package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess_OmitsError(t *testing.T) {
	body, err := json.Marshal(Success(map[string]string{"id": "evt-1"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"data":{"id":"evt-1"}}`, string(body))
}

func TestError_Helpers(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		code string
	}{
		{"bad request", BadRequest("bad"), ErrCodeBadRequest},
		{"not found", NotFound("missing"), ErrCodeNotFound},
		{"unauthorized", Unauthorized("who"), ErrCodeUnauthorized},
		{"forbidden", Forbidden("no"), ErrCodeForbidden},
		{"conflict", Conflict("dup"), ErrCodeConflict},
		{"internal", InternalError("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.resp.Success)
			require.NotNil(t, tt.resp.Error)
			assert.Equal(t, tt.code, tt.resp.Error.Code)
		})
	}
}

func TestErrorWithDetails(t *testing.T) {
	resp := ErrorWithDetails(ErrCodeValidation, "invalid rating", "rating must be a multiple of 0.5")
	assert.Equal(t, "rating must be a multiple of 0.5", resp.Error.Details)
}

func TestPaginated_TotalPages(t *testing.T) {
	resp := Paginated([]int{1, 2}, 1, 20, 41)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := Paginated(nil, 1, 0, 10)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}
