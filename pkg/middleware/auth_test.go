package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	cfg := &JWTConfig{Secret: testSecret}
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name     string
		header   string
		wantErr  error
		wantRole string
		wantID   string
	}{
		{
			name:     "user_id claim",
			header:   "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u1", "email": "a@b.c", "role": "club", "exp": exp}, testSecret),
			wantRole: RoleClub,
			wantID:   "u1",
		},
		{
			name:     "sub fallback and default role",
			header:   "Bearer " + signToken(t, jwt.MapClaims{"sub": "u2", "exp": exp}, testSecret),
			wantRole: RoleUser,
			wantID:   "u2",
		},
		{
			name:    "missing header",
			header:  "",
			wantErr: ErrMissingToken,
		},
		{
			name:    "wrong secret",
			header:  "Bearer " + signToken(t, jwt.MapClaims{"sub": "u3", "exp": exp}, "other"),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "expired",
			header:  "Bearer " + signToken(t, jwt.MapClaims{"sub": "u4", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no subject",
			header:  "Bearer " + signToken(t, jwt.MapClaims{"email": "x@y.z", "exp": exp}, testSecret),
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := ParseToken(tt.header, cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, identity.UserID)
			assert.Equal(t, tt.wantRole, identity.Role)
		})
	}
}

func TestAuthorize(t *testing.T) {
	user := &Identity{UserID: "u1", Role: RoleUser}
	club := &Identity{UserID: "c1", Role: RoleClub}
	admin := &Identity{UserID: "a1", Role: RoleAdmin}

	assert.ErrorIs(t, Authorize(nil), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(&Identity{}), ErrUnauthenticated)
	assert.NoError(t, Authorize(user))
	assert.NoError(t, Authorize(club, RoleClub))
	assert.ErrorIs(t, Authorize(user, RoleClub), ErrForbidden)
	assert.NoError(t, Authorize(admin, RoleClub))
	assert.NoError(t, Authorize(user, RoleClub, RoleUser))
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTMiddleware(&JWTConfig{Secret: testSecret, SkipPaths: []string{"/public/*"}}))
	router.GET("/public/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		assert.True(t, ok)
		c.String(http.StatusOK, id)
	})

	userToken := signToken(t, jwt.MapClaims{"user_id": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"skipped path", "/public/ping", "", http.StatusOK},
		{"no token", "/me", "", http.StatusUnauthorized},
		{"valid token", "/me", userToken, http.StatusOK},
		{"bad token", "/me", userToken + "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
