package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

const (
	// ContextKeyIdentity is the gin context key holding the verified *Identity
	ContextKeyIdentity = "identity"
	// ContextKeyUserID is the gin context key holding the caller's user id
	ContextKeyUserID = "user_id"
)

// Roles issued by the identity provider
const (
	RoleUser  = "user"
	RoleClub  = "club"
	RoleAdmin = "admin"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnauthenticated = errors.New("no authenticated identity")
	ErrForbidden       = errors.New("insufficient role")
)

// Identity is the already-verified caller attached to a request
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
}

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	Secret    string
	Issuer    string
	SkipPaths []string
}

// JWTMiddleware verifies HS256 bearer tokens and attaches the Identity
func JWTMiddleware(config *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if matchPath(path, c.Request.URL.Path) {
				c.Next()
				return
			}
		}

		identity, err := ParseToken(c.GetHeader("Authorization"), config)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(err.Error()))
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// ParseToken verifies an "Authorization: Bearer <jwt>" header value
func ParseToken(header string, config *JWTConfig) (*Identity, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}

	token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		UserID: claimString(claims, "user_id"),
		Email:  claimString(claims, "email"),
		Name:   claimString(claims, "name"),
		Role:   claimString(claims, "role"),
	}
	if identity.UserID == "" {
		identity.UserID = claimString(claims, "sub")
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if identity.Role == "" {
		identity.Role = RoleUser
	}

	return identity, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// Authorize checks an authenticated identity against a required role set.
// An empty set only requires authentication; admins pass every check.
func Authorize(identity *Identity, roles ...string) error {
	if identity == nil || identity.UserID == "" {
		return ErrUnauthenticated
	}
	if len(roles) == 0 || identity.Role == RoleAdmin {
		return nil
	}
	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// SetIdentity attaches identity to the gin context
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyUserID, identity.UserID)
}

// GetIdentity returns the identity attached by JWTMiddleware
func GetIdentity(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok && identity != nil
}

// GetUserID returns the caller's user id
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
