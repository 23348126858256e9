package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/nightlife-hub/nightpass/pkg/response"
	"go.uber.org/zap"
)

// requireRole authorizes the verified identity against roles and converts
// it into a service actor. With no roles it only requires authentication.
// On failure it writes the 401/403 response and returns false.
func requireRole(c *gin.Context, roles ...string) (service.Actor, bool) {
	identity, _ := middleware.GetIdentity(c)
	if err := middleware.Authorize(identity, roles...); err != nil {
		if errors.Is(err, middleware.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		} else {
			c.JSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
		}
		return service.Actor{}, false
	}
	return service.Actor{
		UserID: identity.UserID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   identity.Role,
	}, true
}

// respondError maps domain errors to HTTP responses
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case domain.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, response.NotFound(err.Error()))
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotAttendee):
		c.JSON(http.StatusForbidden, response.Forbidden(err.Error()))
	case domain.IsSoldOutError(err):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeSoldOut, err.Error()))
	case domain.IsConflictError(err):
		c.JSON(http.StatusConflict, response.Conflict(err.Error()))
	case errors.Is(err, domain.ErrInvalidPrice):
		c.JSON(http.StatusUnprocessableEntity, response.Error(response.ErrCodeUnprocessable, err.Error()))
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidation, err.Error()))
	default:
		logger.Get().Error(fallback,
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, response.InternalError(fallback))
	}
}
