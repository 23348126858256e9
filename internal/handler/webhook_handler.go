package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"github.com/nightlife-hub/nightpass/pkg/response"
	"go.uber.org/zap"
)

const (
	// StripeSignatureHeader carries the webhook signature
	StripeSignatureHeader = "Stripe-Signature"
	maxWebhookBodyBytes   = 64 << 10
)

// WebhookHandler receives payment gateway notifications
type WebhookHandler struct {
	confirmationService service.ConfirmationService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(confirmationService service.ConfirmationService) *WebhookHandler {
	return &WebhookHandler{confirmationService: confirmationService}
}

// HandleStripe handles POST /webhooks/stripe.
// Only storage failures are non-2xx; every other rejection is acknowledged
// so the gateway stops redelivering it.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	log := logger.Get()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Warn("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, response.BadRequest("Failed to read request body"))
		return
	}

	result, err := h.confirmationService.Confirm(c.Request.Context(), payload, c.GetHeader(StripeSignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			log.Warn("webhook signature rejected", zap.Error(err))
			c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Status: "rejected", Reason: domain.ErrInvalidSignature.Error()})
		case errors.Is(err, domain.ErrPersistence):
			log.Error("webhook could not be persisted", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to process webhook"))
		case terminalWebhookError(err):
			log.Warn("webhook rejected", zap.Error(err))
			c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Status: "rejected", Reason: err.Error()})
		default:
			log.Error("webhook processing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to process webhook"))
		}
		return
	}

	ack := dto.WebhookAck{Received: true, Status: string(result.Status)}
	if result.Ticket != nil {
		ack.TicketID = result.Ticket.ID
	}
	c.JSON(http.StatusOK, ack)
}

// terminalWebhookError reports failures a redelivery cannot fix
func terminalWebhookError(err error) bool {
	return errors.Is(err, domain.ErrMalformedPayload) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		domain.IsNotFoundError(err) ||
		domain.IsSoldOutError(err) ||
		domain.IsValidationError(err)
}
