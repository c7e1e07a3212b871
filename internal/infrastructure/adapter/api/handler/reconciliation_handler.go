package handler

import (
	"net/http"

	domainerr "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	donationUseCase "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/usecase/donation"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Webhook event types delivered by the payment processor
const (
	eventSessionCompleted = "checkout.session.completed"
	eventSessionExpired   = "checkout.session.expired"
)

// ReconciliationHandler handles the payment-outcome entry points: the
// donor redirect after checkout and the processor's async webhook
type ReconciliationHandler struct {
	donationService *donationUseCase.Service
	logger          coreport.Logger
}

// NewReconciliationHandler creates a new reconciliation handler instance
func NewReconciliationHandler(
	donationService *donationUseCase.Service,
	logger coreport.Logger,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		donationService: donationService,
		logger:          logger,
	}
}

// PaymentSucceeded handles the GET /payments/success endpoint, reached
// when the processor redirects the donor back after a completed payment
func (h *ReconciliationHandler) PaymentSucceeded(c *gin.Context) {
	h.reconcile(c, donationUseCase.OutcomeSucceeded)
}

// PaymentCancelled handles the GET /payments/cancel endpoint
func (h *ReconciliationHandler) PaymentCancelled(c *gin.Context) {
	h.reconcile(c, donationUseCase.OutcomeCancelled)
}

func (h *ReconciliationHandler) reconcile(c *gin.Context, outcome donationUseCase.Outcome) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing required query parameter: session_id",
		})
		return
	}

	record, err := h.donationService.Reconcile(c.Request.Context(), sessionID, outcome)
	if err != nil {
		status, message := donationErrorStatus(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, toDonationResponse(record))
}

// HandleWebhook handles the POST /webhooks/payment endpoint. Duplicate
// deliveries are expected and absorbed by the settle path; unrecognized
// event types are acknowledged and skipped so the processor stops
// retrying them.
func (h *ReconciliationHandler) HandleWebhook(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid webhook payload: " + err.Error(),
		})
		return
	}

	var outcome donationUseCase.Outcome
	switch event.Type {
	case eventSessionCompleted:
		outcome = donationUseCase.OutcomeSucceeded
	case eventSessionExpired:
		outcome = donationUseCase.OutcomeCancelled
	default:
		h.logger.Debug("Ignoring webhook event", map[string]any{
			"type": event.Type,
		})
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if _, err := h.donationService.Reconcile(c.Request.Context(), event.Data.Object.ID, outcome); err != nil {
		h.logger.Error("Webhook reconciliation failed", map[string]any{
			"type":       event.Type,
			"session_id": event.Data.Object.ID,
			"error":      err.Error(),
		})
		status, message := donationErrorStatus(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
