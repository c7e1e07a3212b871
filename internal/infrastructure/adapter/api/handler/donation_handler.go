package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/entity"
	domainerr "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	donationUseCase "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/usecase/donation"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// DonationHandler handles donation intake and read requests
type DonationHandler struct {
	donationService *donationUseCase.Service
	logger          coreport.Logger
}

// NewDonationHandler creates a new donation handler instance
func NewDonationHandler(
	donationService *donationUseCase.Service,
	logger coreport.Logger,
) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		logger:          logger,
	}
}

// CreateDonation handles the POST /donations endpoint
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid donation request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.donationService.CreateDonation(
		c.Request.Context(),
		donationUseCase.CreateDonationRequest{
			DonorName:  req.DonorName,
			DonorEmail: req.DonorEmail,
			Amount:     req.Amount,
			Currency:   req.Currency,
			Message:    req.Message,
		},
		c.GetHeader("Origin"),
	)
	if err != nil {
		status, message := donationErrorStatus(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.CreateDonationResponse{
		URL:           result.URL,
		DonationID:    result.DonationID,
		LivesImpacted: result.LivesImpacted,
	})
}

// GetDonation handles the GET /donations/:id endpoint
func (h *DonationHandler) GetDonation(c *gin.Context) {
	record, err := h.donationService.GetDonation(c.Request.Context(), c.Param("id"))
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

// ListDonations handles the GET /donations endpoint. Defaults to settled
// records: the content collaborators only consume the finalized ledger.
func (h *DonationHandler) ListDonations(c *gin.Context) {
	status := entity.DonationStatus(c.DefaultQuery("status", string(entity.StatusSettled)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.donationService.ListDonations(c.Request.Context(), status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	donations := make([]dto.DonationResponse, 0, len(records))
	for _, record := range records {
		donations = append(donations, toDonationResponse(record))
	}
	c.JSON(http.StatusOK, dto.DonationListResponse{
		Donations: donations,
		Count:     len(donations),
	})
}

// toDonationResponse maps a ledger record to its API shape. Donor email
// is deliberately not exposed on the read surface.
func toDonationResponse(record *entity.DonationRecord) dto.DonationResponse {
	resp := dto.DonationResponse{
		ID:            record.ID,
		DonorName:     record.DonorName,
		Amount:        record.Amount,
		Currency:      record.Currency,
		Status:        string(record.Status),
		LivesImpacted: record.LivesImpacted,
		Message:       record.Message,
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	}
	if record.SettledAt != nil {
		resp.SettledAt = record.SettledAt.Format(time.RFC3339)
	}
	return resp
}

// donationErrorStatus maps domain errors to HTTP status codes and
// user-visible messages
func donationErrorStatus(err error) (int, string) {
	switch {
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound, "Donation not found"
	case domainerr.IsGatewayError(err):
		return http.StatusBadGateway, "Payment processor is unavailable, please try again"
	case domainerr.IsPersistenceError(err):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
