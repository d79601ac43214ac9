package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/models"
	"github.com/skit-dev/sodeca-api/internal/service"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// BloodDonationHandler wires the flat-ledger donation endpoints.
type BloodDonationHandler struct {
	service *service.BloodDonationService
}

// NewBloodDonationHandler creates a new handler.
func NewBloodDonationHandler(svc *service.BloodDonationService) *BloodDonationHandler {
	return &BloodDonationHandler{service: svc}
}

// Describe godoc
// @Summary Describe the donation entry fields
// @Tags BloodDonation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /blood_donation [get]
func (h *BloodDonationHandler) Describe(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"columns": h.service.Header()}, nil)
}

// Record godoc
// @Summary Record a blood donation entry
// @Tags BloodDonation
// @Accept json
// @Produce json
// @Param payload body models.BloodDonationEntry true "Donation entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /blood_donation [post]
func (h *BloodDonationHandler) Record(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var entry models.BloodDonationEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "all donation fields are required"))
		return
	}

	if err := h.service.Record(c.Request.Context(), session.UserID, entry); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"recorded": true})
}
