package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/models"
	"github.com/skit-dev/sodeca-api/internal/service"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// ReviewHandler wires the staff review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler creates a new handler.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// List godoc
// @Summary List all stored submissions
// @Tags Review
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /check_submissions [get]
func (h *ReviewHandler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// UpdateStatus godoc
// @Summary Change a submission's review state
// @Tags Review
// @Accept json
// @Produce json
// @Param form path string true "Form key"
// @Param studentId path string true "Student roll number"
// @Param payload body models.StatusUpdateRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /check_submissions/{form}/{studentId} [patch]
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	form := c.Param("form")
	studentID := c.Param("studentId")

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a status is required"))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), form, studentID, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"form": form, "student_id": studentID, "status": req.Status}, nil)
}

// StartExport godoc
// @Summary Queue a review sheet export
// @Description Renders per-form CSVs and a combined PDF in the background
// @Tags Review
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /update_sheets [post]
func (h *ReviewHandler) StartExport(c *gin.Context) {
	job, err := h.service.StartExport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Download godoc
// @Summary Download a rendered export
// @Description Serves a file authorised by its signed token
// @Tags Review
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ReviewHandler) Download(c *gin.Context) {
	path, err := h.service.ResolveExport(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.File(path)
}
