package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/models"
	"github.com/skit-dev/sodeca-api/internal/service"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// ProfileHandler wires HTTP endpoints to the profile service.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Get godoc
// @Summary Get student details
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student_details [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// Save godoc
// @Summary Save student details
// @Description Create or replace the student's detail record
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.ProfileRequest true "Student details"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student_details [post]
func (h *ProfileHandler) Save(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "all student detail fields are required"))
		return
	}

	profile, err := h.service.Save(c.Request.Context(), session.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
