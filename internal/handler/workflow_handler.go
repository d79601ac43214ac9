package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/service"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// WorkflowHandler wires the multi-step submission endpoints.
type WorkflowHandler struct {
	workflow    *service.WorkflowService
	submissions *service.SubmissionService
}

// NewWorkflowHandler creates a new handler.
func NewWorkflowHandler(workflow *service.WorkflowService, submissions *service.SubmissionService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, submissions: submissions}
}

// respondGuard maps workflow order violations to the step the client should
// return to; everything else goes out as a plain error.
func respondGuard(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrFormsNotSelected.Code:
		response.ErrorWithNext(c, err, "/sodeca_forms")
	case appErrors.ErrDetailsNotVerified.Code:
		response.ErrorWithNext(c, err, "/verify_student_details")
	case appErrors.ErrProfileRequired.Code:
		response.ErrorWithNext(c, err, "/student_details")
	default:
		response.Error(c, err)
	}
}

// ListForms godoc
// @Summary List selectable forms
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sodeca_forms [get]
func (h *WorkflowHandler) ListForms(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.workflow.Options(), nil)
}

// SelectForms godoc
// @Summary Choose the forms to submit
// @Description Starts a submission workflow over the selected forms
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body object true "Selected form keys"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sodeca_forms [post]
func (h *WorkflowHandler) SelectForms(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Forms []string `json:"forms" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a forms list is required"))
		return
	}

	if err := h.workflow.SelectForms(c.Request.Context(), session, payload.Forms); err != nil {
		respondGuard(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"selected": session.Workflow.SelectedForms}, map[string]interface{}{"next": "/verify_student_details"})
}

// ShowDetails godoc
// @Summary Show the details to verify
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /verify_student_details [get]
func (h *WorkflowHandler) ShowDetails(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.workflow.DetailsForVerification(c.Request.Context(), session)
	if err != nil {
		respondGuard(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// ConfirmDetails godoc
// @Summary Confirm the student details
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /verify_student_details [post]
func (h *WorkflowHandler) ConfirmDetails(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.workflow.ConfirmDetails(c.Request.Context(), session); err != nil {
		respondGuard(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"verified": true}, map[string]interface{}{"next": "/fill_form"})
}

// CurrentForm godoc
// @Summary Get the form to fill next
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /fill_form [get]
func (h *WorkflowHandler) CurrentForm(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	def, err := h.workflow.CurrentForm(session)
	if err != nil {
		respondGuard(c, err)
		return
	}

	response.JSON(c, http.StatusOK, def, nil)
}

// SubmitForm godoc
// @Summary Submit the current form
// @Description Accepts a multipart form matching the current definition
// @Tags Workflow
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /fill_form [post]
func (h *WorkflowHandler) SubmitForm(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	def, err := h.workflow.CurrentForm(session)
	if err != nil {
		respondGuard(c, err)
		return
	}

	inputs := make(map[string]forms.Input, len(def.Fields))
	for _, field := range def.Fields {
		if field.Type == forms.FieldFile {
			file, err := c.FormFile(field.Name)
			if err != nil && !errors.Is(err, http.ErrMissingFile) {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "malformed multipart payload"))
				return
			}
			inputs[field.Name] = forms.Input{File: file}
			continue
		}
		inputs[field.Name] = forms.Input{Value: c.PostForm(field.Name)}
	}

	fieldErrs, err := h.submissions.Submit(c.Request.Context(), session, def.Key, inputs)
	if err != nil {
		if len(fieldErrs) > 0 {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{
				Error: appErr,
				Meta:  map[string]interface{}{"fields": fieldErrs},
			})
			return
		}
		respondGuard(c, err)
		return
	}

	done, err := h.workflow.Advance(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}

	next := "/fill_form"
	if done {
		next = "/"
	}
	response.JSON(c, http.StatusOK, gin.H{"submitted": def.Key, "done": done}, map[string]interface{}{"next": next})
}
