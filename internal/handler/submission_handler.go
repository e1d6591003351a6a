package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edulink-mx/classroom-api/internal/models"
	"github.com/edulink-mx/classroom-api/internal/service"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
	"github.com/edulink-mx/classroom-api/pkg/response"
)

// SubmissionHandler exposes entrega endpoints.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	grading     *service.GradingService
}

// NewSubmissionHandler constructs handler.
func NewSubmissionHandler(submissions *service.SubmissionService, grading *service.GradingService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, grading: grading}
}

// Create godoc
// @Summary Submit work for an assignment
// @Tags Entregas
// @Accept multipart/form-data
// @Produce json
// @Param tarea_id formData integer true "Assignment id"
// @Param comentario formData string false "Comment"
// @Param archivo formData file true "Submission file"
// @Success 201 {object} response.Envelope
// @Router /entregas [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	assignmentID, err := strconv.ParseInt(c.PostForm("tarea_id"), 10, 64)
	if err != nil || assignmentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tarea_id is required"))
		return
	}
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable file"))
		return
	}
	defer file.Close() //nolint:errcheck

	var comment *string
	if raw := c.PostForm("comentario"); raw != "" {
		comment = &raw
	}
	req := service.CreateSubmissionRequest{
		AssignmentID: assignmentID,
		Comment:      comment,
		File: models.SubmissionFile{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		},
	}
	sub, err := h.submissions.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// Get godoc
// @Summary Get a submission
// @Tags Entregas
// @Produce json
// @Param id path integer true "Submission id"
// @Success 200 {object} response.Envelope
// @Router /entregas/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission id"))
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Download godoc
// @Summary Download the submission file
// @Tags Entregas
// @Produce octet-stream
// @Param id path integer true "Submission id"
// @Success 200 {file} binary
// @Router /entregas/{id}/archivo [get]
func (h *SubmissionHandler) Download(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission id"))
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(h.submissions.FilePath(sub), sub.FileName)
}

// ListByAssignment godoc
// @Summary List submissions for an assignment
// @Tags Entregas
// @Produce json
// @Param tareaId path integer true "Assignment id"
// @Success 200 {object} response.Envelope
// @Router /entregas/tarea/{tareaId} [get]
func (h *SubmissionHandler) ListByAssignment(c *gin.Context) {
	assignmentID, ok := paramInt64(c, "tareaId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id"))
		return
	}
	subs, err := h.submissions.ListByAssignment(c.Request.Context(), assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}

// MySubmissions godoc
// @Summary List the caller's submissions
// @Tags Entregas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /entregas/mis-entregas [get]
func (h *SubmissionHandler) MySubmissions(c *gin.Context) {
	subs, err := h.submissions.ListByStudent(c.Request.Context(), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}

// MySubmissionForAssignment godoc
// @Summary Get the caller's submission for an assignment
// @Tags Entregas
// @Produce json
// @Param tareaId path integer true "Assignment id"
// @Success 200 {object} response.Envelope
// @Router /entregas/tarea/{tareaId}/mi-entrega [get]
func (h *SubmissionHandler) MySubmissionForAssignment(c *gin.Context) {
	assignmentID, ok := paramInt64(c, "tareaId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id"))
		return
	}
	sub, err := h.submissions.GetForAssignmentAndStudent(c.Request.Context(), assignmentID, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Ungraded godoc
// @Summary List submissions without a grade
// @Tags Entregas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /entregas/sin-calificar [get]
func (h *SubmissionHandler) Ungraded(c *gin.Context) {
	subs, err := h.submissions.ListUngraded(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}

// GradedByMe godoc
// @Summary List submissions graded by the caller
// @Tags Entregas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /entregas/calificadas [get]
func (h *SubmissionHandler) GradedByMe(c *gin.Context) {
	subs, err := h.submissions.ListGradedBy(c.Request.Context(), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, nil)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Entregas
// @Accept json
// @Produce json
// @Param id path integer true "Submission id"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /entregas/{id}/calificar [put]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission id"))
		return
	}
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.grading.Grade(c.Request.Context(), id, actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Delete godoc
// @Summary Withdraw the caller's submission
// @Tags Entregas
// @Produce json
// @Param id path integer true "Submission id"
// @Success 200 {object} response.Envelope
// @Router /entregas/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission id"))
		return
	}
	deleted, err := h.submissions.Delete(c.Request.Context(), id, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}
