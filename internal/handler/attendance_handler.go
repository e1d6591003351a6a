package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulink-mx/classroom-api/internal/service"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
	"github.com/edulink-mx/classroom-api/pkg/response"
)

// AttendanceHandler exposes asistencia endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Create godoc
// @Summary Mark attendance for a student
// @Tags Asistencias
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /asistencias [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Get godoc
// @Summary Get an attendance record
// @Tags Asistencias
// @Produce json
// @Param id path integer true "Attendance record id"
// @Success 200 {object} response.Envelope
// @Router /asistencias/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid attendance id"))
		return
	}
	record, err := h.attendance.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ByGroup godoc
// @Summary List attendance for a group on a date
// @Tags Asistencias
// @Produce json
// @Param grupoId path integer true "Group id"
// @Param fecha query string false "Class date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /asistencias/grupo/{grupoId} [get]
func (h *AttendanceHandler) ByGroup(c *gin.Context) {
	groupID, ok := paramInt64(c, "grupoId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid group id"))
		return
	}
	date, err := queryDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.attendance.ListByGroupAndDate(c.Request.Context(), groupID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ByStudent godoc
// @Summary List a student's attendance history
// @Tags Asistencias
// @Produce json
// @Param usuarioId path integer true "Student id"
// @Success 200 {object} response.Envelope
// @Router /asistencias/usuario/{usuarioId} [get]
func (h *AttendanceHandler) ByStudent(c *gin.Context) {
	studentID, ok := paramInt64(c, "usuarioId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	records, err := h.attendance.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Export godoc
// @Summary Export the group attendance sheet
// @Tags Asistencias
// @Produce octet-stream
// @Param grupoId path integer true "Group id"
// @Param fecha query string false "Class date (YYYY-MM-DD, defaults to today)"
// @Param formato query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /asistencias/grupo/{grupoId}/exportar [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	groupID, ok := paramInt64(c, "grupoId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid group id"))
		return
	}
	date, err := queryDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, contentType, filename, err := h.attendance.ExportSheet(c.Request.Context(), groupID, date, c.Query("formato"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func queryDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("fecha")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "fecha must be YYYY-MM-DD")
	}
	return date, nil
}
