package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulink-mx/classroom-api/internal/service"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
	"github.com/edulink-mx/classroom-api/pkg/response"
)

// QRHandler exposes QR-driven endpoints.
type QRHandler struct {
	qr *service.QRService
}

// NewQRHandler constructs handler.
func NewQRHandler(qr *service.QRService) *QRHandler {
	return &QRHandler{qr: qr}
}

type qrDecodeRequest struct {
	QRData string `json:"qr_data"`
}

// Decode godoc
// @Summary Resolve a scanned code to a user
// @Tags QR
// @Accept json
// @Produce json
// @Param payload body qrDecodeRequest true "Scanned payload"
// @Success 200 {object} response.Envelope
// @Router /qr/decodificar [post]
func (h *QRHandler) Decode(c *gin.Context) {
	var req qrDecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	identity, err := h.qr.Resolve(c.Request.Context(), req.QRData)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, identity, nil)
}

// Attendance godoc
// @Summary Register attendance from a scanned code
// @Tags QR
// @Accept json
// @Produce json
// @Param payload body service.QRAttendanceRequest true "QR attendance payload"
// @Success 201 {object} response.Envelope
// @Router /qr/asistencia [post]
func (h *QRHandler) Attendance(c *gin.Context) {
	var req service.QRAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.qr.RegisterAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Grade godoc
// @Summary Grade a submission after verifying the scanned student owns it
// @Tags QR
// @Accept json
// @Produce json
// @Param payload body service.QRGradeRequest true "QR grade payload"
// @Success 200 {object} response.Envelope
// @Router /qr/calificar [post]
func (h *QRHandler) Grade(c *gin.Context) {
	var req service.QRGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.qr.GradeSubmission(c.Request.Context(), actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// AddToGroup godoc
// @Summary Enroll the scanned student in a group
// @Tags QR
// @Accept json
// @Produce json
// @Param payload body service.QREnrollRequest true "QR enroll payload"
// @Success 200 {object} response.Envelope
// @Router /qr/agregar-grupo [post]
func (h *QRHandler) AddToGroup(c *gin.Context) {
	var req service.QREnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	identity, added, err := h.qr.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"usuario": identity, "agregado": added}, nil)
}
