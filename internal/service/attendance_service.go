package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-mx/classroom-api/internal/models"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
	"github.com/edulink-mx/classroom-api/pkg/export"
)

type attendanceRepo interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	ListByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error)
	SheetByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceSheetRow, error)
}

type groupReader interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
}

// MarkAttendanceRequest records one student in one group on one date.
type MarkAttendanceRequest struct {
	StudentID int64                   `json:"usuario_id" validate:"required"`
	GroupID   int64                   `json:"grupo_id" validate:"required"`
	Date      *time.Time              `json:"fecha"`
	Status    models.AttendanceStatus `json:"estado"`
	Note      *string                 `json:"observaciones" validate:"omitempty,max=500"`
}

// AttendanceService owns the one-record-per-(student, group, date) rule.
// Marks are idempotent upserts: a later mark overwrites status and note.
type AttendanceService struct {
	attendance attendanceRepo
	groups     groupReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(attendance attendanceRepo, groups groupReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		attendance: attendance,
		groups:     groups,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		validator:  validate,
		logger:     logger,
	}
}

// Mark upserts the attendance record for the triple. The date defaults to
// today and is normalized to a UTC day before matching.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	status := req.Status
	if status == "" {
		status = models.AttendancePresent
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}
	if _, err := s.groups.FindByID(ctx, req.GroupID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, storeError(err, "failed to load group")
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		GroupID:   req.GroupID,
		Date:      models.NormalizeDate(date),
		Status:    status,
		Note:      req.Note,
	}
	stored, err := s.attendance.Upsert(ctx, record)
	if err != nil {
		return nil, storeError(err, "failed to upsert attendance")
	}
	return stored, nil
}

// Get returns an attendance record by id.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	record, err := s.attendance.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, storeError(err, "failed to load attendance record")
	}
	return record, nil
}

// ListByGroupAndDate returns records for a group on a class date.
func (s *AttendanceService) ListByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceRecord, error) {
	records, err := s.attendance.ListByGroupAndDate(ctx, groupID, models.NormalizeDate(date))
	if err != nil {
		return nil, storeError(err, "failed to list attendance")
	}
	return records, nil
}

// ListByStudent returns a student's attendance history, newest first.
func (s *AttendanceService) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to list attendance")
	}
	return records, nil
}

// ExportSheet renders the group/date attendance sheet as CSV or PDF and
// returns the bytes, content type and a suggested filename.
func (s *AttendanceService) ExportSheet(ctx context.Context, groupID int64, date time.Time, format string) ([]byte, string, string, error) {
	day := models.NormalizeDate(date)
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, "", "", storeError(err, "failed to load group")
	}
	rows, err := s.attendance.SheetByGroupAndDate(ctx, groupID, day)
	if err != nil {
		return nil, "", "", storeError(err, "failed to load attendance sheet")
	}

	dataset := export.Dataset{Headers: []string{"usuario_id", "nombre", "estado", "observaciones"}}
	for _, row := range rows {
		note := ""
		if row.Note != nil {
			note = *row.Note
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"usuario_id":    fmt.Sprintf("%d", row.StudentID),
			"nombre":        row.StudentName,
			"estado":        string(row.Status),
			"observaciones": note,
		})
	}

	base := fmt.Sprintf("asistencia_%s_%s", group.Name, day.Format("2006-01-02"))
	switch format {
	case "pdf":
		title := fmt.Sprintf("Asistencia %s %s", group.Name, day.Format("2006-01-02"))
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", base + ".pdf", nil
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", base + ".csv", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
