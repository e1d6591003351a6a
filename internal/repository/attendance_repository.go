package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edulink-mx/classroom-api/internal/models"
)

const attendanceColumns = `id, usuario_id, grupo_id, fecha, estado, observaciones, created_at, updated_at`

// AttendanceRepository handles persistence for asistencias.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts or updates the record for a (student, group, date) triple.
// The ON CONFLICT clause serializes concurrent marks for the same triple:
// exactly one row survives and the last write's status wins.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO asistencias (usuario_id, grupo_id, fecha, estado, observaciones, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (usuario_id, grupo_id, fecha)
DO UPDATE SET estado = EXCLUDED.estado, observaciones = EXCLUDED.observaciones, updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns)
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, record.StudentID, record.GroupID, record.Date, record.Status, record.Note, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// FindByID returns an attendance record by identifier.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM asistencias WHERE id = $1 LIMIT 1`, attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance by id: %w", err)
	}
	return &record, nil
}

// ListByGroupAndDate returns all records for a group on a class date.
func (r *AttendanceRepository) ListByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM asistencias WHERE grupo_id = $1 AND fecha = $2 ORDER BY usuario_id`, attendanceColumns)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, groupID, date); err != nil {
		return nil, fmt.Errorf("list attendance by group and date: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's attendance history, newest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM asistencias WHERE usuario_id = $1 ORDER BY fecha DESC`, attendanceColumns)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return records, nil
}

// SheetByGroupAndDate returns the group/date sheet joined with student names.
func (r *AttendanceRepository) SheetByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceSheetRow, error) {
	const query = `SELECT a.usuario_id, u.nombre_completo, a.estado, a.observaciones
FROM asistencias a
JOIN usuarios u ON u.id = a.usuario_id
WHERE a.grupo_id = $1 AND a.fecha = $2
ORDER BY u.nombre_completo`
	var rows []models.AttendanceSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, groupID, date); err != nil {
		return nil, fmt.Errorf("attendance sheet: %w", err)
	}
	return rows, nil
}
