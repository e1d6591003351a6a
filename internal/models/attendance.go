package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "presente"
	AttendanceAbsent  AttendanceStatus = "ausente"
	AttendanceExcused AttendanceStatus = "justificado"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	default:
		return false
	}
}

const MaxAttendanceNoteLength = 500

// AttendanceRecord (asistencia) marks one student in one group on one class
// date. At most one row exists per (usuario_id, grupo_id, fecha) triple;
// later marks overwrite status and note in place.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"usuario_id" json:"usuario_id"`
	GroupID   int64            `db:"grupo_id" json:"grupo_id"`
	Date      time.Time        `db:"fecha" json:"fecha"`
	Status    AttendanceStatus `db:"estado" json:"estado"`
	Note      *string          `db:"observaciones" json:"observaciones,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceSheetRow is a group/date report row joined with student names.
type AttendanceSheetRow struct {
	StudentID   int64            `db:"usuario_id" json:"usuario_id"`
	StudentName string           `db:"nombre_completo" json:"nombre_completo"`
	Status      AttendanceStatus `db:"estado" json:"estado"`
	Note        *string          `db:"observaciones" json:"observaciones,omitempty"`
}

// NormalizeDate truncates a timestamp to day granularity in UTC, the
// canonical timezone for class dates.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
