package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-mx/classroom-api/internal/models"
)

func attendanceRows(record models.AttendanceRecord) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "usuario_id", "grupo_id", "fecha", "estado", "observaciones", "created_at", "updated_at",
	}).AddRow(
		record.ID, record.StudentID, record.GroupID, record.Date, string(record.Status), record.Note, record.CreatedAt, record.UpdatedAt,
	)
}

func TestAttendanceUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := models.NormalizeDate(time.Now())
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (usuario_id, grupo_id, fecha)")).
		WithArgs(int64(9), int64(4), day, models.AttendancePresent, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(attendanceRows(models.AttendanceRecord{
			ID: 1, StudentID: 9, GroupID: 4, Date: day,
			Status: models.AttendancePresent, CreatedAt: now, UpdatedAt: now,
		}))

	stored, err := repo.Upsert(context.Background(), &models.AttendanceRecord{
		StudentID: 9,
		GroupID:   4,
		Date:      day,
		Status:    models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.Equal(t, models.AttendancePresent, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM asistencias WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListByGroupAndDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := models.NormalizeDate(time.Now())
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE grupo_id = $1 AND fecha = $2 ORDER BY usuario_id")).
		WithArgs(int64(4), day).
		WillReturnRows(attendanceRows(models.AttendanceRecord{
			ID: 1, StudentID: 9, GroupID: 4, Date: day,
			Status: models.AttendanceAbsent, CreatedAt: now, UpdatedAt: now,
		}))

	records, err := repo.ListByGroupAndDate(context.Background(), 4, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceAbsent, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSheetByGroupAndDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := models.NormalizeDate(time.Now())
	rows := sqlmock.NewRows([]string{"usuario_id", "nombre_completo", "estado", "observaciones"}).
		AddRow(int64(9), "Ana Torres", string(models.AttendancePresent), nil)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN usuarios u ON u.id = a.usuario_id")).
		WithArgs(int64(4), day).
		WillReturnRows(rows)

	sheet, err := repo.SheetByGroupAndDate(context.Background(), 4, day)
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assert.Equal(t, "Ana Torres", sheet[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
