package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-mx/classroom-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func submissionRows(sub models.Submission) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tarea_id", "alumno_id", "comentario", "nombre_archivo", "ruta_archivo",
		"tipo_archivo", "tamano_archivo", "fecha_entrega", "calificacion", "retroalimentacion", "profesor_id", "fecha_calificacion",
	}).AddRow(
		sub.ID, sub.AssignmentID, sub.StudentID, sub.Comment, sub.FileName, sub.FilePath,
		sub.FileType, sub.FileSize, sub.SubmittedAt, sub.Grade, sub.Feedback, sub.GraderID, sub.GradedAt,
	)
}

func TestSubmissionCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO entregas")).
		WithArgs(int64(5), int64(9), nil, "tarea.pdf", "entregas/abc_tarea.pdf", "application/pdf", int64(2048), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	sub := &models.Submission{
		AssignmentID: 5,
		StudentID:    9,
		FileName:     "tarea.pdf",
		FilePath:     "entregas/abc_tarea.pdf",
		FileType:     "application/pdf",
		FileSize:     2048,
	}
	err := repo.Create(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.ID)
	assert.False(t, sub.SubmittedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO entregas")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Submission{
		AssignmentID: 5,
		StudentID:    9,
		FileName:     "tarea.pdf",
		FilePath:     "entregas/abc_tarea.pdf",
		FileType:     "application/pdf",
		FileSize:     2048,
	})
	require.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM entregas WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(submissionRows(models.Submission{
			ID: 3, AssignmentID: 5, StudentID: 9,
			FileName: "tarea.pdf", FilePath: "entregas/abc_tarea.pdf",
			FileType: "application/pdf", FileSize: 2048, SubmittedAt: now,
		}))

	sub, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sub.AssignmentID)
	assert.Nil(t, sub.Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM entregas WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListUngraded(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE calificacion IS NULL ORDER BY fecha_entrega DESC")).
		WillReturnRows(submissionRows(models.Submission{
			ID: 3, AssignmentID: 5, StudentID: 9,
			FileName: "tarea.pdf", FilePath: "entregas/abc_tarea.pdf",
			FileType: "application/pdf", FileSize: 2048, SubmittedAt: now,
		}))

	subs, err := repo.ListUngraded(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	feedback := "bien hecho"
	score := 85.5
	graderID := int64(2)
	graded := models.Submission{
		ID: 3, AssignmentID: 5, StudentID: 9,
		FileName: "tarea.pdf", FilePath: "entregas/abc_tarea.pdf",
		FileType: "application/pdf", FileSize: 2048, SubmittedAt: now,
		Grade: &score, Feedback: &feedback, GraderID: &graderID, GradedAt: &now,
	}
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE entregas")).
		WithArgs(int64(3), 85.5, &feedback, int64(2), sqlmock.AnyArg()).
		WillReturnRows(submissionRows(graded))

	sub, err := repo.Grade(context.Background(), 3, 85.5, &feedback, 2, now)
	require.NoError(t, err)
	require.NotNil(t, sub.Grade)
	assert.Equal(t, 85.5, *sub.Grade)
	require.NotNil(t, sub.GraderID)
	assert.Equal(t, int64(2), *sub.GraderID)
	assert.NotNil(t, sub.GradedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionGradeMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE entregas")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Grade(context.Background(), 99, 90, nil, 2, time.Now().UTC())
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM entregas WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM entregas WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
