package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/edulink-mx/classroom-api/internal/models"
)

// ErrDuplicateSubmission signals the (tarea, alumno) unique index fired.
var ErrDuplicateSubmission = errors.New("duplicate submission for assignment and student")

const submissionColumns = `id, tarea_id, alumno_id, comentario, nombre_archivo, ruta_archivo,
tipo_archivo, tamano_archivo, fecha_entrega, calificacion, retroalimentacion, profesor_id, fecha_calificacion`

// SubmissionRepository handles persistence for entregas.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission row. The unique index on
// (tarea_id, alumno_id) backs the one-submission-per-assignment policy;
// violations surface as ErrDuplicateSubmission.
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	const query = `INSERT INTO entregas (tarea_id, alumno_id, comentario, nombre_archivo, ruta_archivo, tipo_archivo, tamano_archivo, fecha_entrega)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	err := r.db.QueryRowxContext(ctx, query,
		sub.AssignmentID, sub.StudentID, sub.Comment, sub.FileName, sub.FilePath,
		sub.FileType, sub.FileSize, sub.SubmittedAt,
	).Scan(&sub.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionRepository) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE id = $1 LIMIT 1`, submissionColumns)
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &sub, nil
}

// FindByAssignmentAndStudent returns the student's submission for a task.
func (r *SubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE tarea_id = $1 AND alumno_id = $2 LIMIT 1`, submissionColumns)
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, assignmentID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by assignment and student: %w", err)
	}
	return &sub, nil
}

// ListByAssignment returns submissions for an assignment, newest first.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE tarea_id = $1 ORDER BY fecha_entrega DESC`, submissionColumns)
	var subs []models.Submission
	if err := r.db.SelectContext(ctx, &subs, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions by assignment: %w", err)
	}
	return subs, nil
}

// ListByStudent returns a student's submissions, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE alumno_id = $1 ORDER BY fecha_entrega DESC`, submissionColumns)
	var subs []models.Submission
	if err := r.db.SelectContext(ctx, &subs, query, studentID); err != nil {
		return nil, fmt.Errorf("list submissions by student: %w", err)
	}
	return subs, nil
}

// ListUngraded returns submissions without a grade, newest first.
func (r *SubmissionRepository) ListUngraded(ctx context.Context) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE calificacion IS NULL ORDER BY fecha_entrega DESC`, submissionColumns)
	var subs []models.Submission
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list ungraded submissions: %w", err)
	}
	return subs, nil
}

// ListGradedBy returns submissions graded by the given teacher, newest
// grading first.
func (r *SubmissionRepository) ListGradedBy(ctx context.Context, graderID int64) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM entregas WHERE profesor_id = $1 ORDER BY fecha_calificacion DESC`, submissionColumns)
	var subs []models.Submission
	if err := r.db.SelectContext(ctx, &subs, query, graderID); err != nil {
		return nil, fmt.Errorf("list submissions graded by: %w", err)
	}
	return subs, nil
}

// Grade sets grade, feedback, grader and grading timestamp in a single
// UPDATE. Re-grading overwrites; no history is kept. Returns sql.ErrNoRows
// when the submission is gone.
func (r *SubmissionRepository) Grade(ctx context.Context, id int64, grade float64, feedback *string, graderID int64, gradedAt time.Time) (*models.Submission, error) {
	query := fmt.Sprintf(`UPDATE entregas
SET calificacion = $2, retroalimentacion = $3, profesor_id = $4, fecha_calificacion = $5
WHERE id = $1
RETURNING %s`, submissionColumns)
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, id, grade, feedback, graderID, gradedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("grade submission: %w", err)
	}
	return &sub, nil
}

// Delete removes a submission row and reports whether one was deleted.
func (r *SubmissionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entregas WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete submission rows affected: %w", err)
	}
	return affected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
