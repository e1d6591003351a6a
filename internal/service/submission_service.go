package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edulink-mx/classroom-api/internal/models"
	"github.com/edulink-mx/classroom-api/internal/repository"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type submissionRepo interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, id int64) (*models.Submission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Submission, error)
	ListUngraded(ctx context.Context) ([]models.Submission, error)
	ListGradedBy(ctx context.Context, graderID int64) ([]models.Submission, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type assignmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}

type blobStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
	Path(filename string) string
}

// CreateSubmissionRequest is the payload for submitting work.
type CreateSubmissionRequest struct {
	AssignmentID int64   `json:"tarea_id" validate:"required"`
	Comment      *string `json:"comentario" validate:"omitempty,max=500"`
	File         models.SubmissionFile
}

// SubmissionService owns creation, retrieval and deletion of entregas and
// enforces the file policy and the one-submission-per-assignment rule.
type SubmissionService struct {
	submissions submissionRepo
	assignments assignmentReader
	blobs       blobStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubmissionService constructs SubmissionService.
func NewSubmissionService(submissions submissionRepo, assignments assignmentReader, blobs blobStore, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: submissions,
		assignments: assignments,
		blobs:       blobs,
		validator:   validate,
		logger:      logger,
	}
}

// Create registers a new submission. The file is written to blob storage
// before the row is inserted so a failed write leaves no partial state; an
// insert failure removes the already-written blob.
func (s *SubmissionService) Create(ctx context.Context, studentID int64, req CreateSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if _, err := s.assignments.FindByID(ctx, req.AssignmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, storeError(err, "failed to load assignment")
	}
	if _, err := s.submissions.FindByAssignmentAndStudent(ctx, req.AssignmentID, studentID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a submission already exists for this assignment")
	} else if err != sql.ErrNoRows {
		return nil, storeError(err, "failed to check existing submission")
	}
	if err := validateFile(req.File); err != nil {
		return nil, err
	}

	storedName := filepath.Join("entregas", fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(req.File.Name)))
	if _, err := s.blobs.SaveStream(storedName, req.File.Reader); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to store submission file")
	}

	sub := &models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    studentID,
		Comment:      req.Comment,
		FileName:     req.File.Name,
		FilePath:     storedName,
		FileType:     req.File.ContentType,
		FileSize:     req.File.Size,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if removeErr := s.blobs.Delete(storedName); removeErr != nil {
			s.logger.Warn("failed to remove orphaned submission file",
				zap.String("path", storedName), zap.Error(removeErr))
		}
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a submission already exists for this assignment")
		}
		return nil, storeError(err, "failed to create submission")
	}
	return sub, nil
}

// Get returns a submission by id.
func (s *SubmissionService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, storeError(err, "failed to load submission")
	}
	return sub, nil
}

// GetForAssignmentAndStudent returns the student's own submission for a task.
func (s *SubmissionService) GetForAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	sub, err := s.submissions.FindByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, storeError(err, "failed to load submission")
	}
	return sub, nil
}

// ListByAssignment returns all submissions for an assignment, newest first.
func (s *SubmissionService) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	subs, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, storeError(err, "failed to list submissions")
	}
	return subs, nil
}

// ListByStudent returns the student's submissions, newest first.
func (s *SubmissionService) ListByStudent(ctx context.Context, studentID int64) ([]models.Submission, error) {
	subs, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to list submissions")
	}
	return subs, nil
}

// ListUngraded returns all submissions still waiting for a grade.
func (s *SubmissionService) ListUngraded(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.submissions.ListUngraded(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list ungraded submissions")
	}
	return subs, nil
}

// ListGradedBy returns submissions graded by the given teacher.
func (s *SubmissionService) ListGradedBy(ctx context.Context, graderID int64) ([]models.Submission, error) {
	subs, err := s.submissions.ListGradedBy(ctx, graderID)
	if err != nil {
		return nil, storeError(err, "failed to list graded submissions")
	}
	return subs, nil
}

// Delete withdraws a submission. Returns false without error when the
// submission does not exist or belongs to another student: the caller only
// learns that nothing was deleted. A failed blob delete is logged, never
// surfaced.
func (s *SubmissionService) Delete(ctx context.Context, id, requestingStudentID int64) (bool, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, storeError(err, "failed to load submission")
	}
	if sub.StudentID != requestingStudentID {
		return false, nil
	}
	deleted, err := s.submissions.Delete(ctx, id)
	if err != nil {
		return false, storeError(err, "failed to delete submission")
	}
	if deleted && sub.FilePath != "" {
		if err := s.blobs.Delete(sub.FilePath); err != nil {
			s.logger.Warn("failed to delete submission file",
				zap.Int64("submission_id", id), zap.String("path", sub.FilePath), zap.Error(err))
		}
	}
	return deleted, nil
}

// FilePath resolves the absolute path for serving a submission download.
func (s *SubmissionService) FilePath(sub *models.Submission) string {
	return s.blobs.Path(sub.FilePath)
}

func validateFile(file models.SubmissionFile) error {
	if file.Reader == nil || file.Size == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "a file is required")
	}
	if !models.AllowedFileType(file.ContentType) {
		return appErrors.Clone(appErrors.ErrValidation, "file type not allowed: only JPEG, PNG, GIF images and PDF are accepted")
	}
	if file.Size > models.MaxSubmissionFileSize {
		return appErrors.Clone(appErrors.ErrValidation, "file too large: maximum size is 10 MiB")
	}
	return nil
}

// storeError maps timeouts and cancellations from the persistence layer to
// UNAVAILABLE so callers can retry; everything else is internal.
func storeError(err error, message string) *appErrors.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
