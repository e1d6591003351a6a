package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-mx/classroom-api/internal/models"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type submissionGradeRepo interface {
	Grade(ctx context.Context, id int64, grade float64, feedback *string, graderID int64, gradedAt time.Time) (*models.Submission, error)
}

// GradeRequest carries the score and optional feedback for a submission.
type GradeRequest struct {
	Score    float64 `json:"calificacion" validate:"min=0,max=100"`
	Feedback *string `json:"retroalimentacion" validate:"omitempty,max=1000"`
}

// GradingService applies grades to submissions. Grade, feedback, grader and
// grading timestamp are written in one atomic update; re-grading overwrites
// the previous values without keeping history.
type GradingService struct {
	submissions submissionGradeRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradingService constructs GradingService.
func NewGradingService(submissions submissionGradeRepo, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{submissions: submissions, validator: validate, logger: logger}
}

// Grade scores a submission. Scores outside [0, 100] are rejected before any
// mutation; a missing submission yields NotFound.
func (s *GradingService) Grade(ctx context.Context, submissionID, graderID int64, req GradeRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "score must be between 0 and 100")
	}
	sub, err := s.submissions.Grade(ctx, submissionID, req.Score, req.Feedback, graderID, time.Now().UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, storeError(err, "failed to grade submission")
	}
	s.logger.Info("submission graded",
		zap.Int64("submission_id", submissionID),
		zap.Int64("grader_id", graderID),
		zap.Float64("score", req.Score))
	return sub, nil
}
