package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edulink-mx/classroom-api/internal/models"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type userDirectory interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type groupMembership interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	AddMember(ctx context.Context, groupID, userID int64) error
}

type submissionReader interface {
	FindByID(ctx context.Context, id int64) (*models.Submission, error)
}

type attendanceMarker interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error)
}

type submissionGrader interface {
	Grade(ctx context.Context, submissionID, graderID int64, req GradeRequest) (*models.Submission, error)
}

// QRAttendanceRequest registers attendance from a scanned student code.
type QRAttendanceRequest struct {
	QRData  string                  `json:"qr_data" validate:"required"`
	GroupID int64                   `json:"grupo_id" validate:"required"`
	Date    *time.Time              `json:"fecha"`
	Status  models.AttendanceStatus `json:"estado"`
	Note    *string                 `json:"observaciones" validate:"omitempty,max=500"`
}

// QRGradeRequest grades a submission after verifying the scanned student
// owns it.
type QRGradeRequest struct {
	QRData       string  `json:"qr_data" validate:"required"`
	SubmissionID int64   `json:"entrega_id" validate:"required"`
	Score        float64 `json:"calificacion" validate:"min=0,max=100"`
	Feedback     *string `json:"retroalimentacion" validate:"omitempty,max=1000"`
}

// QREnrollRequest adds the scanned student to a group.
type QREnrollRequest struct {
	QRData  string `json:"qr_data" validate:"required"`
	GroupID int64  `json:"grupo_id" validate:"required"`
}

// QRService resolves scanned payloads to user identities and drives the
// QR-triggered variants of attendance, grading and enrollment.
type QRService struct {
	users       userDirectory
	groups      groupMembership
	submissions submissionReader
	attendance  attendanceMarker
	grading     submissionGrader
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewQRService constructs QRService. The redis client is optional; when nil
// every resolution goes straight to the directory.
func NewQRService(users userDirectory, groups groupMembership, submissions submissionReader, attendance attendanceMarker, grading submissionGrader, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *QRService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRService{
		users:       users,
		groups:      groups,
		submissions: submissions,
		attendance:  attendance,
		grading:     grading,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger,
	}
}

// Resolve turns a scanned payload into a user identity. Numeric payloads are
// looked up by id, anything else by exact username. A blank payload fails
// before any lookup. Pure read, no side effects.
func (s *QRService) Resolve(ctx context.Context, payload string) (*models.ResolvedIdentity, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "qr payload is empty")
	}

	if identity := s.cachedIdentity(ctx, payload); identity != nil {
		return identity, nil
	}

	var user *models.User
	var err error
	if id, parseErr := strconv.ParseInt(payload, 10, 64); parseErr == nil {
		user, err = s.users.FindByID(ctx, id)
	} else {
		user, err = s.users.FindByUsername(ctx, payload)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no user matches the scanned code")
		}
		return nil, storeError(err, "failed to resolve qr payload")
	}

	identity := &models.ResolvedIdentity{UserID: user.ID, FullName: user.FullName, Username: user.Username}
	s.storeIdentity(ctx, payload, identity)
	return identity, nil
}

// RegisterAttendance resolves the subject and delegates to the attendance
// upsert. The date defaults to today when omitted.
func (s *QRService) RegisterAttendance(ctx context.Context, req QRAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid qr attendance payload")
	}
	identity, err := s.Resolve(ctx, req.QRData)
	if err != nil {
		return nil, err
	}
	return s.attendance.Mark(ctx, MarkAttendanceRequest{
		StudentID: identity.UserID,
		GroupID:   req.GroupID,
		Date:      req.Date,
		Status:    req.Status,
		Note:      req.Note,
	})
}

// GradeSubmission verifies the scanned student owns the submission before
// any mutation, then delegates to the grading workflow.
func (s *QRService) GradeSubmission(ctx context.Context, graderID int64, req QRGradeRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid qr grade payload")
	}
	identity, err := s.Resolve(ctx, req.QRData)
	if err != nil {
		return nil, err
	}
	sub, err := s.submissions.FindByID(ctx, req.SubmissionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, storeError(err, "failed to load submission")
	}
	if sub.StudentID != identity.UserID {
		return nil, appErrors.Clone(appErrors.ErrMismatch, "the scanned code does not belong to the submission's student")
	}
	return s.grading.Grade(ctx, req.SubmissionID, graderID, GradeRequest{Score: req.Score, Feedback: req.Feedback})
}

// Enroll adds the scanned student to the group. Enrolling an existing member
// is a no-op success; added reports whether membership actually changed.
func (s *QRService) Enroll(ctx context.Context, req QREnrollRequest) (*models.ResolvedIdentity, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid qr enroll payload")
	}
	identity, err := s.Resolve(ctx, req.QRData)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.groups.FindByID(ctx, req.GroupID); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, false, storeError(err, "failed to load group")
	}
	member, err := s.groups.IsMember(ctx, req.GroupID, identity.UserID)
	if err != nil {
		return nil, false, storeError(err, "failed to check group membership")
	}
	if member {
		return identity, false, nil
	}
	if err := s.groups.AddMember(ctx, req.GroupID, identity.UserID); err != nil {
		return nil, false, storeError(err, "failed to add group member")
	}
	return identity, true, nil
}

func (s *QRService) cachedIdentity(ctx context.Context, payload string) *models.ResolvedIdentity {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, qrCacheKey(payload)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("qr cache read failed", zap.Error(err))
		}
		return nil
	}
	var identity models.ResolvedIdentity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil
	}
	return &identity
}

func (s *QRService) storeIdentity(ctx context.Context, payload string, identity *models.ResolvedIdentity) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, qrCacheKey(payload), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("qr cache write failed", zap.Error(err))
	}
}

func qrCacheKey(payload string) string {
	return "qr:user:" + payload
}
