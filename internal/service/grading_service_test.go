package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-mx/classroom-api/internal/models"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type mockGradeStore struct {
	subs map[int64]*models.Submission
}

func (m *mockGradeStore) Grade(ctx context.Context, id int64, grade float64, feedback *string, graderID int64, gradedAt time.Time) (*models.Submission, error) {
	sub, ok := m.subs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	sub.Grade = &grade
	sub.Feedback = feedback
	sub.GraderID = &graderID
	sub.GradedAt = &gradedAt
	copied := *sub
	return &copied, nil
}

func newGradingFixture() (*GradingService, *mockGradeStore) {
	store := &mockGradeStore{subs: map[int64]*models.Submission{
		3: {ID: 3, AssignmentID: 5, StudentID: 9, FileName: "tarea.pdf"},
	}}
	return NewGradingService(store, nil, nil), store
}

func TestGradeAppliesAllFields(t *testing.T) {
	svc, store := newGradingFixture()

	feedback := "bien hecho"
	sub, err := svc.Grade(context.Background(), 3, 2, GradeRequest{Score: 85.5, Feedback: &feedback})
	require.NoError(t, err)
	require.NotNil(t, sub.Grade)
	assert.Equal(t, 85.5, *sub.Grade)
	require.NotNil(t, sub.Feedback)
	assert.Equal(t, "bien hecho", *sub.Feedback)
	require.NotNil(t, sub.GraderID)
	assert.Equal(t, int64(2), *sub.GraderID)
	require.NotNil(t, sub.GradedAt)
	assert.True(t, store.subs[3].Graded())
}

func TestGradeRejectsScoreOutOfRange(t *testing.T) {
	svc, store := newGradingFixture()

	for _, score := range []float64{-5, 150} {
		_, err := svc.Grade(context.Background(), 3, 2, GradeRequest{Score: score})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	}
	assert.False(t, store.subs[3].Graded())
}

func TestGradeBoundaryScores(t *testing.T) {
	svc, _ := newGradingFixture()

	for _, score := range []float64{0, 100} {
		sub, err := svc.Grade(context.Background(), 3, 2, GradeRequest{Score: score})
		require.NoError(t, err)
		require.NotNil(t, sub.Grade)
		assert.Equal(t, score, *sub.Grade)
	}
}

func TestRegradeOverwritesPreviousGrade(t *testing.T) {
	svc, store := newGradingFixture()

	_, err := svc.Grade(context.Background(), 3, 2, GradeRequest{Score: 60})
	require.NoError(t, err)
	first := *store.subs[3].GradedAt

	sub, err := svc.Grade(context.Background(), 3, 7, GradeRequest{Score: 90})
	require.NoError(t, err)
	assert.Equal(t, 90.0, *sub.Grade)
	assert.Equal(t, int64(7), *sub.GraderID)
	assert.False(t, sub.GradedAt.Before(first))
}

func TestGradeMissingSubmission(t *testing.T) {
	svc, _ := newGradingFixture()

	_, err := svc.Grade(context.Background(), 404, 2, GradeRequest{Score: 80})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
