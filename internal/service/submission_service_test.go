package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-mx/classroom-api/internal/models"
	"github.com/edulink-mx/classroom-api/internal/repository"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type mockSubmissionRepo struct {
	subs      map[int64]*models.Submission
	nextID    int64
	createErr error
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{subs: make(map[int64]*models.Submission), nextID: 1}
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.subs {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			return repository.ErrDuplicateSubmission
		}
	}
	sub.ID = m.nextID
	m.nextID++
	stored := *sub
	m.subs[sub.ID] = &stored
	return nil
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	if sub, ok := m.subs[id]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubmissionRepo) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	for _, sub := range m.subs {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	var list []models.Submission
	for _, sub := range m.subs {
		if sub.AssignmentID == assignmentID {
			list = append(list, *sub)
		}
	}
	return list, nil
}

func (m *mockSubmissionRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.Submission, error) {
	var list []models.Submission
	for _, sub := range m.subs {
		if sub.StudentID == studentID {
			list = append(list, *sub)
		}
	}
	return list, nil
}

func (m *mockSubmissionRepo) ListUngraded(ctx context.Context) ([]models.Submission, error) {
	var list []models.Submission
	for _, sub := range m.subs {
		if sub.Grade == nil {
			list = append(list, *sub)
		}
	}
	return list, nil
}

func (m *mockSubmissionRepo) ListGradedBy(ctx context.Context, graderID int64) ([]models.Submission, error) {
	var list []models.Submission
	for _, sub := range m.subs {
		if sub.GraderID != nil && *sub.GraderID == graderID {
			list = append(list, *sub)
		}
	}
	return list, nil
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.subs[id]; !ok {
		return false, nil
	}
	delete(m.subs, id)
	return true, nil
}

type mockAssignmentReader struct {
	assignments map[int64]*models.Assignment
}

func (m *mockAssignmentReader) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

type mockBlobStore struct {
	files     map[string][]byte
	deleted   []string
	saveErr   error
	deleteErr error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{files: make(map[string][]byte)}
}

func (m *mockBlobStore) SaveStream(filename string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.files[filename] = data
	return filename, nil
}

func (m *mockBlobStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, filename)
	return nil
}

func (m *mockBlobStore) Path(filename string) string {
	return "/uploads/" + filename
}

func newSubmissionFixture() (*SubmissionService, *mockSubmissionRepo, *mockBlobStore) {
	repo := newMockSubmissionRepo()
	blobs := newMockBlobStore()
	assignments := &mockAssignmentReader{assignments: map[int64]*models.Assignment{
		5: {ID: 5, Title: "Ensayo", State: models.AssignmentOpen},
	}}
	svc := NewSubmissionService(repo, assignments, blobs, nil, nil)
	return svc, repo, blobs
}

func pdfFile(size int64) models.SubmissionFile {
	return models.SubmissionFile{
		Name:        "tarea.pdf",
		ContentType: "application/pdf",
		Size:        size,
		Reader:      bytes.NewReader([]byte("pdf-bytes")),
	}
}

func TestSubmissionCreateStoresFileAndRow(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	sub, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{
		AssignmentID: 5,
		File:         pdfFile(2048),
	})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, int64(9), sub.StudentID)
	assert.Equal(t, "tarea.pdf", sub.FileName)
	assert.False(t, sub.SubmittedAt.IsZero())
	assert.Len(t, repo.subs, 1)
	assert.Len(t, blobs.files, 1)
	_, ok := blobs.files[sub.FilePath]
	assert.True(t, ok)
}

func TestSubmissionCreateRejectsDuplicate(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Len(t, repo.subs, 1)
	assert.Len(t, blobs.files, 1)
}

func TestSubmissionCreateRejectsOversizedFile(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{
		AssignmentID: 5,
		File:         pdfFile(15 << 20),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.subs)
	assert.Empty(t, blobs.files)
}

func TestSubmissionCreateRejectsDisallowedType(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	file := pdfFile(2048)
	file.ContentType = "application/zip"
	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: file})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.subs)
	assert.Empty(t, blobs.files)
}

func TestSubmissionCreateUnknownAssignment(t *testing.T) {
	svc, _, blobs := newSubmissionFixture()

	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 404, File: pdfFile(2048)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, blobs.files)
}

func TestSubmissionCreateBlobFailureLeavesNoRow(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()
	blobs.saveErr = errors.New("disk full")

	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnavailable))
	assert.Empty(t, repo.subs)
}

func TestSubmissionCreateInsertFailureRemovesBlob(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()
	repo.createErr = repository.ErrDuplicateSubmission

	_, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Empty(t, blobs.files)
	assert.Len(t, blobs.deleted, 1)
}

func TestSubmissionDeleteSilentWhenMissing(t *testing.T) {
	svc, _, _ := newSubmissionFixture()

	deleted, err := svc.Delete(context.Background(), 404, 9)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSubmissionDeleteSilentWhenNotOwner(t *testing.T) {
	svc, repo, _ := newSubmissionFixture()

	sub, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), sub.ID, 10)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, repo.subs, 1)
}

func TestSubmissionDeleteRemovesRowAndBlob(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	sub, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), sub.ID, 9)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, repo.subs)
	assert.Empty(t, blobs.files)
}

func TestSubmissionDeleteSwallowsBlobFailure(t *testing.T) {
	svc, repo, blobs := newSubmissionFixture()

	sub, err := svc.Create(context.Background(), 9, CreateSubmissionRequest{AssignmentID: 5, File: pdfFile(2048)})
	require.NoError(t, err)
	blobs.deleteErr = errors.New("permission denied")

	deleted, err := svc.Delete(context.Background(), sub.ID, 9)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, repo.subs)
}
