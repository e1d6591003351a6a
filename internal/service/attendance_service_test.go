package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-mx/classroom-api/internal/models"
	appErrors "github.com/edulink-mx/classroom-api/pkg/errors"
)

type mockAttendanceStore struct {
	records map[string]*models.AttendanceRecord
	nextID  int64
	sheet   []models.AttendanceSheetRow
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{records: make(map[string]*models.AttendanceRecord), nextID: 1}
}

func tripleKey(studentID, groupID int64, date time.Time) string {
	return fmt.Sprintf("%d|%d|%s", studentID, groupID, date.Format("2006-01-02"))
}

func (m *mockAttendanceStore) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	key := tripleKey(record.StudentID, record.GroupID, record.Date)
	if existing, ok := m.records[key]; ok {
		existing.Status = record.Status
		existing.Note = record.Note
		existing.UpdatedAt = time.Now().UTC()
		copied := *existing
		return &copied, nil
	}
	record.ID = m.nextID
	m.nextID++
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	stored := *record
	m.records[key] = &stored
	copied := stored
	return &copied, nil
}

func (m *mockAttendanceStore) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	for _, record := range m.records {
		if record.ID == id {
			copied := *record
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceStore) ListByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceRecord, error) {
	var list []models.AttendanceRecord
	for _, record := range m.records {
		if record.GroupID == groupID && record.Date.Equal(date) {
			list = append(list, *record)
		}
	}
	return list, nil
}

func (m *mockAttendanceStore) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	var list []models.AttendanceRecord
	for _, record := range m.records {
		if record.StudentID == studentID {
			list = append(list, *record)
		}
	}
	return list, nil
}

func (m *mockAttendanceStore) SheetByGroupAndDate(ctx context.Context, groupID int64, date time.Time) ([]models.AttendanceSheetRow, error) {
	return m.sheet, nil
}

type mockGroupReader struct {
	groups map[int64]*models.Group
}

func (m *mockGroupReader) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func newAttendanceFixture() (*AttendanceService, *mockAttendanceStore) {
	store := newMockAttendanceStore()
	groups := &mockGroupReader{groups: map[int64]*models.Group{
		4: {ID: 4, Name: "3A"},
	}}
	return NewAttendanceService(store, groups, nil, nil), store
}

func TestMarkDefaultsToPresentToday(t *testing.T) {
	svc, store := newAttendanceFixture()

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, models.NormalizeDate(time.Now()), record.Date)
	assert.Len(t, store.records, 1)
}

func TestMarkUpsertLastWriteWins(t *testing.T) {
	svc, store := newAttendanceFixture()

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4, Status: models.AttendancePresent})
	require.NoError(t, err)

	note := "llego tarde"
	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4, Status: models.AttendanceExcused, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceExcused, record.Status)
	require.NotNil(t, record.Note)
	assert.Equal(t, "llego tarde", *record.Note)
	assert.Len(t, store.records, 1)
}

func TestMarkDistinctDatesCreateDistinctRecords(t *testing.T) {
	svc, store := newAttendanceFixture()

	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1)
	for _, day := range []time.Time{today, yesterday} {
		d := day
		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4, Date: &d})
		require.NoError(t, err)
	}
	assert.Len(t, store.records, 2)
}

func TestMarkNormalizesDateToUTCDay(t *testing.T) {
	svc, _ := newAttendanceFixture()

	loc := time.FixedZone("CST", -6*3600)
	stamp := time.Date(2026, 3, 10, 22, 30, 0, 0, loc)
	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4, Date: &stamp})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), record.Date)
}

func TestMarkUnknownGroup(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 404})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestMarkRejectsUnknownStatus(t *testing.T) {
	svc, store := newAttendanceFixture()

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: 9, GroupID: 4, Status: "tarde"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, store.records)
}

func TestExportSheetCSV(t *testing.T) {
	svc, store := newAttendanceFixture()
	store.sheet = []models.AttendanceSheetRow{
		{StudentID: 9, StudentName: "Ana Torres", Status: models.AttendancePresent},
	}

	data, contentType, filename, err := svc.ExportSheet(context.Background(), 4, time.Now(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Contains(t, string(data), "Ana Torres")
	assert.Contains(t, string(data), "usuario_id")
}

func TestExportSheetPDF(t *testing.T) {
	svc, store := newAttendanceFixture()
	store.sheet = []models.AttendanceSheetRow{
		{StudentID: 9, StudentName: "Ana Torres", Status: models.AttendanceAbsent},
	}

	data, contentType, filename, err := svc.ExportSheet(context.Background(), 4, time.Now(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.NotEmpty(t, data)
}

func TestExportSheetUnsupportedFormat(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, _, _, err := svc.ExportSheet(context.Background(), 4, time.Now(), "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
