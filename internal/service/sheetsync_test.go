package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/repository"
)

type syncStoreStub struct {
	exportRow    repository.ExportRow
	exportRowErr error
	unsynced     []repository.ExportRow
	summary      []repository.SummaryRow

	markErr    error
	markedOne  []uint64
	markedBulk []uint64
	logTypes   []string
	logStatus  []string
	logRecords []int
	logErrs    []*string
}

func (s *syncStoreStub) ExportRowFor(_ context.Context, _, _, _ uint64) (repository.ExportRow, error) {
	if s.exportRowErr != nil {
		return repository.ExportRow{}, s.exportRowErr
	}
	return s.exportRow, nil
}

func (s *syncStoreStub) UnsyncedExportRows(_ context.Context, _ uint64) ([]repository.ExportRow, error) {
	return s.unsynced, nil
}

func (s *syncStoreStub) MarkSynced(_ context.Context, ids []uint64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markedBulk = append(s.markedBulk, ids...)
	return nil
}

func (s *syncStoreStub) MarkSyncedOne(_ context.Context, id uint64) error {
	s.markedOne = append(s.markedOne, id)
	return nil
}

func (s *syncStoreStub) SummaryRows(_ context.Context, _ uint64) ([]repository.SummaryRow, error) {
	return s.summary, nil
}

func (s *syncStoreStub) AppendSyncLog(_ context.Context, syncType string, records int, status string, errMsg *string) error {
	s.logTypes = append(s.logTypes, syncType)
	s.logRecords = append(s.logRecords, records)
	s.logStatus = append(s.logStatus, status)
	s.logErrs = append(s.logErrs, errMsg)
	return nil
}

type sheetWriterStub struct {
	enabled   bool
	appendErr error

	appended  [][]any
	rewritten [][]any
}

func (w *sheetWriterStub) Enabled() bool { return w.enabled }

func (w *sheetWriterStub) Append(_ context.Context, _ string, rows [][]any) error {
	if w.appendErr != nil {
		return w.appendErr
	}
	w.appended = append(w.appended, rows...)
	return nil
}

func (w *sheetWriterStub) Rewrite(_ context.Context, _, _ string, rows [][]any) error {
	w.rewritten = rows
	return nil
}

func exportRowFixture(id uint64) repository.ExportRow {
	score := 4
	dept := "Engineering"
	return repository.ExportRow{
		ID: id, UserID: 7, QuestionID: 10, SurveyID: 3,
		SubmittedAt:  time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		EmployeeID:   "EMP001",
		FullName:     "Dana Petrov",
		Department:   &dept,
		QuestionText: "I feel supported",
		Score:        &score,
	}
}

func TestSyncOneDisabledIsNoOp(t *testing.T) {
	store := &syncStoreStub{exportRow: exportRowFixture(1)}
	writer := &sheetWriterStub{enabled: false}
	syncer := NewSheetSyncer(store, writer)

	require.NoError(t, syncer.SyncOne(context.Background(), 7, 10, 3))
	assert.Empty(t, writer.appended)
	assert.Empty(t, store.markedOne)
}

func TestSyncOneAppendsAndMarks(t *testing.T) {
	store := &syncStoreStub{exportRow: exportRowFixture(42)}
	writer := &sheetWriterStub{enabled: true}
	syncer := NewSheetSyncer(store, writer)

	require.NoError(t, syncer.SyncOne(context.Background(), 7, 10, 3))

	require.Len(t, writer.appended, 1)
	cells := writer.appended[0]
	require.Len(t, cells, 9)
	assert.Equal(t, "01/06/2025 09:30:00", cells[0])
	assert.Equal(t, "EMP001", cells[1])
	assert.Equal(t, "Engineering", cells[3])
	assert.Equal(t, uint64(10), cells[4])
	assert.Equal(t, "I feel supported", cells[5])
	assert.Equal(t, 4, cells[7])
	assert.Equal(t, "", cells[8])
	assert.Equal(t, []uint64{42}, store.markedOne)
}

func TestSyncOneSkipsDeletedResponse(t *testing.T) {
	store := &syncStoreStub{exportRowErr: sql.ErrNoRows}
	writer := &sheetWriterStub{enabled: true}
	syncer := NewSheetSyncer(store, writer)

	require.NoError(t, syncer.SyncOne(context.Background(), 7, 10, 3))
	assert.Empty(t, writer.appended)
}

func TestSyncAllDisabled(t *testing.T) {
	store := &syncStoreStub{unsynced: []repository.ExportRow{exportRowFixture(1)}}
	syncer := NewSheetSyncer(store, &sheetWriterStub{enabled: false})

	result, err := syncer.SyncAll(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "disabled", result.Status)
	assert.Zero(t, result.RecordsSynced)
}

func TestSyncAllNothingPending(t *testing.T) {
	store := &syncStoreStub{}
	writer := &sheetWriterStub{enabled: true}
	syncer := NewSheetSyncer(store, writer)

	result, err := syncer.SyncAll(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Zero(t, result.RecordsSynced)
	assert.Empty(t, writer.appended)
	assert.Empty(t, store.logStatus)
}

func TestSyncAllExportsAndLogs(t *testing.T) {
	avg := 4.5
	done := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	store := &syncStoreStub{
		unsynced: []repository.ExportRow{exportRowFixture(1), exportRowFixture(2)},
		summary: []repository.SummaryRow{
			{EmployeeID: "EMP001", FullName: "Dana Petrov", Total: 10, Answered: 10, CompletionPct: 100, AvgScore: &avg, CompletedAt: &done},
			{EmployeeID: "EMP002", FullName: "Ali Reza", Total: 10, Answered: 3, CompletionPct: 30},
		},
	}
	writer := &sheetWriterStub{enabled: true}
	syncer := NewSheetSyncer(store, writer)

	result, err := syncer.SyncAll(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, SyncResult{Status: "success", RecordsSynced: 2}, result)
	assert.Len(t, writer.appended, 2)
	assert.Equal(t, []uint64{1, 2}, store.markedBulk)

	// header plus one line per user
	require.Len(t, writer.rewritten, 3)
	assert.Equal(t, []any{
		"Employee ID", "Full Name", "Department", "Total Questions",
		"Answered", "Completion %", "Average Score", "Completed At",
	}, writer.rewritten[0])
	assert.Equal(t, "4.50", writer.rewritten[1][6])
	assert.Equal(t, "02/06/2025 12:00:00", writer.rewritten[1][7])
	assert.Equal(t, "", writer.rewritten[2][6])

	require.Equal(t, []string{"manual"}, store.logTypes)
	assert.Equal(t, []string{"success"}, store.logStatus)
	assert.Equal(t, []int{2}, store.logRecords)
	assert.Nil(t, store.logErrs[0])
}

func TestSyncAllMarkFailureLogged(t *testing.T) {
	store := &syncStoreStub{
		unsynced: []repository.ExportRow{exportRowFixture(1), exportRowFixture(2)},
		markErr:  errors.New("connection reset"),
	}
	writer := &sheetWriterStub{enabled: true}
	syncer := NewSheetSyncer(store, writer)

	_, err := syncer.SyncAll(context.Background(), 3)

	require.Error(t, err)
	require.Equal(t, []string{"failed"}, store.logStatus)
	assert.Equal(t, []int{2}, store.logRecords)
	require.NotNil(t, store.logErrs[0])
	assert.Contains(t, *store.logErrs[0], "connection reset")
}

func TestSyncAllAppendFailureLogged(t *testing.T) {
	store := &syncStoreStub{unsynced: []repository.ExportRow{exportRowFixture(1)}}
	writer := &sheetWriterStub{enabled: true, appendErr: errors.New("quota exceeded")}
	syncer := NewSheetSyncer(store, writer)

	_, err := syncer.SyncAll(context.Background(), 3)

	require.Error(t, err)
	assert.Empty(t, store.markedBulk)
	require.Equal(t, []string{"failed"}, store.logStatus)
	require.NotNil(t, store.logErrs[0])
	assert.Contains(t, *store.logErrs[0], "quota exceeded")
}
