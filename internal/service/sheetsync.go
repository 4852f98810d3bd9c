package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/haanng/pulse-survey/internal/repository"
)

const (
	rawResponsesRange = "Raw Responses!A:I"
	summaryClearRange = "Summary!A:H"
	summaryStartCell  = "Summary!A1"
	exportTimeLayout  = "02/01/2006 15:04:05"
)

// SheetWriter is the spreadsheet gateway the exporter writes through.
type SheetWriter interface {
	Enabled() bool
	Append(ctx context.Context, rangeA1 string, rows [][]any) error
	Rewrite(ctx context.Context, clearRange, startCell string, rows [][]any) error
}

// SyncStore is the slice of the persistence gateway the exporter depends on.
type SyncStore interface {
	ExportRowFor(ctx context.Context, userID, questionID, surveyID uint64) (repository.ExportRow, error)
	UnsyncedExportRows(ctx context.Context, surveyID uint64) ([]repository.ExportRow, error)
	MarkSynced(ctx context.Context, ids []uint64) error
	MarkSyncedOne(ctx context.Context, id uint64) error
	SummaryRows(ctx context.Context, surveyID uint64) ([]repository.SummaryRow, error)
	AppendSyncLog(ctx context.Context, syncType string, records int, status string, errMsg *string) error
}

// SyncResult reports the outcome of a bulk export.
type SyncResult struct {
	Status        string `json:"status"`
	RecordsSynced int    `json:"records_synced"`
	Message       string `json:"message,omitempty"`
}

// SheetSyncer mirrors recorded responses into the export spreadsheet.
type SheetSyncer struct {
	store  SyncStore
	writer SheetWriter
}

func NewSheetSyncer(store SyncStore, writer SheetWriter) *SheetSyncer {
	return &SheetSyncer{store: store, writer: writer}
}

// SyncOne exports a single response row.  Responses deleted between
// recording and export are skipped silently, so the queue consumer can
// ack stale messages.
func (s *SheetSyncer) SyncOne(ctx context.Context, userID, questionID, surveyID uint64) error {
	if !s.writer.Enabled() {
		return nil
	}
	row, err := s.store.ExportRowFor(ctx, userID, questionID, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.writer.Append(ctx, rawResponsesRange, [][]any{exportCells(row)}); err != nil {
		return fmt.Errorf("append export row: %w", err)
	}
	if err := s.store.MarkSyncedOne(ctx, row.ID); err != nil {
		log.Printf("sheet sync: mark response %d synced: %v", row.ID, err)
	}
	return nil
}

// SyncAll exports every unsynced response for the survey and rewrites the
// summary sheet.  The outcome is recorded in the sync log either way.
func (s *SheetSyncer) SyncAll(ctx context.Context, surveyID uint64) (SyncResult, error) {
	if !s.writer.Enabled() {
		return SyncResult{Status: "disabled", Message: "spreadsheet export is not configured"}, nil
	}
	rows, err := s.store.UnsyncedExportRows(ctx, surveyID)
	if err != nil {
		return SyncResult{}, err
	}
	if len(rows) == 0 {
		return SyncResult{Status: "success", Message: "no new responses to sync"}, nil
	}

	cells := make([][]any, 0, len(rows))
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, exportCells(row))
		ids = append(ids, row.ID)
	}
	if err := s.writer.Append(ctx, rawResponsesRange, cells); err != nil {
		s.logSync(ctx, len(rows), "failed", err)
		return SyncResult{}, fmt.Errorf("append export rows: %w", err)
	}
	if err := s.store.MarkSynced(ctx, ids); err != nil {
		s.logSync(ctx, len(rows), "failed", err)
		return SyncResult{}, err
	}
	if err := s.rewriteSummary(ctx, surveyID); err != nil {
		s.logSync(ctx, len(rows), "failed", err)
		return SyncResult{}, err
	}
	s.logSync(ctx, len(rows), "success", nil)
	return SyncResult{Status: "success", RecordsSynced: len(rows)}, nil
}

func (s *SheetSyncer) rewriteSummary(ctx context.Context, surveyID uint64) error {
	rows, err := s.store.SummaryRows(ctx, surveyID)
	if err != nil {
		return err
	}
	cells := [][]any{{
		"Employee ID", "Full Name", "Department", "Total Questions",
		"Answered", "Completion %", "Average Score", "Completed At",
	}}
	for _, row := range rows {
		var avg any = ""
		if row.AvgScore != nil {
			avg = fmt.Sprintf("%.2f", *row.AvgScore)
		}
		var completedAt any = ""
		if row.CompletedAt != nil {
			completedAt = row.CompletedAt.Format(exportTimeLayout)
		}
		cells = append(cells, []any{
			row.EmployeeID,
			row.FullName,
			strOrEmpty(row.Department),
			row.Total,
			row.Answered,
			fmt.Sprintf("%.0f%%", row.CompletionPct),
			avg,
			completedAt,
		})
	}
	if err := s.writer.Rewrite(ctx, summaryClearRange, summaryStartCell, cells); err != nil {
		return fmt.Errorf("rewrite summary sheet: %w", err)
	}
	return nil
}

func (s *SheetSyncer) logSync(ctx context.Context, records int, status string, cause error) {
	var msg *string
	if cause != nil {
		text := cause.Error()
		msg = &text
	}
	if err := s.store.AppendSyncLog(ctx, "manual", records, status, msg); err != nil {
		log.Printf("sheet sync: append sync log: %v", err)
	}
}

// exportCells flattens one response into the nine raw-sheet columns.
func exportCells(row repository.ExportRow) []any {
	var score any = ""
	if row.Score != nil {
		score = *row.Score
	}
	return []any{
		row.SubmittedAt.Format(exportTimeLayout),
		row.EmployeeID,
		row.FullName,
		strOrEmpty(row.Department),
		row.QuestionID,
		row.QuestionText,
		strOrEmpty(row.CategoryName),
		score,
		strOrEmpty(row.Text),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
