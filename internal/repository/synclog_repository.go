package repository

import (
	"context"
	"database/sql"
	"time"
)

// SyncLogEntry mirrors the append-only 'sync_log' table auditing export
// attempts.
type SyncLogEntry struct {
	ID           uint64    `json:"id"`
	SyncType     string    `json:"sync_type"`
	RecordCount  int       `json:"records_synced"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

type SyncLogRepo struct{ DB *sql.DB }

func NewSyncLogRepo(db *sql.DB) *SyncLogRepo { return &SyncLogRepo{DB: db} }

// AppendSyncLog records one export attempt.
func (r *SyncLogRepo) AppendSyncLog(ctx context.Context, syncType string, records int, status string, errMsg *string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sync_log (sync_type, records_synced, status, error_message) VALUES (?,?,?,?)`,
		syncType, records, status, errMsg)
	return err
}

// RecentSyncLogs lists the newest export attempts, most recent first.
func (r *SyncLogRepo) RecentSyncLogs(ctx context.Context, limit int) ([]SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, sync_type, records_synced, status, error_message, created_at
		 FROM sync_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SyncLogEntry{}
	for rows.Next() {
		var e SyncLogEntry
		if err := rows.Scan(&e.ID, &e.SyncType, &e.RecordCount, &e.Status, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
