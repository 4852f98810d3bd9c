package repository

import (
	"context"
	"database/sql"
	"time"
)

// Progress mirrors the 'survey_progress' table.
type Progress struct {
	ID             uint64     `json:"id"`
	UserID         uint64     `json:"user_id"`
	SurveyID       uint64     `json:"survey_id"`
	LastQuestionID *uint64    `json:"last_question_id"`
	IsCompleted    bool       `json:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ProgressRepo struct{ DB *sql.DB }

func NewProgressRepo(db *sql.DB) *ProgressRepo { return &ProgressRepo{DB: db} }

// TouchProgress records the last answered question for (user, survey).  The
// conflict-aware insert keeps the upsert atomic at the store, so concurrent
// submissions cannot lose the row.
func (r *ProgressRepo) TouchProgress(ctx context.Context, userID, surveyID, lastQuestionID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO survey_progress (user_id, survey_id, last_question_id)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE last_question_id=VALUES(last_question_id), updated_at=CURRENT_TIMESTAMP`,
		userID, surveyID, lastQuestionID)
	return err
}

// ProgressForUser fetches the (user, survey) progress row, creating it on
// first access.
func (r *ProgressRepo) ProgressForUser(ctx context.Context, userID, surveyID uint64) (Progress, error) {
	p, err := r.scanProgress(ctx, userID, surveyID)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return p, err
	}
	// Lazily create; a concurrent insert loses the race harmlessly thanks to
	// the unique key, so re-read either way.
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO survey_progress (user_id, survey_id) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE updated_at=updated_at`, userID, surveyID); err != nil {
		return p, err
	}
	return r.scanProgress(ctx, userID, surveyID)
}

func (r *ProgressRepo) scanProgress(ctx context.Context, userID, surveyID uint64) (Progress, error) {
	var p Progress
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, survey_id, last_question_id, is_completed, completed_at, updated_at
		 FROM survey_progress WHERE user_id=? AND survey_id=? LIMIT 1`, userID, surveyID).
		Scan(&p.ID, &p.UserID, &p.SurveyID, &p.LastQuestionID, &p.IsCompleted, &p.CompletedAt, &p.UpdatedAt)
	return p, err
}

// CompleteProgress marks the (user, survey) progress row completed.  The
// update is an absolute set, so repeating it is harmless.
func (r *ProgressRepo) CompleteProgress(ctx context.Context, userID, surveyID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE survey_progress SET is_completed=1, completed_at=CURRENT_TIMESTAMP
		 WHERE user_id=? AND survey_id=?`, userID, surveyID)
	return err
}

// CompletedUserCount counts distinct users with a completed progress row for
// the survey.
func (r *ProgressRepo) CompletedUserCount(ctx context.Context, surveyID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT user_id) FROM survey_progress WHERE survey_id=? AND is_completed=1",
		surveyID).Scan(&n)
	return n, err
}
