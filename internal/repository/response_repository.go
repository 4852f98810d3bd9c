package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ResponseRepo provides persistence for survey answers.  A response is unique
// per (user, question, survey); the table carries a unique key on that triple
// and the repository upserts through an existence check, so a concurrent
// duplicate insert fails on the constraint instead of doubling the row.
type ResponseRepo struct{ DB *sql.DB }

func NewResponseRepo(db *sql.DB) *ResponseRepo { return &ResponseRepo{DB: db} }

// Answered is the per-question answer summary returned with progress.
type Answered struct {
	QuestionID  uint64    `json:"question_id"`
	Score       *int      `json:"score"`
	Text        *string   `json:"text_response"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// UserResponse is a response joined with its question for the owner's view.
type UserResponse struct {
	ID           uint64    `json:"id"`
	QuestionID   uint64    `json:"question_id"`
	SurveyID     uint64    `json:"survey_id"`
	Score        *int      `json:"score"`
	Text         *string   `json:"text_response"`
	SubmittedAt  time.Time `json:"submitted_at"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	CategoryName *string   `json:"category_name"`
}

// AdminResponse extends UserResponse with respondent details for admin
// reporting.
type AdminResponse struct {
	UserResponse
	UserID     uint64  `json:"user_id"`
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Department *string `json:"department"`
}

// ExportRow carries everything the spreadsheet export needs for one response.
type ExportRow struct {
	ID           uint64
	UserID       uint64
	QuestionID   uint64
	SurveyID     uint64
	SubmittedAt  time.Time
	EmployeeID   string
	FullName     string
	Department   *string
	QuestionText string
	CategoryName *string
	Score        *int
	Text         *string
}

// CategoryScore is the per-category aggregate for the summary report.
type CategoryScore struct {
	Name          string   `json:"name"`
	AvgScore      *float64 `json:"avg_score"`
	ResponseCount int      `json:"response_count"`
}

// QuestionStat is the per-question aggregate for the summary report.
// Aggregates are nil when the question has no scored responses.
type QuestionStat struct {
	QuestionText  string   `json:"question_text"`
	CategoryName  *string  `json:"category_name"`
	AvgScore      *float64 `json:"avg_score"`
	MinScore      *int     `json:"min_score"`
	MaxScore      *int     `json:"max_score"`
	ResponseCount int      `json:"response_count"`
}

// SummaryRow is one user's line on the export summary sheet.
type SummaryRow struct {
	EmployeeID    string
	FullName      string
	Department    *string
	Total         int
	Answered      int
	CompletionPct float64
	AvgScore      *float64
	CompletedAt   *time.Time
}

// UpsertResponse overwrites an existing (user, question, survey) response or
// inserts a new one.  Overwriting resets submitted_at and clears the synced
// flag so the exporter re-sends the row.
func (r *ResponseRepo) UpsertResponse(ctx context.Context, userID, questionID, surveyID uint64, score *int, text *string) error {
	var existingID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM responses WHERE user_id=? AND question_id=? AND survey_id=? LIMIT 1",
		userID, questionID, surveyID).Scan(&existingID)
	switch {
	case err == nil:
		_, err = r.DB.ExecContext(ctx,
			`UPDATE responses
			 SET score=?, text_response=?, submitted_at=CURRENT_TIMESTAMP, is_synced_to_sheets=0
			 WHERE id=?`,
			score, text, existingID)
		return err
	case err == sql.ErrNoRows:
		_, err = r.DB.ExecContext(ctx,
			`INSERT INTO responses (user_id, question_id, survey_id, score, text_response)
			 VALUES (?,?,?,?,?)`,
			userID, questionID, surveyID, score, text)
		return err
	default:
		return err
	}
}

// AnsweredCount counts the user's responses for a survey.
func (r *ResponseRepo) AnsweredCount(ctx context.Context, userID, surveyID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM responses WHERE user_id=? AND survey_id=?", userID, surveyID).Scan(&n)
	return n, err
}

// AnsweredQuestionIDs lists the question ids the user has answered for a
// survey.
func (r *ResponseRepo) AnsweredQuestionIDs(ctx context.Context, userID, surveyID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT question_id FROM responses WHERE user_id=? AND survey_id=?", userID, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AnsweredBySurvey lists the user's answers for the progress payload.
func (r *ResponseRepo) AnsweredBySurvey(ctx context.Context, userID, surveyID uint64) ([]Answered, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT question_id, score, text_response, submitted_at
		 FROM responses WHERE user_id=? AND survey_id=?`, userID, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Answered{}
	for rows.Next() {
		var a Answered
		if err := rows.Scan(&a.QuestionID, &a.Score, &a.Text, &a.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ResponsesForUser lists a user's responses joined with question text, type
// and category, in display order.
func (r *ResponseRepo) ResponsesForUser(ctx context.Context, userID, surveyID uint64) ([]UserResponse, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.question_id, r.survey_id, r.score, r.text_response, r.submitted_at,
		        q.question_text, q.question_type, c.name
		 FROM responses r
		 JOIN questions q ON r.question_id = q.id
		 LEFT JOIN question_categories c ON q.category_id = c.id
		 WHERE r.user_id=? AND r.survey_id=?
		 ORDER BY q.display_order`, userID, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserResponse{}
	for rows.Next() {
		var ur UserResponse
		if err := rows.Scan(&ur.ID, &ur.QuestionID, &ur.SurveyID, &ur.Score, &ur.Text,
			&ur.SubmittedAt, &ur.QuestionText, &ur.QuestionType, &ur.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, ur)
	}
	return out, rows.Err()
}

// ResponsesBySurvey lists every response for a survey joined with respondent
// and question details, ordered by employee then question order.
func (r *ResponseRepo) ResponsesBySurvey(ctx context.Context, surveyID uint64) ([]AdminResponse, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.question_id, r.survey_id, r.score, r.text_response, r.submitted_at,
		        u.employee_id, u.full_name, u.department,
		        q.question_text, q.question_type, c.name
		 FROM responses r
		 JOIN users u ON r.user_id = u.id
		 JOIN questions q ON r.question_id = q.id
		 LEFT JOIN question_categories c ON q.category_id = c.id
		 WHERE r.survey_id=?
		 ORDER BY u.employee_id, q.display_order`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AdminResponse{}
	for rows.Next() {
		var ar AdminResponse
		if err := rows.Scan(&ar.ID, &ar.UserID, &ar.QuestionID, &ar.SurveyID, &ar.Score, &ar.Text,
			&ar.SubmittedAt, &ar.EmployeeID, &ar.FullName, &ar.Department,
			&ar.QuestionText, &ar.QuestionType, &ar.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

const exportRowSelect = `SELECT r.id, r.user_id, r.question_id, r.survey_id, r.submitted_at,
       u.employee_id, u.full_name, u.department,
       q.question_text, c.name, r.score, r.text_response
FROM responses r
JOIN users u ON r.user_id = u.id
JOIN questions q ON r.question_id = q.id
LEFT JOIN question_categories c ON q.category_id = c.id`

func scanExportRow(scan func(...any) error) (ExportRow, error) {
	var e ExportRow
	err := scan(&e.ID, &e.UserID, &e.QuestionID, &e.SurveyID, &e.SubmittedAt,
		&e.EmployeeID, &e.FullName, &e.Department,
		&e.QuestionText, &e.CategoryName, &e.Score, &e.Text)
	return e, err
}

// ExportRowFor fetches the fully joined export row for one response.
func (r *ResponseRepo) ExportRowFor(ctx context.Context, userID, questionID, surveyID uint64) (ExportRow, error) {
	row := r.DB.QueryRowContext(ctx,
		exportRowSelect+" WHERE r.user_id=? AND r.question_id=? AND r.survey_id=?",
		userID, questionID, surveyID)
	e, err := scanExportRow(row.Scan)
	if err == sql.ErrNoRows {
		return e, sql.ErrNoRows
	}
	return e, err
}

// UnsyncedExportRows lists every not-yet-exported response for a survey in
// submission order.
func (r *ResponseRepo) UnsyncedExportRows(ctx context.Context, surveyID uint64) ([]ExportRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		exportRowSelect+` WHERE r.survey_id=? AND r.is_synced_to_sheets=0 ORDER BY r.submitted_at`,
		surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ExportRow{}
	for rows.Next() {
		e, err := scanExportRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkSynced flags the given response rows as exported.
func (r *ResponseRepo) MarkSynced(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat(",?", len(ids))[1:]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE responses SET is_synced_to_sheets=1 WHERE id IN ("+placeholders+")", args...)
	return err
}

// MarkSyncedOne flags a single response row as exported.
func (r *ResponseRepo) MarkSyncedOne(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE responses SET is_synced_to_sheets=1 WHERE id=?", id)
	return err
}

// CategoryAverages aggregates scored responses per category, preserving the
// category display order.
func (r *ResponseRepo) CategoryAverages(ctx context.Context, surveyID uint64) ([]CategoryScore, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.name, AVG(r.score), COUNT(*)
		 FROM responses r
		 JOIN questions q ON r.question_id = q.id
		 JOIN question_categories c ON q.category_id = c.id
		 WHERE r.survey_id=? AND r.score IS NOT NULL
		 GROUP BY c.id, c.name
		 ORDER BY c.display_order`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CategoryScore{}
	for rows.Next() {
		var cs CategoryScore
		if err := rows.Scan(&cs.Name, &cs.AvgScore, &cs.ResponseCount); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// QuestionStats aggregates per-question score statistics, left-joined so
// unanswered questions still appear with nil aggregates.
func (r *ResponseRepo) QuestionStats(ctx context.Context, surveyID uint64) ([]QuestionStat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT q.question_text, c.name,
		        AVG(r.score), MIN(r.score), MAX(r.score), COUNT(r.id)
		 FROM questions q
		 LEFT JOIN responses r ON q.id = r.question_id AND r.survey_id = ?
		 LEFT JOIN question_categories c ON q.category_id = c.id
		 WHERE q.survey_id = ?
		 GROUP BY q.id
		 ORDER BY q.display_order`, surveyID, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuestionStat{}
	for rows.Next() {
		var qs QuestionStat
		if err := rows.Scan(&qs.QuestionText, &qs.CategoryName,
			&qs.AvgScore, &qs.MinScore, &qs.MaxScore, &qs.ResponseCount); err != nil {
			return nil, err
		}
		out = append(out, qs)
	}
	return out, rows.Err()
}

// SummaryRows builds the export summary: one row per non-admin user with
// answered counts, completion percentage and average score over the survey's
// questions.
func (r *ResponseRepo) SummaryRows(ctx context.Context, surveyID uint64) ([]SummaryRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.employee_id, u.full_name, u.department,
		        COUNT(DISTINCT q.id),
		        COUNT(r.id),
		        ROUND(COUNT(r.id) * 100.0 / COUNT(DISTINCT q.id), 2),
		        ROUND(AVG(r.score), 2),
		        sp.completed_at
		 FROM users u
		 CROSS JOIN questions q
		 LEFT JOIN responses r ON u.id = r.user_id AND q.id = r.question_id AND r.survey_id = ?
		 LEFT JOIN survey_progress sp ON u.id = sp.user_id AND sp.survey_id = ?
		 WHERE q.survey_id = ? AND u.is_admin = 0
		 GROUP BY u.id
		 ORDER BY u.employee_id`, surveyID, surveyID, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SummaryRow{}
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.EmployeeID, &s.FullName, &s.Department,
			&s.Total, &s.Answered, &s.CompletionPct, &s.AvgScore, &s.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
