package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Question mirrors the 'questions' table.  CategoryName is filled by list
// queries that join question_categories.
type Question struct {
	ID           uint64    `json:"id"`
	SurveyID     uint64    `json:"survey_id"`
	CategoryID   *uint64   `json:"category_id"`
	Text         string    `json:"question_text"`
	Type         string    `json:"question_type"`
	IsRequired   bool      `json:"is_required"`
	DisplayOrder int       `json:"display_order"`
	CategoryName *string   `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuestionPatch lists the mutable question fields.  Only non-nil fields are
// written.
type QuestionPatch struct {
	Text         *string
	IsRequired   *bool
	DisplayOrder *int
}

func (p QuestionPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.Text != nil {
		cols = append(cols, "question_text=?")
		args = append(args, *p.Text)
	}
	if p.IsRequired != nil {
		cols = append(cols, "is_required=?")
		args = append(args, *p.IsRequired)
	}
	if p.DisplayOrder != nil {
		cols = append(cols, "display_order=?")
		args = append(args, *p.DisplayOrder)
	}
	return cols, args
}

type QuestionRepo struct{ DB *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{DB: db} }

// QuestionsBySurvey lists a survey's questions in display order with their
// category names.
func (r *QuestionRepo) QuestionsBySurvey(ctx context.Context, surveyID uint64) ([]Question, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT q.id, q.survey_id, q.category_id, q.question_text, q.question_type,
		        q.is_required, q.display_order, c.name, q.created_at
		 FROM questions q
		 LEFT JOIN question_categories c ON q.category_id = c.id
		 WHERE q.survey_id=?
		 ORDER BY q.display_order`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.CategoryID, &q.Text, &q.Type,
			&q.IsRequired, &q.DisplayOrder, &q.CategoryName, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// QuestionInSurvey fetches a question only when it belongs to the given
// survey.  ErrQuestionNotFound covers both absence and wrong pairing.
func (r *QuestionRepo) QuestionInSurvey(ctx context.Context, questionID, surveyID uint64) (Question, error) {
	var q Question
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, survey_id, category_id, question_text, question_type, is_required, display_order, created_at
		 FROM questions WHERE id=? AND survey_id=? LIMIT 1`, questionID, surveyID).
		Scan(&q.ID, &q.SurveyID, &q.CategoryID, &q.Text, &q.Type, &q.IsRequired, &q.DisplayOrder, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return q, ErrQuestionNotFound
	}
	return q, err
}

// QuestionByID fetches a question by id.
func (r *QuestionRepo) QuestionByID(ctx context.Context, id uint64) (Question, error) {
	var q Question
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, survey_id, category_id, question_text, question_type, is_required, display_order, created_at
		 FROM questions WHERE id=? LIMIT 1`, id).
		Scan(&q.ID, &q.SurveyID, &q.CategoryID, &q.Text, &q.Type, &q.IsRequired, &q.DisplayOrder, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return q, ErrQuestionNotFound
	}
	return q, err
}

// CreateQuestion inserts a question and populates its ID and stored defaults.
func (r *QuestionRepo) CreateQuestion(ctx context.Context, q *Question) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO questions (survey_id, category_id, question_text, question_type, is_required, display_order)
		 VALUES (?,?,?,?,?,?)`,
		q.SurveyID, q.CategoryID, q.Text, q.Type, q.IsRequired, q.DisplayOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.QuestionByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*q = stored
	return nil
}

// UpdateQuestion applies the non-nil fields of the patch.
func (r *QuestionRepo) UpdateQuestion(ctx context.Context, id uint64, p QuestionPatch) error {
	cols, args := p.assignments()
	if len(cols) == 0 {
		return ErrNoFields
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET "+strings.Join(cols, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with identical values; distinguish via lookup.
		if _, err := r.QuestionByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteQuestion removes a question row.  ErrQuestionNotFound when no row
// matched.
func (r *QuestionRepo) DeleteQuestion(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM questions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// QuestionCount counts a survey's questions.
func (r *QuestionRepo) QuestionCount(ctx context.Context, surveyID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM questions WHERE survey_id=?", surveyID).Scan(&n)
	return n, err
}

// RequiredQuestionIDs lists the ids of a survey's required questions.
func (r *QuestionRepo) RequiredQuestionIDs(ctx context.Context, surveyID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM questions WHERE survey_id=? AND is_required=1", surveyID)
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
