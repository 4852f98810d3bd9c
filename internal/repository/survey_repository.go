package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Survey mirrors the 'surveys' table.
type Survey struct {
	ID           uint64     `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	LikertScale  int        `json:"likert_scale"`
	IsActive     bool       `json:"is_active"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	CreatedBy    *uint64    `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SurveyOverview is a survey annotated with its creator name and question
// count for the admin listing.
type SurveyOverview struct {
	Survey
	CreatedByName *string `json:"created_by_name"`
	QuestionCount int     `json:"question_count"`
}

// Category mirrors the 'question_categories' table.
type Category struct {
	ID           uint64  `json:"id"`
	SurveyID     uint64  `json:"survey_id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
}

// SurveyPatch lists the mutable survey fields.  Only non-nil fields are
// written.
type SurveyPatch struct {
	Title        *string
	Description  *string
	Instructions *string
	LikertScale  *int
	IsActive     *bool
	StartDate    *time.Time
	EndDate      *time.Time
}

func (p SurveyPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.Title != nil {
		cols = append(cols, "title=?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		cols = append(cols, "description=?")
		args = append(args, *p.Description)
	}
	if p.Instructions != nil {
		cols = append(cols, "instructions=?")
		args = append(args, *p.Instructions)
	}
	if p.LikertScale != nil {
		cols = append(cols, "likert_scale=?")
		args = append(args, *p.LikertScale)
	}
	if p.IsActive != nil {
		cols = append(cols, "is_active=?")
		args = append(args, *p.IsActive)
	}
	if p.StartDate != nil {
		cols = append(cols, "start_date=?")
		args = append(args, *p.StartDate)
	}
	if p.EndDate != nil {
		cols = append(cols, "end_date=?")
		args = append(args, *p.EndDate)
	}
	return cols, args
}

type SurveyRepo struct{ DB *sql.DB }

func NewSurveyRepo(db *sql.DB) *SurveyRepo { return &SurveyRepo{DB: db} }

const surveyCols = "id,title,description,instructions,likert_scale,is_active,start_date,end_date,created_by,created_at,updated_at"

func scanSurvey(row *sql.Row) (Survey, error) {
	var s Survey
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Instructions, &s.LikertScale,
		&s.IsActive, &s.StartDate, &s.EndDate, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ActiveSurvey returns the most recently created survey marked active.  If
// several rows are active the newest wins; this tolerates the data state
// rather than enforcing a single-active invariant.
func (r *SurveyRepo) ActiveSurvey(ctx context.Context) (Survey, error) {
	s, err := scanSurvey(r.DB.QueryRowContext(ctx,
		"SELECT "+surveyCols+" FROM surveys WHERE is_active=1 ORDER BY created_at DESC LIMIT 1"))
	if err == sql.ErrNoRows {
		return s, ErrNoActiveSurvey
	}
	return s, err
}

// SurveyByID fetches a survey by id.
func (r *SurveyRepo) SurveyByID(ctx context.Context, id uint64) (Survey, error) {
	s, err := scanSurvey(r.DB.QueryRowContext(ctx,
		"SELECT "+surveyCols+" FROM surveys WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return s, ErrSurveyNotFound
	}
	return s, err
}

// AllSurveys lists every survey with creator name and question count, newest
// first.
func (r *SurveyRepo) AllSurveys(ctx context.Context) ([]SurveyOverview, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT s.id, s.title, s.description, s.instructions, s.likert_scale, s.is_active,
		        s.start_date, s.end_date, s.created_by, s.created_at, s.updated_at,
		        u.full_name,
		        (SELECT COUNT(*) FROM questions q WHERE q.survey_id = s.id)
		 FROM surveys s
		 LEFT JOIN users u ON s.created_by = u.id
		 ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SurveyOverview{}
	for rows.Next() {
		var o SurveyOverview
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Instructions, &o.LikertScale,
			&o.IsActive, &o.StartDate, &o.EndDate, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
			&o.CreatedByName, &o.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateSurvey inserts a survey and reads the stored row back so defaults and
// timestamps are populated.
func (r *SurveyRepo) CreateSurvey(ctx context.Context, s *Survey) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO surveys (title, description, instructions, likert_scale, is_active, start_date, end_date, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.Title, s.Description, s.Instructions, s.LikertScale, s.IsActive, s.StartDate, s.EndDate, s.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.SurveyByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// UpdateSurvey applies the non-nil fields of the patch plus updated_at.
func (r *SurveyRepo) UpdateSurvey(ctx context.Context, id uint64, p SurveyPatch) error {
	cols, args := p.assignments()
	if len(cols) == 0 {
		return ErrNoFields
	}
	cols = append(cols, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE surveys SET "+strings.Join(cols, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with identical values; distinguish via lookup.
		if _, err := r.SurveyByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CategoriesBySurvey lists a survey's categories in display order.
func (r *SurveyRepo) CategoriesBySurvey(ctx context.Context, surveyID uint64) ([]Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, survey_id, name, description, display_order
		 FROM question_categories WHERE survey_id=? ORDER BY display_order`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.SurveyID, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
