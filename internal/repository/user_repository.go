package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Department   *string    `json:"department"`
	Position     *string    `json:"position"`
	Email        *string    `json:"email"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	HasCompleted bool       `json:"has_completed"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserOverviewRow is a user joined with their survey progress for the admin
// listing.
type UserOverviewRow struct {
	User
	SurveyCompleted *bool      `json:"survey_completed"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// UserStats aggregates completion counts over non-admin users.
type UserStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// UserPatch lists the mutable user fields.  Only non-nil fields are written.
type UserPatch struct {
	FullName   *string
	Department *string
	Position   *string
	Email      *string
	IsActive   *bool
}

func (p UserPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.FullName != nil {
		cols = append(cols, "full_name=?")
		args = append(args, *p.FullName)
	}
	if p.Department != nil {
		cols = append(cols, "department=?")
		args = append(args, *p.Department)
	}
	if p.Position != nil {
		cols = append(cols, "position=?")
		args = append(args, *p.Position)
	}
	if p.Email != nil {
		cols = append(cols, "email=?")
		args = append(args, *p.Email)
	}
	if p.IsActive != nil {
		cols = append(cols, "is_active=?")
		args = append(args, *p.IsActive)
	}
	return cols, args
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,employee_id,password_hash,full_name,department,position,email,is_active,is_admin,has_completed,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.EmployeeID, &u.PasswordHash, &u.FullName,
		&u.Department, &u.Position, &u.Email,
		&u.IsActive, &u.IsAdmin, &u.HasCompleted, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a user and populates its ID.  A duplicate employee id
// yields ErrEmployeeIDExists.
func (r *UserRepo) CreateUser(ctx context.Context, u *User) error {
	u.EmployeeID = strings.TrimSpace(u.EmployeeID)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (employee_id, password_hash, full_name, department, position, email)
		 VALUES (?,?,?,?,?,?)`,
		u.EmployeeID, u.PasswordHash, u.FullName, u.Department, u.Position, u.Email)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmployeeIDExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.UserByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = stored
	return nil
}

// UserByEmployeeID fetches a user by employee id.
func (r *UserRepo) UserByEmployeeID(ctx context.Context, employeeID string) (User, error) {
	employeeID = strings.TrimSpace(employeeID)
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE employee_id=? LIMIT 1", employeeID))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// UserByID fetches a user by id.
func (r *UserRepo) UserByID(ctx context.Context, id uint64) (User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// NonAdminUsers lists every non-admin user joined with their survey progress,
// newest first.
func (r *UserRepo) NonAdminUsers(ctx context.Context) ([]UserOverviewRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.employee_id, u.full_name, u.department, u.position, u.email,
		        u.is_active, u.has_completed, u.created_at,
		        sp.is_completed, sp.completed_at
		 FROM users u
		 LEFT JOIN survey_progress sp ON u.id = sp.user_id
		 WHERE u.is_admin = 0
		 ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserOverviewRow{}
	for rows.Next() {
		var row UserOverviewRow
		if err := rows.Scan(&row.ID, &row.EmployeeID, &row.FullName,
			&row.Department, &row.Position, &row.Email,
			&row.IsActive, &row.HasCompleted, &row.CreatedAt,
			&row.SurveyCompleted, &row.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UserStats counts non-admin users by overall completion.
func (r *UserRepo) UserStats(ctx context.Context) (UserStats, error) {
	var s UserStats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN has_completed=1 THEN 1 ELSE 0 END),0),
		        COALESCE(SUM(CASE WHEN has_completed=0 THEN 1 ELSE 0 END),0)
		 FROM users WHERE is_admin = 0`).
		Scan(&s.Total, &s.Completed, &s.Pending)
	return s, err
}

// UpdateUser applies the non-nil fields of the patch plus updated_at.
func (r *UserRepo) UpdateUser(ctx context.Context, id uint64, p UserPatch) error {
	cols, args := p.assignments()
	if len(cols) == 0 {
		return ErrNoFields
	}
	cols = append(cols, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(cols, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with identical values; distinguish via lookup.
		if _, err := r.UserByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUser removes a user row.  ErrUserNotFound when no row matched.
func (r *UserRepo) DeleteUser(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPassword replaces a user's password hash.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkUserCompleted sets the overall has_completed flag.
func (r *UserRepo) MarkUserCompleted(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET has_completed=1 WHERE id=?", id)
	return err
}
