package database

import (
	"context"
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// statements holds the idempotent DDL for the survey schema.  Statements are
// executed one by one because the MySQL driver does not accept multi-statement
// scripts on a plain connection.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		employee_id VARCHAR(64) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		department VARCHAR(255) NULL,
		position VARCHAR(255) NULL,
		email VARCHAR(255) NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		is_admin TINYINT(1) NOT NULL DEFAULT 0,
		has_completed TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_employee_id (employee_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS surveys (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		instructions TEXT NULL,
		likert_scale INT NOT NULL DEFAULT 5,
		is_active TINYINT(1) NOT NULL DEFAULT 0,
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		created_by BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_surveys_active (is_active, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS question_categories (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		survey_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		display_order INT NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_categories_survey (survey_id, display_order)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		survey_id BIGINT UNSIGNED NOT NULL,
		category_id BIGINT UNSIGNED NULL,
		question_text TEXT NOT NULL,
		question_type VARCHAR(32) NOT NULL DEFAULT 'likert',
		is_required TINYINT(1) NOT NULL DEFAULT 1,
		display_order INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_questions_survey (survey_id, display_order)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS responses (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		question_id BIGINT UNSIGNED NOT NULL,
		survey_id BIGINT UNSIGNED NOT NULL,
		score INT NULL,
		text_response TEXT NULL,
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_synced_to_sheets TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		UNIQUE KEY uq_responses_user_question_survey (user_id, question_id, survey_id),
		KEY idx_responses_survey_synced (survey_id, is_synced_to_sheets)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS survey_progress (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		survey_id BIGINT UNSIGNED NOT NULL,
		last_question_id BIGINT UNSIGNED NULL,
		is_completed TINYINT(1) NOT NULL DEFAULT 0,
		completed_at DATETIME NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_progress_user_survey (user_id, survey_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sync_log (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		sync_type VARCHAR(32) NOT NULL,
		records_synced INT NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL,
		error_message TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.  It is safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator account when no user with
// the configured employee id exists.  The password is hashed with the given
// bcrypt cost.  It returns the admin's user id either way.
func EnsureAdmin(ctx context.Context, db *sql.DB, employeeID, password, fullName string, cost int) (uint64, error) {
	var id uint64
	err := db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE employee_id=? LIMIT 1", employeeID).Scan(&id)
	if err == nil {
		return id, nil // already present
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (employee_id, password_hash, full_name, is_active, is_admin)
		 VALUES (?,?,?,1,1)`,
		employeeID, string(hash), fullName)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Printf("database: created bootstrap admin %q (change the default password)", employeeID)
	return uint64(newID), nil
}
