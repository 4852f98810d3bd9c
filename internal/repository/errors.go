// Package repository implements the persistence gateway over MySQL.  Each
// repository owns the row structs and SQL for one table.  Sentinel errors
// defined here let handlers map failures onto HTTP status codes without
// inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when a referenced user row does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrSurveyNotFound is returned when a referenced survey row does not exist.
var ErrSurveyNotFound = errors.New("survey not found")

// ErrNoActiveSurvey is returned when no survey is currently marked active.
var ErrNoActiveSurvey = errors.New("no active survey")

// ErrQuestionNotFound is returned when a question does not exist or does not
// belong to the survey it was referenced through.
var ErrQuestionNotFound = errors.New("question not found")

// ErrEmployeeIDExists is returned when creating a user whose employee id is
// already taken.
var ErrEmployeeIDExists = errors.New("employee id already exists")

// ErrNoFields is returned by partial updates when the patch sets nothing.
var ErrNoFields = errors.New("no fields to update")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
