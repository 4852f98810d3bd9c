package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'EMP001' for key 'uq_users_employee_id'")))
	assert.False(t, isDuplicateKey(errors.New("Error 1452 (23000): Cannot add or update a child row")))
	assert.False(t, isDuplicateKey(nil))
}
