package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/repository"
)

func TestLoginResponseShape(t *testing.T) {
	body, err := json.Marshal(loginResp{
		Token: "signed.jwt.here",
		User:  repository.User{ID: 1, EmployeeID: "EMP001", FullName: "Dana Petrov"},
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Contains(t, decoded, "token")
	assert.Contains(t, decoded, "user")
	assert.NotContains(t, decoded, "access")
	assert.JSONEq(t, `"signed.jwt.here"`, string(decoded["token"]))
	assert.NotContains(t, string(decoded["user"]), "password")
}
