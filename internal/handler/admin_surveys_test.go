package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidQuestionType(t *testing.T) {
	for _, ok := range []string{"likert", "text", "multiple_choice"} {
		assert.True(t, validQuestionType(ok), ok)
	}
	for _, bad := range []string{"", "ranking", "LIKERT", "choice"} {
		assert.False(t, validQuestionType(bad), bad)
	}
}

func TestCreateQuestionRejectsUnknownType(t *testing.T) {
	h := NewAdminSurveyHandler(nil, nil)

	e := echo.New()
	body := `{"survey_id":1,"question_text":"Rank your team","question_type":"ranking"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateQuestion(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "multiple_choice")
}
