package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/repository"
	"github.com/haanng/pulse-survey/internal/service"
)

// SurveyHandler serves the employee-facing survey views.
type SurveyHandler struct {
	Query *service.SurveyQuery
}

func NewSurveyHandler(q *service.SurveyQuery) *SurveyHandler {
	return &SurveyHandler{Query: q}
}

// Active returns the currently served survey with its categories and
// questions.
func (h *SurveyHandler) Active(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Query.Active(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSurvey) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active survey"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, view)
}

// Progress returns the caller's progress on the given survey.
func (h *SurveyHandler) Progress(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	surveyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Query.Progress(ctx, uid, surveyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, view)
}
