package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/repository"
)

// AdminSurveyHandler manages surveys and their questions.
type AdminSurveyHandler struct {
	Surveys   *repository.SurveyRepo
	Questions *repository.QuestionRepo
}

func NewAdminSurveyHandler(surveys *repository.SurveyRepo, questions *repository.QuestionRepo) *AdminSurveyHandler {
	return &AdminSurveyHandler{Surveys: surveys, Questions: questions}
}

type createSurveyReq struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	LikertScale  *int       `json:"likert_scale"`
	IsActive     *bool      `json:"is_active"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}
type updateSurveyReq struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	LikertScale  *int       `json:"likert_scale"`
	IsActive     *bool      `json:"is_active"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}
type createQuestionReq struct {
	SurveyID     uint64  `json:"survey_id"`
	CategoryID   *uint64 `json:"category_id"`
	Text         string  `json:"question_text"`
	Type         string  `json:"question_type"`
	IsRequired   *bool   `json:"is_required"`
	DisplayOrder int     `json:"display_order"`
}
type updateQuestionReq struct {
	Text         *string `json:"question_text"`
	IsRequired   *bool   `json:"is_required"`
	DisplayOrder *int    `json:"display_order"`
}

// validQuestionType reports whether t is one of the supported question
// kinds.  Only likert answers are scored; text and multiple_choice carry a
// free-form text response.
func validQuestionType(t string) bool {
	switch t {
	case "likert", "text", "multiple_choice":
		return true
	}
	return false
}

// List returns every survey annotated with creator and question count.
func (h *AdminSurveyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	surveys, err := h.Surveys.AllSurveys(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"surveys": surveys})
}

// Create inserts a new survey.  The likert scale defaults to 5 and must stay
// within the supported 3..7 band.
func (h *AdminSurveyHandler) Create(c echo.Context) error {
	var req createSurveyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	scale := 5
	if req.LikertScale != nil {
		scale = *req.LikertScale
	}
	if scale < 3 || scale > 7 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "likert_scale must be between 3 and 7"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var createdBy *uint64
	if uid, err := getUserID(c); err == nil {
		createdBy = &uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := repository.Survey{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		LikertScale:  scale,
		IsActive:     active,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CreatedBy:    createdBy,
	}
	if err := h.Surveys.CreateSurvey(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create survey failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// Update patches the mutable fields of a survey.
func (h *AdminSurveyHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}
	var req updateSurveyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LikertScale != nil && (*req.LikertScale < 3 || *req.LikertScale > 7) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "likert_scale must be between 3 and 7"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.SurveyPatch{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		LikertScale:  req.LikertScale,
		IsActive:     req.IsActive,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := h.Surveys.UpdateSurvey(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		case errors.Is(err, repository.ErrSurveyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "survey not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	s, err := h.Surveys.SurveyByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// CreateQuestion adds a question to a survey.
func (h *AdminSurveyHandler) CreateQuestion(c echo.Context) error {
	var req createQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.SurveyID == 0 || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "survey_id/question_text required"})
	}
	qType := strings.ToLower(strings.TrimSpace(req.Type))
	if !validQuestionType(qType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question_type must be likert, text or multiple_choice"})
	}
	required := true
	if req.IsRequired != nil {
		required = *req.IsRequired
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Surveys.SurveyByID(ctx, req.SurveyID); err != nil {
		if errors.Is(err, repository.ErrSurveyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "survey not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	q := repository.Question{
		SurveyID:     req.SurveyID,
		CategoryID:   req.CategoryID,
		Text:         req.Text,
		Type:         qType,
		IsRequired:   required,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.Questions.CreateQuestion(ctx, &q); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create question failed"})
	}
	return c.JSON(http.StatusCreated, q)
}

// UpdateQuestion patches question text, requiredness or ordering.
func (h *AdminSurveyHandler) UpdateQuestion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	var req updateQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.QuestionPatch{
		Text:         req.Text,
		IsRequired:   req.IsRequired,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.Questions.UpdateQuestion(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		case errors.Is(err, repository.ErrQuestionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	q, err := h.Questions.QuestionByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, q)
}

// DeleteQuestion removes a question and, via cascading keys, its responses.
func (h *AdminSurveyHandler) DeleteQuestion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Questions.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "question deleted"})
}
