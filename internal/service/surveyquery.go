package service

import (
	"context"

	"github.com/haanng/pulse-survey/internal/repository"
)

// SurveyQueryStore is the slice of the persistence gateway the survey query
// service depends on.
type SurveyQueryStore interface {
	ActiveSurvey(ctx context.Context) (repository.Survey, error)
	CategoriesBySurvey(ctx context.Context, surveyID uint64) ([]repository.Category, error)
	QuestionsBySurvey(ctx context.Context, surveyID uint64) ([]repository.Question, error)
	ProgressForUser(ctx context.Context, userID, surveyID uint64) (repository.Progress, error)
	AnsweredBySurvey(ctx context.Context, userID, surveyID uint64) ([]repository.Answered, error)
	QuestionCount(ctx context.Context, surveyID uint64) (int, error)
}

// ActiveSurveyView is the active survey with its ordered categories and
// questions.
type ActiveSurveyView struct {
	Survey     repository.Survey     `json:"survey"`
	Categories []repository.Category `json:"categories"`
	Questions  []repository.Question `json:"questions"`
}

// ProgressView is a user's progress on one survey.
type ProgressView struct {
	Progress          repository.Progress   `json:"progress"`
	AnsweredQuestions []repository.Answered `json:"answered_questions"`
	TotalQuestions    int                   `json:"total_questions"`
	AnsweredCount     int                   `json:"answered_count"`
	Percentage        int                   `json:"completion_percentage"`
}

// SurveyQuery resolves the currently served survey and per-user progress.
type SurveyQuery struct {
	store SurveyQueryStore
}

func NewSurveyQuery(store SurveyQueryStore) *SurveyQuery {
	return &SurveyQuery{store: store}
}

// Active returns the most recently created active survey with its categories
// and questions.  repository.ErrNoActiveSurvey when none is being served.
func (s *SurveyQuery) Active(ctx context.Context) (ActiveSurveyView, error) {
	survey, err := s.store.ActiveSurvey(ctx)
	if err != nil {
		return ActiveSurveyView{}, err
	}
	categories, err := s.store.CategoriesBySurvey(ctx, survey.ID)
	if err != nil {
		return ActiveSurveyView{}, err
	}
	questions, err := s.store.QuestionsBySurvey(ctx, survey.ID)
	if err != nil {
		return ActiveSurveyView{}, err
	}
	return ActiveSurveyView{Survey: survey, Categories: categories, Questions: questions}, nil
}

// Progress fetches (lazily creating) the user's progress row and returns it
// with the answered list and completion percentage.
func (s *SurveyQuery) Progress(ctx context.Context, userID, surveyID uint64) (ProgressView, error) {
	progress, err := s.store.ProgressForUser(ctx, userID, surveyID)
	if err != nil {
		return ProgressView{}, err
	}
	answered, err := s.store.AnsweredBySurvey(ctx, userID, surveyID)
	if err != nil {
		return ProgressView{}, err
	}
	total, err := s.store.QuestionCount(ctx, surveyID)
	if err != nil {
		return ProgressView{}, err
	}
	return ProgressView{
		Progress:          progress,
		AnsweredQuestions: answered,
		TotalQuestions:    total,
		AnsweredCount:     len(answered),
		Percentage:        roundPct(len(answered), total),
	}, nil
}
