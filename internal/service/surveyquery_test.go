package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/repository"
)

type surveyQueryStoreStub struct {
	survey    repository.Survey
	surveyErr error

	categories []repository.Category
	questions  []repository.Question
	progress   repository.Progress
	answered   []repository.Answered
	total      int
}

func (s *surveyQueryStoreStub) ActiveSurvey(_ context.Context) (repository.Survey, error) {
	if s.surveyErr != nil {
		return repository.Survey{}, s.surveyErr
	}
	return s.survey, nil
}

func (s *surveyQueryStoreStub) CategoriesBySurvey(_ context.Context, _ uint64) ([]repository.Category, error) {
	return s.categories, nil
}

func (s *surveyQueryStoreStub) QuestionsBySurvey(_ context.Context, _ uint64) ([]repository.Question, error) {
	return s.questions, nil
}

func (s *surveyQueryStoreStub) ProgressForUser(_ context.Context, _, _ uint64) (repository.Progress, error) {
	return s.progress, nil
}

func (s *surveyQueryStoreStub) AnsweredBySurvey(_ context.Context, _, _ uint64) ([]repository.Answered, error) {
	return s.answered, nil
}

func (s *surveyQueryStoreStub) QuestionCount(_ context.Context, _ uint64) (int, error) {
	return s.total, nil
}

func TestActiveReturnsSurveyWithStructure(t *testing.T) {
	store := &surveyQueryStoreStub{
		survey: repository.Survey{ID: 3, Title: "Q3 Pulse", LikertScale: 5, IsActive: true},
		categories: []repository.Category{
			{ID: 1, SurveyID: 3, Name: "Leadership", DisplayOrder: 1},
			{ID: 2, SurveyID: 3, Name: "Growth", DisplayOrder: 2},
		},
		questions: []repository.Question{
			{ID: 10, SurveyID: 3, Type: "likert", DisplayOrder: 1},
			{ID: 11, SurveyID: 3, Type: "text", DisplayOrder: 2},
		},
	}
	sq := NewSurveyQuery(store)

	view, err := sq.Active(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(3), view.Survey.ID)
	assert.Len(t, view.Categories, 2)
	assert.Len(t, view.Questions, 2)
}

func TestActiveNoSurvey(t *testing.T) {
	store := &surveyQueryStoreStub{surveyErr: repository.ErrNoActiveSurvey}
	sq := NewSurveyQuery(store)

	_, err := sq.Active(context.Background())

	assert.ErrorIs(t, err, repository.ErrNoActiveSurvey)
}

func TestProgressComputesPercentage(t *testing.T) {
	now := time.Now()
	store := &surveyQueryStoreStub{
		progress: repository.Progress{ID: 1, UserID: 7, SurveyID: 3},
		answered: []repository.Answered{
			{QuestionID: 10, SubmittedAt: now},
			{QuestionID: 11, SubmittedAt: now},
		},
		total: 3,
	}
	sq := NewSurveyQuery(store)

	view, err := sq.Progress(context.Background(), 7, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.Equal(t, 2, view.AnsweredCount)
	assert.Equal(t, 67, view.Percentage)
}

func TestProgressEmptySurvey(t *testing.T) {
	store := &surveyQueryStoreStub{
		progress: repository.Progress{UserID: 7, SurveyID: 3},
	}
	sq := NewSurveyQuery(store)

	view, err := sq.Progress(context.Background(), 7, 3)

	require.NoError(t, err)
	assert.Zero(t, view.Percentage)
	assert.Empty(t, view.AnsweredQuestions)
}
