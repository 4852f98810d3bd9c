package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/queue"
	"github.com/haanng/pulse-survey/internal/repository"
)

type recorderStoreStub struct {
	survey      repository.Survey
	question    repository.Question
	questionErr error

	total    int
	answered int
	required []uint64
	done     []uint64

	upserts    int
	touched    []uint64
	completed  bool
	userMarked bool
}

func (s *recorderStoreStub) SurveyByID(_ context.Context, id uint64) (repository.Survey, error) {
	return s.survey, nil
}

func (s *recorderStoreStub) QuestionInSurvey(_ context.Context, questionID, surveyID uint64) (repository.Question, error) {
	if s.questionErr != nil {
		return repository.Question{}, s.questionErr
	}
	return s.question, nil
}

func (s *recorderStoreStub) UpsertResponse(_ context.Context, _, _, _ uint64, _ *int, _ *string) error {
	s.upserts++
	return nil
}

func (s *recorderStoreStub) TouchProgress(_ context.Context, _, _, lastQuestionID uint64) error {
	s.touched = append(s.touched, lastQuestionID)
	return nil
}

func (s *recorderStoreStub) QuestionCount(_ context.Context, _ uint64) (int, error) {
	return s.total, nil
}

func (s *recorderStoreStub) AnsweredCount(_ context.Context, _, _ uint64) (int, error) {
	return s.answered, nil
}

func (s *recorderStoreStub) RequiredQuestionIDs(_ context.Context, _ uint64) ([]uint64, error) {
	return s.required, nil
}

func (s *recorderStoreStub) AnsweredQuestionIDs(_ context.Context, _, _ uint64) ([]uint64, error) {
	return s.done, nil
}

func (s *recorderStoreStub) CompleteProgress(_ context.Context, _, _ uint64) error {
	s.completed = true
	return nil
}

func (s *recorderStoreStub) MarkUserCompleted(_ context.Context, _ uint64) error {
	s.userMarked = true
	return nil
}

type publisherStub struct {
	events chan queue.ResponseRecordedEvent
}

func (p *publisherStub) PublishResponseRecorded(_ context.Context, ev queue.ResponseRecordedEvent) error {
	p.events <- ev
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func likert(scale int) repository.Survey {
	return repository.Survey{ID: 1, LikertScale: scale, IsActive: true}
}

func TestSubmitLikertRequiresScore(t *testing.T) {
	store := &recorderStoreStub{
		survey:   likert(5),
		question: repository.Question{ID: 10, SurveyID: 1, Type: "likert"},
	}
	rec := NewRecorder(store, nil)

	_, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 10})

	assert.ErrorIs(t, err, ErrScoreRequired)
	assert.Zero(t, store.upserts)
}

func TestSubmitScoreOutsideScale(t *testing.T) {
	store := &recorderStoreStub{
		survey:   likert(5),
		question: repository.Question{ID: 10, SurveyID: 1, Type: "likert"},
	}
	rec := NewRecorder(store, nil)

	_, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 10, Score: intPtr(6)})

	assert.ErrorIs(t, err, ErrScoreOutOfRange)
	assert.Contains(t, err.Error(), "1-5 scale")
	assert.Zero(t, store.upserts)
}

func TestSubmitScoreAtScaleBoundary(t *testing.T) {
	store := &recorderStoreStub{
		survey:   likert(7),
		question: repository.Question{ID: 10, SurveyID: 1, Type: "likert"},
		total:    4, answered: 2,
	}
	rec := NewRecorder(store, nil)

	progress, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 10, Score: intPtr(7)})

	require.NoError(t, err)
	assert.Equal(t, 1, store.upserts)
	assert.Equal(t, ProgressSummary{Total: 4, Answered: 2, Percentage: 50}, progress)
}

func TestSubmitUnknownQuestion(t *testing.T) {
	store := &recorderStoreStub{questionErr: repository.ErrQuestionNotFound}
	rec := NewRecorder(store, nil)

	_, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 99, Score: intPtr(3)})

	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
}

func TestSubmitTextAnswerSkipsScaleCheck(t *testing.T) {
	store := &recorderStoreStub{
		question: repository.Question{ID: 11, SurveyID: 1, Type: "text"},
		total:    3, answered: 1,
	}
	rec := NewRecorder(store, nil)

	progress, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 11, Text: strPtr("more coffee")})

	require.NoError(t, err)
	assert.Equal(t, 33, progress.Percentage)
	assert.Equal(t, []uint64{11}, store.touched)
}

func TestSubmitProgressRounding(t *testing.T) {
	cases := []struct {
		name     string
		answered int
		total    int
		want     int
	}{
		{"half", 1, 2, 50},
		{"third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"empty survey", 0, 0, 0},
		{"full", 5, 5, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &recorderStoreStub{
				question: repository.Question{ID: 10, SurveyID: 1, Type: "text"},
				total:    tc.total, answered: tc.answered,
			}
			rec := NewRecorder(store, nil)

			progress, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 10})

			require.NoError(t, err)
			assert.Equal(t, tc.want, progress.Percentage)
		})
	}
}

func TestSubmitPublishesRecordedEvent(t *testing.T) {
	store := &recorderStoreStub{
		question: repository.Question{ID: 10, SurveyID: 1, Type: "text"},
		total:    1, answered: 1,
	}
	pub := &publisherStub{events: make(chan queue.ResponseRecordedEvent, 1)}
	rec := NewRecorder(store, pub)

	_, err := rec.Submit(context.Background(), 7, SubmitInput{SurveyID: 1, QuestionID: 10})
	require.NoError(t, err)

	select {
	case ev := <-pub.events:
		assert.Equal(t, uint64(7), ev.UserID)
		assert.Equal(t, uint64(10), ev.QuestionID)
		assert.Equal(t, uint64(1), ev.SurveyID)
		assert.NotEmpty(t, ev.RecordedAt)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestCompleteRejectsMissingRequired(t *testing.T) {
	store := &recorderStoreStub{
		required: []uint64{1, 2, 3, 4},
		done:     []uint64{1, 3},
	}
	rec := NewRecorder(store, nil)

	_, err := rec.Complete(context.Background(), 7, 1)

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 2, incomplete.Unanswered)
	assert.False(t, store.completed)
	assert.False(t, store.userMarked)
}

func TestCompleteFinalizes(t *testing.T) {
	store := &recorderStoreStub{
		required: []uint64{1, 2},
		done:     []uint64{1, 2, 3},
	}
	rec := NewRecorder(store, nil)

	at, err := rec.Complete(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.False(t, at.IsZero())
	assert.True(t, store.completed)
	assert.True(t, store.userMarked)
}

func TestCompleteIsIdempotent(t *testing.T) {
	store := &recorderStoreStub{
		required: []uint64{1},
		done:     []uint64{1},
	}
	rec := NewRecorder(store, nil)

	_, err := rec.Complete(context.Background(), 7, 1)
	require.NoError(t, err)
	_, err = rec.Complete(context.Background(), 7, 1)
	require.NoError(t, err)
}
