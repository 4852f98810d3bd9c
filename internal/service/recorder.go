package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/haanng/pulse-survey/internal/queue"
	"github.com/haanng/pulse-survey/internal/repository"
)

// RecorderStore is the slice of the persistence gateway the response
// recorder depends on.
type RecorderStore interface {
	SurveyByID(ctx context.Context, id uint64) (repository.Survey, error)
	QuestionInSurvey(ctx context.Context, questionID, surveyID uint64) (repository.Question, error)
	UpsertResponse(ctx context.Context, userID, questionID, surveyID uint64, score *int, text *string) error
	TouchProgress(ctx context.Context, userID, surveyID, lastQuestionID uint64) error
	QuestionCount(ctx context.Context, surveyID uint64) (int, error)
	AnsweredCount(ctx context.Context, userID, surveyID uint64) (int, error)
	RequiredQuestionIDs(ctx context.Context, surveyID uint64) ([]uint64, error)
	AnsweredQuestionIDs(ctx context.Context, userID, surveyID uint64) ([]uint64, error)
	CompleteProgress(ctx context.Context, userID, surveyID uint64) error
	MarkUserCompleted(ctx context.Context, userID uint64) error
}

// EventPublisher emits domain events to the message broker.
type EventPublisher interface {
	PublishResponseRecorded(ctx context.Context, event queue.ResponseRecordedEvent) error
}

// SubmitInput carries one answer.
type SubmitInput struct {
	SurveyID   uint64
	QuestionID uint64
	Score      *int
	Text       *string
}

// ProgressSummary is the recomputed progress returned after each submission.
type ProgressSummary struct {
	Total      int `json:"total"`
	Answered   int `json:"answered"`
	Percentage int `json:"percentage"`
}

// Recorder accepts answers one at a time, upserts them, keeps the progress
// row current and finalizes survey completion.  Events is optional; when set,
// every recorded answer is mirrored to the export pipeline on a detached
// goroutine whose failures are logged and never surfaced.
type Recorder struct {
	store  RecorderStore
	events EventPublisher
}

func NewRecorder(store RecorderStore, events EventPublisher) *Recorder {
	return &Recorder{store: store, events: events}
}

// Submit validates and records a single answer, then returns the user's
// recomputed progress for the survey.
func (r *Recorder) Submit(ctx context.Context, userID uint64, in SubmitInput) (ProgressSummary, error) {
	q, err := r.store.QuestionInSurvey(ctx, in.QuestionID, in.SurveyID)
	if err != nil {
		return ProgressSummary{}, err
	}
	if q.Type == "likert" && in.Score == nil {
		return ProgressSummary{}, ErrScoreRequired
	}
	if in.Score != nil {
		survey, err := r.store.SurveyByID(ctx, in.SurveyID)
		if err != nil {
			return ProgressSummary{}, err
		}
		if *in.Score < 1 || *in.Score > survey.LikertScale {
			return ProgressSummary{}, fmt.Errorf("%w: survey uses a 1-%d scale", ErrScoreOutOfRange, survey.LikertScale)
		}
	}

	if err := r.store.UpsertResponse(ctx, userID, in.QuestionID, in.SurveyID, in.Score, in.Text); err != nil {
		return ProgressSummary{}, err
	}
	if err := r.store.TouchProgress(ctx, userID, in.SurveyID, in.QuestionID); err != nil {
		return ProgressSummary{}, err
	}

	total, err := r.store.QuestionCount(ctx, in.SurveyID)
	if err != nil {
		return ProgressSummary{}, err
	}
	answered, err := r.store.AnsweredCount(ctx, userID, in.SurveyID)
	if err != nil {
		return ProgressSummary{}, err
	}

	// Mirror to the export pipeline without touching the request lifecycle.
	if r.events != nil {
		ev := queue.ResponseRecordedEvent{
			UserID:     userID,
			QuestionID: in.QuestionID,
			SurveyID:   in.SurveyID,
			RecordedAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			if err := r.events.PublishResponseRecorded(context.Background(), ev); err != nil {
				log.Printf("recorder: background export publish failed: %v", err)
			}
		}()
	}

	return ProgressSummary{
		Total:      total,
		Answered:   answered,
		Percentage: roundPct(answered, total),
	}, nil
}

// Complete finalizes the user's survey.  Every required question must be
// answered; otherwise an IncompleteError carrying the missing count is
// returned and nothing changes.  Completion is idempotent: both writes are
// absolute sets, so repeating them is harmless.
func (r *Recorder) Complete(ctx context.Context, userID, surveyID uint64) (time.Time, error) {
	required, err := r.store.RequiredQuestionIDs(ctx, surveyID)
	if err != nil {
		return time.Time{}, err
	}
	answered, err := r.store.AnsweredQuestionIDs(ctx, userID, surveyID)
	if err != nil {
		return time.Time{}, err
	}

	answeredSet := make(map[uint64]bool, len(answered))
	for _, id := range answered {
		answeredSet[id] = true
	}
	missing := 0
	for _, id := range required {
		if !answeredSet[id] {
			missing++
		}
	}
	if missing > 0 {
		return time.Time{}, &IncompleteError{Unanswered: missing}
	}

	if err := r.store.CompleteProgress(ctx, userID, surveyID); err != nil {
		return time.Time{}, err
	}
	if err := r.store.MarkUserCompleted(ctx, userID); err != nil {
		return time.Time{}, err
	}
	return time.Now().UTC(), nil
}
