package service

import (
	"context"

	"github.com/haanng/pulse-survey/internal/repository"
)

// ReporterStore is the slice of the persistence gateway the administrative
// aggregator depends on.
type ReporterStore interface {
	NonAdminUsers(ctx context.Context) ([]repository.UserOverviewRow, error)
	UserStats(ctx context.Context) (repository.UserStats, error)
	CompletedUserCount(ctx context.Context, surveyID uint64) (int, error)
	CategoryAverages(ctx context.Context, surveyID uint64) ([]repository.CategoryScore, error)
	QuestionStats(ctx context.Context, surveyID uint64) ([]repository.QuestionStat, error)
}

// UserStatistics is the completion summary shown with the user listing.
type UserStatistics struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completion_rate"`
}

// UserListing is the admin user overview.
type UserListing struct {
	Users      []repository.UserOverviewRow `json:"users"`
	Statistics UserStatistics               `json:"statistics"`
}

// SurveySummary is the cross-cutting report for one survey.
type SurveySummary struct {
	TotalUsers              int                        `json:"total_users"`
	Completed               int                        `json:"completed"`
	Pending                 int                        `json:"pending"`
	CompletionRate          int                        `json:"completion_rate"`
	AverageScoresByCategory []repository.CategoryScore `json:"average_scores_by_category"`
	QuestionStatistics      []repository.QuestionStat  `json:"question_statistics"`
}

// Reporter builds the administrative aggregates.
type Reporter struct {
	store ReporterStore
}

func NewReporter(store ReporterStore) *Reporter { return &Reporter{store: store} }

// UserOverview lists all non-admin users with their completion statistics.
func (r *Reporter) UserOverview(ctx context.Context) (UserListing, error) {
	users, err := r.store.NonAdminUsers(ctx)
	if err != nil {
		return UserListing{}, err
	}
	stats, err := r.store.UserStats(ctx)
	if err != nil {
		return UserListing{}, err
	}
	return UserListing{
		Users: users,
		Statistics: UserStatistics{
			Total:          stats.Total,
			Completed:      stats.Completed,
			Pending:        stats.Pending,
			CompletionRate: roundPct(stats.Completed, stats.Total),
		},
	}, nil
}

// Summary assembles the four independent aggregates for a survey.  Questions
// without responses still appear in the per-question statistics with nil
// aggregates.
func (r *Reporter) Summary(ctx context.Context, surveyID uint64) (SurveySummary, error) {
	stats, err := r.store.UserStats(ctx)
	if err != nil {
		return SurveySummary{}, err
	}
	completed, err := r.store.CompletedUserCount(ctx, surveyID)
	if err != nil {
		return SurveySummary{}, err
	}
	categories, err := r.store.CategoryAverages(ctx, surveyID)
	if err != nil {
		return SurveySummary{}, err
	}
	questions, err := r.store.QuestionStats(ctx, surveyID)
	if err != nil {
		return SurveySummary{}, err
	}
	return SurveySummary{
		TotalUsers:              stats.Total,
		Completed:               completed,
		Pending:                 stats.Total - completed,
		CompletionRate:          roundPct(completed, stats.Total),
		AverageScoresByCategory: categories,
		QuestionStatistics:      questions,
	}, nil
}
