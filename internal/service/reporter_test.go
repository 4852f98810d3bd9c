package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haanng/pulse-survey/internal/repository"
)

type reporterStoreStub struct {
	users      []repository.UserOverviewRow
	stats      repository.UserStats
	completed  int
	categories []repository.CategoryScore
	questions  []repository.QuestionStat
}

func (s *reporterStoreStub) NonAdminUsers(_ context.Context) ([]repository.UserOverviewRow, error) {
	return s.users, nil
}

func (s *reporterStoreStub) UserStats(_ context.Context) (repository.UserStats, error) {
	return s.stats, nil
}

func (s *reporterStoreStub) CompletedUserCount(_ context.Context, _ uint64) (int, error) {
	return s.completed, nil
}

func (s *reporterStoreStub) CategoryAverages(_ context.Context, _ uint64) ([]repository.CategoryScore, error) {
	return s.categories, nil
}

func (s *reporterStoreStub) QuestionStats(_ context.Context, _ uint64) ([]repository.QuestionStat, error) {
	return s.questions, nil
}

func TestUserOverviewStatistics(t *testing.T) {
	store := &reporterStoreStub{
		users: []repository.UserOverviewRow{
			{User: repository.User{ID: 1, EmployeeID: "EMP001"}},
			{User: repository.User{ID: 2, EmployeeID: "EMP002"}},
			{User: repository.User{ID: 3, EmployeeID: "EMP003"}},
		},
		stats: repository.UserStats{Total: 3, Completed: 2, Pending: 1},
	}
	rep := NewReporter(store)

	listing, err := rep.UserOverview(context.Background())

	require.NoError(t, err)
	assert.Len(t, listing.Users, 3)
	assert.Equal(t, UserStatistics{Total: 3, Completed: 2, Pending: 1, CompletionRate: 67}, listing.Statistics)
}

func TestUserOverviewNoUsers(t *testing.T) {
	rep := NewReporter(&reporterStoreStub{})

	listing, err := rep.UserOverview(context.Background())

	require.NoError(t, err)
	assert.Zero(t, listing.Statistics.CompletionRate)
}

func TestSummaryAssemblesAggregates(t *testing.T) {
	avg := 4.2
	store := &reporterStoreStub{
		stats:     repository.UserStats{Total: 10},
		completed: 4,
		categories: []repository.CategoryScore{
			{Name: "Leadership", AvgScore: &avg, ResponseCount: 12},
		},
		questions: []repository.QuestionStat{
			{QuestionText: "I feel supported", AvgScore: &avg, ResponseCount: 6},
			{QuestionText: "Unanswered one"},
		},
	}
	rep := NewReporter(store)

	summary, err := rep.Summary(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalUsers)
	assert.Equal(t, 4, summary.Completed)
	assert.Equal(t, 6, summary.Pending)
	assert.Equal(t, 40, summary.CompletionRate)
	require.Len(t, summary.QuestionStatistics, 2)
	assert.Nil(t, summary.QuestionStatistics[1].AvgScore)
}

func TestSummaryEmptySurvey(t *testing.T) {
	rep := NewReporter(&reporterStoreStub{})

	summary, err := rep.Summary(context.Background(), 3)

	require.NoError(t, err)
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.Pending)
	assert.Empty(t, summary.AverageScoresByCategory)
}
