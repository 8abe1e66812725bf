package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		SessionID:    "s1",
		ActivityType: activity.TypeDatasetLoaded,
		Summary:      "loaded houses.csv",
	}

	repo.On("Log", ctx, entry).Return(nil)
	sessionID := "s1"
	repo.On("List", ctx, activity.ListActivityOptions{SessionID: &sessionID, Limit: 50}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsIncompleteEntries(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	ctx := context.Background()

	require.ErrorIs(t, svc.LogActivity(ctx, nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(ctx, &activity.ActivityEntry{ActivityType: activity.TypePrediction}), activity.ErrInvalidInput)
}

func TestActivityService_WrapsRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	err := svc.LogActivity(ctx, &activity.ActivityEntry{SessionID: "s1", ActivityType: activity.TypePrediction})
	require.ErrorContains(t, err, "logging activity: disk full")
}

func TestDetails(t *testing.T) {
	require.Equal(t, `{"rows":3}`, activity.Details(map[string]int{"rows": 3}))
	require.Equal(t, "", activity.Details(nil))
	require.Equal(t, "", activity.Details(func() {}))
}
