package teststore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/store"
)

func createTestQuestion(ctx context.Context, t *testing.T, ts *store.Store) *store.Question {
	user, err := ts.CreateUser(ctx, &store.User{Email: util.GenUID() + "@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	question, err := ts.CreateQuestion(ctx, &store.Question{
		UID:          util.GenUID(),
		CreatorID:    user.ID,
		QuestionText: "What year was the printing press invented?",
	})
	require.NoError(t, err)
	return question
}

func TestReviewReminderStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	question := createTestQuestion(ctx, t, ts)

	now := time.Now().Unix()
	offsets := []int64{1200, 28800, 86400}
	for i, offset := range offsets {
		_, err := ts.CreateReviewReminder(ctx, &store.ReviewReminder{
			UID:        util.GenUID(),
			QuestionID: question.ID,
			Stage:      int32(i + 1),
			FireAt:     now + offset,
			Status:     store.ReminderStatusPending,
			Message:    "Time to review",
		})
		require.NoError(t, err)
	}

	list, err := ts.ListReviewReminders(ctx, &store.FindReviewReminder{QuestionID: &question.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Ordered by fire_at ascending.
	require.Equal(t, int32(1), list[0].Stage)
	require.Equal(t, int32(3), list[2].Stage)

	// Nothing is due yet.
	pending := store.ReminderStatusPending
	due, err := ts.ListReviewReminders(ctx, &store.FindReviewReminder{
		Status:     &pending,
		FireBefore: &now,
	})
	require.NoError(t, err)
	require.Empty(t, due)

	// The first stage becomes due once its offset elapses.
	cutoff := now + 1200
	due, err = ts.ListReviewReminders(ctx, &store.FindReviewReminder{
		Status:     &pending,
		FireBefore: &cutoff,
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, int32(1), due[0].Stage)
}

func TestReviewReminderUpdate(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	question := createTestQuestion(ctx, t, ts)

	reminder, err := ts.CreateReviewReminder(ctx, &store.ReviewReminder{
		UID:        util.GenUID(),
		QuestionID: question.ID,
		Stage:      1,
		FireAt:     time.Now().Unix(),
		Status:     store.ReminderStatusPending,
	})
	require.NoError(t, err)
	require.Nil(t, reminder.SentTs)

	sent := store.ReminderStatusSent
	sentTs := time.Now().Unix()
	err = ts.UpdateReviewReminder(ctx, &store.UpdateReviewReminder{
		ID:     reminder.ID,
		Status: &sent,
		SentTs: &sentTs,
	})
	require.NoError(t, err)

	list, err := ts.ListReviewReminders(ctx, &store.FindReviewReminder{ID: &reminder.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, store.ReminderStatusSent, list[0].Status)
	require.NotNil(t, list[0].SentTs)
	require.Equal(t, sentTs, *list[0].SentTs)
}
