package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/store"
	teststore "github.com/Mishleyn/T-Prep/store/test"
)

func createTestQuestion(ctx context.Context, t *testing.T, ts *store.Store, text string) *store.Question {
	t.Helper()
	user, err := ts.CreateUser(ctx, &store.User{
		Email:        util.GenUID() + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	question, err := ts.CreateQuestion(ctx, &store.Question{
		UID:          util.GenUID(),
		CreatorID:    user.ID,
		QuestionText: text,
	})
	require.NoError(t, err)
	return question
}

func TestStartReviewCreatesThreeStages(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	svc := NewService(ts)

	fixed := time.Unix(1_700_000_000, 0)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	question := createTestQuestion(ctx, t, ts, "What is a monad?")

	reminders, err := svc.StartReview(ctx, question.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 3)

	for i, reminder := range reminders {
		require.Equal(t, int32(i+1), reminder.Stage)
		require.Equal(t, fixed.Unix()+StageOffsets[i], reminder.FireAt)
		require.Equal(t, store.ReminderStatusPending, reminder.Status)
		require.Contains(t, reminder.Message, "What is a monad?")
	}
	require.Equal(t, fixed.Unix()+1200, reminders[0].FireAt)
	require.Equal(t, fixed.Unix()+28800, reminders[1].FireAt)
	require.Equal(t, fixed.Unix()+86400, reminders[2].FireAt)
}

func TestStartReviewUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	svc := NewService(ts)

	_, err := svc.StartReview(ctx, 9999)
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestStartReviewDoesNotDeduplicate(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	svc := NewService(ts)

	question := createTestQuestion(ctx, t, ts, "Define entropy")

	_, err := svc.StartReview(ctx, question.ID)
	require.NoError(t, err)
	_, err = svc.StartReview(ctx, question.ID)
	require.NoError(t, err)

	all, err := svc.ListByQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Len(t, all, 6)
}

func TestCancelByQuestion(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	svc := NewService(ts)

	question := createTestQuestion(ctx, t, ts, "Define entropy")
	other := createTestQuestion(ctx, t, ts, "Other question")

	_, err := svc.StartReview(ctx, question.ID)
	require.NoError(t, err)
	_, err = svc.StartReview(ctx, other.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelByQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Equal(t, 3, cancelled)

	all, err := svc.ListByQuestion(ctx, question.ID)
	require.NoError(t, err)
	for _, reminder := range all {
		require.Equal(t, store.ReminderStatusCancelled, reminder.Status)
	}

	// The other question's plan is untouched.
	untouched, err := svc.ListByQuestion(ctx, other.ID)
	require.NoError(t, err)
	for _, reminder := range untouched {
		require.Equal(t, store.ReminderStatusPending, reminder.Status)
	}
}
