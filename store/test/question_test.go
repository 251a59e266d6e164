package teststore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/store"
)

func TestQuestionStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{Email: "q@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	first, err := ts.CreateQuestion(ctx, &store.Question{
		UID:          util.GenUID(),
		CreatorID:    user.ID,
		QuestionText: "What is spaced repetition?",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := ts.CreateQuestion(ctx, &store.Question{
		UID:          util.GenUID(),
		CreatorID:    user.ID,
		QuestionText: "When did the Roman Empire fall?",
	})
	require.NoError(t, err)

	list, err := ts.ListQuestions(ctx, &store.FindQuestion{CreatorID: &user.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Import order is preserved.
	require.Equal(t, first.QuestionText, list[0].QuestionText)
	require.Equal(t, second.QuestionText, list[1].QuestionText)

	got, err := ts.GetQuestion(ctx, &store.FindQuestion{ID: &first.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, first.UID, got.UID)

	missingID := int32(9999)
	none, err := ts.GetQuestion(ctx, &store.FindQuestion{ID: &missingID})
	require.NoError(t, err)
	require.Nil(t, none)

	// Descending order with a limit keeps the newest questions.
	limit := 1
	newest, err := ts.ListQuestions(ctx, &store.FindQuestion{
		CreatorID:     &user.ID,
		OrderByIDDesc: true,
		Limit:         &limit,
	})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	require.Equal(t, second.QuestionText, newest[0].QuestionText)
}

func TestAnswerStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{Email: "a@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	question, err := ts.CreateQuestion(ctx, &store.Question{
		UID:          util.GenUID(),
		CreatorID:    user.ID,
		QuestionText: "Define osmosis.",
	})
	require.NoError(t, err)

	// Multiple answers per question are allowed (regeneration history).
	for i := 0; i < 2; i++ {
		_, err := ts.CreateAnswer(ctx, &store.Answer{
			QuestionID: question.ID,
			AnswerText: "Movement of solvent across a membrane.",
			Model:      "gpt-3.5-turbo",
		})
		require.NoError(t, err)
	}

	answers, err := ts.ListAnswers(ctx, &store.FindAnswer{QuestionID: &question.ID})
	require.NoError(t, err)
	require.Len(t, answers, 2)
}
