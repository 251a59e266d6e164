package store

import (
	"context"
)

// Answer is the object representing a generated answer for a question.
// A question may accumulate multiple answers; each regeneration appends one.
type Answer struct {
	ID         int32
	QuestionID int32
	CreatedTs  int64
	AnswerText string
	Model      string
}

// FindAnswer is the find condition for answer.
type FindAnswer struct {
	ID         *int32
	QuestionID *int32
}

func (s *Store) CreateAnswer(ctx context.Context, create *Answer) (*Answer, error) {
	return s.driver.CreateAnswer(ctx, create)
}

func (s *Store) ListAnswers(ctx context.Context, find *FindAnswer) ([]*Answer, error) {
	return s.driver.ListAnswers(ctx, find)
}
