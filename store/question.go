package store

import (
	"context"
)

// Question is the object representing an imported study question.
type Question struct {
	ID           int32
	UID          string
	CreatorID    int32
	CreatedTs    int64
	QuestionText string
}

// FindQuestion is the find condition for question.
type FindQuestion struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	// OrderByIDDesc returns newest questions first.
	OrderByIDDesc bool

	// Pagination
	Limit  *int
	Offset *int
}

func (s *Store) CreateQuestion(ctx context.Context, create *Question) (*Question, error) {
	return s.driver.CreateQuestion(ctx, create)
}

func (s *Store) ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error) {
	return s.driver.ListQuestions(ctx, find)
}

// GetQuestion gets a question matching the find condition, or nil when absent.
func (s *Store) GetQuestion(ctx context.Context, find *FindQuestion) (*Question, error) {
	list, err := s.driver.ListQuestions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
