// Package review implements the spaced-repetition review plan.
//
// Starting a review for a question creates one reminder row per stage of a
// fixed cadence. Rows are independent timer entries: the background scheduler
// picks them up when due, and a plan can be cancelled by flipping the pending
// rows of a question. Repeated start calls stack additional plans on purpose.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/store"
)

// StageOffsets is the review cadence, seconds after the start call.
// 20 minutes, 8 hours, 24 hours.
var StageOffsets = []int64{1200, 28800, 86400}

var nowFunc = time.Now

// ErrQuestionNotFound is returned when the question to review does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// Service schedules and manages review plans.
type Service struct {
	store *store.Store
}

// NewService creates a review service backed by the store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// StartReview creates a reminder row for every stage of the cadence. The
// question must exist; ownership is not checked so shared questions can be
// reviewed by any authenticated user.
func (s *Service) StartReview(ctx context.Context, questionID int32) ([]*store.ReviewReminder, error) {
	question, err := s.store.GetQuestion(ctx, &store.FindQuestion{ID: &questionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load question")
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	now := nowFunc().Unix()
	reminders := make([]*store.ReviewReminder, 0, len(StageOffsets))
	for i, offset := range StageOffsets {
		reminder, err := s.store.CreateReviewReminder(ctx, &store.ReviewReminder{
			UID:        util.GenUID(),
			QuestionID: question.ID,
			Stage:      int32(i + 1),
			FireAt:     now + offset,
			Status:     store.ReminderStatusPending,
			Message:    fmt.Sprintf("Review question: %s", question.QuestionText),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create reminder for stage %d", i+1)
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

// CancelByQuestion marks every pending reminder of the question cancelled.
// It returns the number of reminders cancelled.
func (s *Service) CancelByQuestion(ctx context.Context, questionID int32) (int, error) {
	pending := store.ReminderStatusPending
	reminders, err := s.store.ListReviewReminders(ctx, &store.FindReviewReminder{
		QuestionID: &questionID,
		Status:     &pending,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list pending reminders")
	}

	cancelled := store.ReminderStatusCancelled
	for _, reminder := range reminders {
		if err := s.store.UpdateReviewReminder(ctx, &store.UpdateReviewReminder{
			ID:     reminder.ID,
			Status: &cancelled,
		}); err != nil {
			return 0, errors.Wrapf(err, "failed to cancel reminder %d", reminder.ID)
		}
	}
	return len(reminders), nil
}

// ListByQuestion returns every reminder of the question, all statuses.
func (s *Service) ListByQuestion(ctx context.Context, questionID int32) ([]*store.ReviewReminder, error) {
	return s.store.ListReviewReminders(ctx, &store.FindReviewReminder{QuestionID: &questionID})
}
