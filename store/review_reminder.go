package store

import (
	"context"
)

// ReminderStatus is the delivery status of a review reminder.
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "PENDING"
	ReminderStatusSent      ReminderStatus = "SENT"
	ReminderStatusFailed    ReminderStatus = "FAILED"
	ReminderStatusCancelled ReminderStatus = "CANCELLED"
)

// ReviewReminder is one timer entry of a spaced-repetition review plan.
// Each start-review call creates three rows, one per stage; the rows are
// independently addressable so a plan can be cancelled, but scheduling never
// deduplicates against earlier calls.
type ReviewReminder struct {
	ID         int32
	UID        string
	QuestionID int32
	CreatedTs  int64
	// Stage is the position in the review cadence, 1 through 3.
	Stage int32
	// FireAt is the unix timestamp the reminder becomes due.
	FireAt  int64
	Status  ReminderStatus
	Message string
	SentTs  *int64
}

// FindReviewReminder is the find condition for review reminder.
type FindReviewReminder struct {
	ID         *int32
	UID        *string
	QuestionID *int32
	Status     *ReminderStatus

	// FireBefore selects reminders due at or before the given unix timestamp.
	FireBefore *int64

	// Pagination
	Limit *int
}

// UpdateReviewReminder is the update request for review reminder.
type UpdateReviewReminder struct {
	ID     int32
	Status *ReminderStatus
	SentTs *int64
}

func (s *Store) CreateReviewReminder(ctx context.Context, create *ReviewReminder) (*ReviewReminder, error) {
	return s.driver.CreateReviewReminder(ctx, create)
}

func (s *Store) ListReviewReminders(ctx context.Context, find *FindReviewReminder) ([]*ReviewReminder, error) {
	return s.driver.ListReviewReminders(ctx, find)
}

func (s *Store) UpdateReviewReminder(ctx context.Context, update *UpdateReviewReminder) error {
	return s.driver.UpdateReviewReminder(ctx, update)
}
