// Package reminder delivers due review reminders. It is the asynchronous
// execution substrate behind the review scheduler: reminders are accepted as
// rows with a fire-at timestamp, and a background loop delivers them once due.
// The request that created a reminder never waits for its delivery.
package reminder

import (
	"context"
	"time"

	"github.com/Mishleyn/T-Prep/store"
)

// Channel identifies a notification delivery channel.
type Channel string

const (
	ChannelLog     Channel = "log"
	ChannelWebhook Channel = "webhook"
)

// Store is the persistence surface the delivery loop needs.
type Store interface {
	// GetDueReminders returns pending reminders with fire_at <= before.
	GetDueReminders(ctx context.Context, before int64, limit int) ([]*store.ReviewReminder, error)
	// MarkSent transitions a reminder to SENT.
	MarkSent(ctx context.Context, id int32, sentTs int64) error
	// MarkFailed transitions a reminder to FAILED.
	MarkFailed(ctx context.Context, id int32) error
}

// ChannelSender sends one notification through a concrete channel.
type ChannelSender interface {
	Send(ctx context.Context, reminder *store.ReviewReminder) error
	Name() string
}

// StoreAdapter implements Store on the main *store.Store.
type StoreAdapter struct {
	store *store.Store
}

// NewStoreAdapter wraps the main store for the delivery loop.
func NewStoreAdapter(s *store.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

func (a *StoreAdapter) GetDueReminders(ctx context.Context, before int64, limit int) ([]*store.ReviewReminder, error) {
	pending := store.ReminderStatusPending
	return a.store.ListReviewReminders(ctx, &store.FindReviewReminder{
		Status:     &pending,
		FireBefore: &before,
		Limit:      &limit,
	})
}

func (a *StoreAdapter) MarkSent(ctx context.Context, id int32, sentTs int64) error {
	sent := store.ReminderStatusSent
	return a.store.UpdateReviewReminder(ctx, &store.UpdateReviewReminder{
		ID:     id,
		Status: &sent,
		SentTs: &sentTs,
	})
}

func (a *StoreAdapter) MarkFailed(ctx context.Context, id int32) error {
	failed := store.ReminderStatusFailed
	return a.store.UpdateReviewReminder(ctx, &store.UpdateReviewReminder{
		ID:     id,
		Status: &failed,
	})
}

// nowFunc is swapped in tests.
var nowFunc = time.Now
