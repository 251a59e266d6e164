package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate brings the schema up to date. It is idempotent.
	Migrate(ctx context.Context) error

	// Schema version stamping.
	GetSchemaVersion(ctx context.Context) (string, error)
	UpsertSchemaVersion(ctx context.Context, version string) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// Question model related methods.
	CreateQuestion(ctx context.Context, create *Question) (*Question, error)
	ListQuestions(ctx context.Context, find *FindQuestion) ([]*Question, error)

	// Answer model related methods.
	CreateAnswer(ctx context.Context, create *Answer) (*Answer, error)
	ListAnswers(ctx context.Context, find *FindAnswer) ([]*Answer, error)

	// ReviewReminder model related methods.
	CreateReviewReminder(ctx context.Context, create *ReviewReminder) (*ReviewReminder, error)
	ListReviewReminders(ctx context.Context, find *FindReviewReminder) ([]*ReviewReminder, error)
	UpdateReviewReminder(ctx context.Context, update *UpdateReviewReminder) error
}
