package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Mishleyn/T-Prep/store"
)

func (d *DB) CreateReviewReminder(ctx context.Context, create *store.ReviewReminder) (*store.ReviewReminder, error) {
	fields := []string{"uid", "question_id", "stage", "fire_at", "status", "message"}
	placeholderValues := []any{
		create.UID, create.QuestionID, create.Stage,
		create.FireAt, create.Status, create.Message,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO review_reminder (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create review reminder: %w", err)
	}

	return create, nil
}

func (d *DB) ListReviewReminders(ctx context.Context, find *store.FindReviewReminder) ([]*store.ReviewReminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "review_reminder.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "review_reminder.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.QuestionID; v != nil {
		where, args = append(where, "review_reminder.question_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "review_reminder.status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.FireBefore; v != nil {
		where, args = append(where, "review_reminder.fire_at <= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, question_id, created_ts, stage, fire_at, status, message, sent_ts
		FROM review_reminder
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY review_reminder.fire_at ASC, review_reminder.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query review reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ReviewReminder, 0)
	for rows.Next() {
		var reminder store.ReviewReminder
		var sentTs sql.NullInt64
		if err := rows.Scan(
			&reminder.ID,
			&reminder.UID,
			&reminder.QuestionID,
			&reminder.CreatedTs,
			&reminder.Stage,
			&reminder.FireAt,
			&reminder.Status,
			&reminder.Message,
			&sentTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review reminder: %w", err)
		}
		if sentTs.Valid {
			reminder.SentTs = &sentTs.Int64
		}
		list = append(list, &reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateReviewReminder(ctx context.Context, update *store.UpdateReviewReminder) error {
	set, args := []string{}, []any{}

	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.SentTs; v != nil {
		set, args = append(set, "sent_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE review_reminder SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update review reminder: %w", err)
	}

	return nil
}
