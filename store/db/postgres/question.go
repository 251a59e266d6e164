package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mishleyn/T-Prep/store"
)

func (d *DB) CreateQuestion(ctx context.Context, create *store.Question) (*store.Question, error) {
	fields := []string{"uid", "creator_id", "question_text"}
	placeholderValues := []any{create.UID, create.CreatorID, create.QuestionText}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO question (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return create, nil
}

func (d *DB) ListQuestions(ctx context.Context, find *store.FindQuestion) ([]*store.Question, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "question.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "question.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "question.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	order := "ASC"
	if find.OrderByIDDesc {
		order = "DESC"
	}
	query := `
		SELECT id, uid, creator_id, created_ts, question_text
		FROM question
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY question.id ` + order

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Question, 0)
	for rows.Next() {
		var question store.Question
		if err := rows.Scan(
			&question.ID,
			&question.UID,
			&question.CreatorID,
			&question.CreatedTs,
			&question.QuestionText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		list = append(list, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
