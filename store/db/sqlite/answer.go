package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mishleyn/T-Prep/store"
)

func (d *DB) CreateAnswer(ctx context.Context, create *store.Answer) (*store.Answer, error) {
	fields := []string{"question_id", "answer_text", "model"}
	placeholderValues := []any{create.QuestionID, create.AnswerText, create.Model}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO answer (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	return create, nil
}

func (d *DB) ListAnswers(ctx context.Context, find *store.FindAnswer) ([]*store.Answer, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "answer.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.QuestionID; v != nil {
		where, args = append(where, "answer.question_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, question_id, created_ts, answer_text, model
		FROM answer
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY answer.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Answer, 0)
	for rows.Next() {
		var answer store.Answer
		if err := rows.Scan(
			&answer.ID,
			&answer.QuestionID,
			&answer.CreatedTs,
			&answer.AnswerText,
			&answer.Model,
		); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		list = append(list, &answer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
