// Package filter evaluates CEL filter expressions against questions.
package filter

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/store"
)

// QuestionFilter is a compiled filter expression over question fields.
// Supported identifiers: question_text, uid, creator_id, created_ts.
type QuestionFilter struct {
	program cel.Program
}

// Parse compiles the filter expression. The expression must evaluate to bool.
func Parse(expression string) (*QuestionFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("question_text", cel.StringType),
		cel.Variable("uid", cel.StringType),
		cel.Variable("creator_id", cel.IntType),
		cel.Variable("created_ts", cel.IntType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "invalid filter expression")
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.New("filter expression must evaluate to a boolean")
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter program")
	}
	return &QuestionFilter{program: program}, nil
}

// Match reports whether the question satisfies the filter.
func (f *QuestionFilter) Match(question *store.Question) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"question_text": question.QuestionText,
		"uid":           question.UID,
		"creator_id":    int64(question.CreatorID),
		"created_ts":    question.CreatedTs,
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to evaluate filter")
	}
	return isTrue(out), nil
}

func isTrue(v ref.Val) bool {
	b, ok := v.Value().(bool)
	return ok && b
}
