package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/store"
)

type generateAnswerRequest struct {
	QuestionID int32 `json:"question_id" validate:"required,gt=0"`
}

type answerResponse struct {
	ID         int32  `json:"id"`
	QuestionID int32  `json:"question_id"`
	CreatedTs  int64  `json:"created_ts"`
	AnswerText string `json:"answer"`
	Model      string `json:"model"`
}

// GenerateAnswer asks the chat model for an answer to the question and stores
// it. Repeated calls append new answers, earlier ones are kept.
func (s *APIV1Service) GenerateAnswer(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	if !s.answerLimiter.Allow(fmt.Sprintf("user:%d", user.ID)) {
		return apierrors.RateLimitExceeded("too many answer generations, slow down")
	}

	request := &generateAnswerRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed generate-answer request")
	}
	if err := s.validate.Struct(request); err != nil {
		return apierrors.InvalidArgument(err.Error())
	}

	question, err := s.Store.GetQuestion(ctx, &store.FindQuestion{ID: &request.QuestionID})
	if err != nil {
		return apierrors.Internal("failed to load question", err)
	}
	if question == nil {
		return apierrors.NotFound("question not found")
	}

	prompt := fmt.Sprintf("Answer the following study question concisely:\n\n%s", question.QuestionText)
	answerText, err := s.ChatCompleter.Chat(ctx, prompt)
	if err != nil {
		return apierrors.Internal("failed to generate answer", err)
	}

	answer, err := s.Store.CreateAnswer(ctx, &store.Answer{
		QuestionID: question.ID,
		AnswerText: answerText,
		Model:      s.ChatCompleter.Model(),
	})
	if err != nil {
		return apierrors.Internal("failed to store answer", err)
	}

	return c.JSON(http.StatusOK, &answerResponse{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		CreatedTs:  answer.CreatedTs,
		AnswerText: answer.AnswerText,
		Model:      answer.Model,
	})
}
