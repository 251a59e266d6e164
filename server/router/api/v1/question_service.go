package v1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/plugin/filter"
	"github.com/Mishleyn/T-Prep/plugin/importer"
	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/store"
)

// maxImportSize caps uploaded documents at 10 MiB.
const maxImportSize = 10 << 20

type questionResponse struct {
	ID           int32  `json:"id"`
	UID          string `json:"uid"`
	CreatedTs    int64  `json:"created_ts"`
	QuestionText string `json:"question_text"`
}

type importQuestionsResponse struct {
	Message   string              `json:"message"`
	Imported  int                 `json:"imported"`
	Questions []*questionResponse `json:"questions"`
}

// ImportQuestions parses an uploaded document into questions owned by the
// caller. Document order is preserved.
func (s *APIV1Service) ImportQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apierrors.InvalidArgument("file is required")
	}
	if fileHeader.Size > maxImportSize {
		return apierrors.InvalidArgument("file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apierrors.Internal("failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		return apierrors.Internal("failed to read uploaded file", err)
	}
	if len(data) > maxImportSize {
		return apierrors.InvalidArgument("file too large")
	}

	texts, err := s.Importer.Parse(ctx, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			return apierrors.UnsupportedFormat(err.Error())
		}
		return apierrors.Internal("failed to parse document", err)
	}

	questions := make([]*questionResponse, 0, len(texts))
	for _, text := range texts {
		question, err := s.Store.CreateQuestion(ctx, &store.Question{
			UID:          util.GenUID(),
			CreatorID:    user.ID,
			QuestionText: text,
		})
		if err != nil {
			return apierrors.Internal("failed to store question", err)
		}
		questions = append(questions, convertQuestion(question))
	}

	return c.JSON(http.StatusOK, importQuestionsResponse{
		Message:   fmt.Sprintf("Imported %d questions", len(questions)),
		Imported:  len(questions),
		Questions: questions,
	})
}

// ListQuestions returns the caller's questions, optionally narrowed by a CEL
// filter expression, e.g. question_text.contains("tcp").
func (s *APIV1Service) ListQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	questions, err := s.Store.ListQuestions(ctx, &store.FindQuestion{CreatorID: &user.ID})
	if err != nil {
		return apierrors.Internal("failed to list questions", err)
	}

	if expression := c.QueryParam("filter"); expression != "" {
		questionFilter, err := filter.Parse(expression)
		if err != nil {
			return apierrors.InvalidArgument(err.Error())
		}
		filtered := make([]*store.Question, 0, len(questions))
		for _, question := range questions {
			ok, err := questionFilter.Match(question)
			if err != nil {
				return apierrors.InvalidArgument(err.Error())
			}
			if ok {
				filtered = append(filtered, question)
			}
		}
		questions = filtered
	}

	converted := make([]*questionResponse, 0, len(questions))
	for _, question := range questions {
		converted = append(converted, convertQuestion(question))
	}
	return c.JSON(http.StatusOK, listQuestionsResponse{Questions: converted})
}

type listQuestionsResponse struct {
	Questions []*questionResponse `json:"questions"`
}

func convertQuestion(question *store.Question) *questionResponse {
	return &questionResponse{
		ID:           question.ID,
		UID:          question.UID,
		CreatedTs:    question.CreatedTs,
		QuestionText: question.QuestionText,
	}
}
