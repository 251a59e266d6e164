package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/server/service/review"
	"github.com/Mishleyn/T-Prep/store"
)

type startReviewRequest struct {
	QuestionID int32 `json:"question_id" validate:"required,gt=0"`
}

type startReviewResponse struct {
	Message   string                    `json:"message"`
	Reminders []*reviewReminderResponse `json:"reminders"`
}

type reviewReminderResponse struct {
	ID         int32  `json:"id"`
	UID        string `json:"uid"`
	QuestionID int32  `json:"question_id"`
	Stage      int32  `json:"stage"`
	FireAt     int64  `json:"fire_at"`
	Status     string `json:"status"`
	SentTs     *int64 `json:"sent_ts,omitempty"`
}

// StartReview schedules the review cadence for a question. Every call
// schedules a fresh plan; nothing is deduplicated.
func (s *APIV1Service) StartReview(c echo.Context) error {
	ctx := c.Request().Context()

	request := &startReviewRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed start-review request")
	}
	if err := s.validate.Struct(request); err != nil {
		return apierrors.InvalidArgument(err.Error())
	}

	reminders, err := s.ReviewService.StartReview(ctx, request.QuestionID)
	if err != nil {
		if errors.Is(err, review.ErrQuestionNotFound) {
			return apierrors.NotFound("question not found")
		}
		return apierrors.Internal("failed to schedule review", err)
	}

	response := &startReviewResponse{Message: "Review scheduled"}
	for _, reminder := range reminders {
		response.Reminders = append(response.Reminders, convertReminder(reminder))
	}
	return c.JSON(http.StatusOK, response)
}

// ListReviews returns the reminders of a question, all statuses.
func (s *APIV1Service) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	questionID, err := parseQuestionIDParam(c)
	if err != nil {
		return err
	}

	reminders, err := s.ReviewService.ListByQuestion(ctx, questionID)
	if err != nil {
		return apierrors.Internal("failed to list reviews", err)
	}

	converted := make([]*reviewReminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		converted = append(converted, convertReminder(reminder))
	}
	return c.JSON(http.StatusOK, listReviewsResponse{Reminders: converted})
}

type listReviewsResponse struct {
	Reminders []*reviewReminderResponse `json:"reminders"`
}

type cancelReviewsResponse struct {
	Cancelled int `json:"cancelled"`
}

// CancelReviews marks every pending reminder of a question cancelled.
func (s *APIV1Service) CancelReviews(c echo.Context) error {
	ctx := c.Request().Context()

	questionID, err := parseQuestionIDParam(c)
	if err != nil {
		return err
	}

	cancelled, err := s.ReviewService.CancelByQuestion(ctx, questionID)
	if err != nil {
		return apierrors.Internal("failed to cancel reviews", err)
	}
	return c.JSON(http.StatusOK, cancelReviewsResponse{Cancelled: cancelled})
}

func parseQuestionIDParam(c echo.Context) (int32, error) {
	raw := c.QueryParam("question_id")
	if raw == "" {
		return 0, apierrors.InvalidArgument("question_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, apierrors.InvalidArgument("question_id must be a positive integer")
	}
	return int32(id), nil
}

func convertReminder(reminder *store.ReviewReminder) *reviewReminderResponse {
	return &reviewReminderResponse{
		ID:         reminder.ID,
		UID:        reminder.UID,
		QuestionID: reminder.QuestionID,
		Stage:      reminder.Stage,
		FireAt:     reminder.FireAt,
		Status:     string(reminder.Status),
		SentTs:     reminder.SentTs,
	}
}
