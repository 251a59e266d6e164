// Package rss serves a per-user RSS feed of imported questions so learners
// can follow their own question backlog from a feed reader.
package rss

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/profile"
	"github.com/Mishleyn/T-Prep/store"
)

const maxRSSItemCount = 100

// RSSService renders question feeds.
type RSSService struct {
	Profile *profile.Profile
	Store   *store.Store
}

// NewRSSService creates the RSS service.
func NewRSSService(p *profile.Profile, st *store.Store) *RSSService {
	return &RSSService{
		Profile: p,
		Store:   st,
	}
}

// RegisterRoutes registers the feed routes on the echo instance.
func (s *RSSService) RegisterRoutes(e *echo.Echo) {
	e.GET("/u/:id/rss.xml", s.GetUserRSS)
}

// GetUserRSS renders the user's questions as an RSS feed, newest first.
func (s *RSSService) GetUserRSS(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	userID := int32(id)

	user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	limit := maxRSSItemCount
	questions, err := s.Store.ListQuestions(ctx, &store.FindQuestion{
		CreatorID:     &userID,
		OrderByIDDesc: true,
		Limit:         &limit,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list questions")
	}

	baseURL := fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
	rss, err := s.generateRSS(baseURL, user, questions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate feed")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/xml")
	return c.String(http.StatusOK, rss)
}

func (s *RSSService) generateRSS(baseURL string, user *store.User, questions []*store.Question) (string, error) {
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Questions of %s", user.Email),
		Link:        &feeds.Link{Href: baseURL},
		Description: "Imported study questions, newest first",
		Created:     time.Unix(user.CreatedTs, 0),
	}

	// Fetched newest first so the limit keeps the most recent questions.
	items := make([]*feeds.Item, 0, len(questions))
	for _, question := range questions {
		items = append(items, &feeds.Item{
			Id:      question.UID,
			Title:   question.QuestionText,
			Link:    &feeds.Link{Href: fmt.Sprintf("%s/api/v1/questions?filter=uid==%q", baseURL, question.UID)},
			Created: time.Unix(question.CreatedTs, 0),
		})
	}
	feed.Items = items

	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "failed to render rss")
	}
	return rss, nil
}
