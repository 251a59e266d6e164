// Package server assembles the HTTP server and the background reminder loop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/profile"
	"github.com/Mishleyn/T-Prep/plugin/reminder"
	"github.com/Mishleyn/T-Prep/server/ai"
	apiv1 "github.com/Mishleyn/T-Prep/server/router/api/v1"
	"github.com/Mishleyn/T-Prep/server/router/rss"
	"github.com/Mishleyn/T-Prep/store"
)

// Server holds the echo instance and the background reminder scheduler.
type Server struct {
	e *echo.Echo

	Profile *profile.Profile
	Store   *store.Store

	apiV1Service      *apiv1.APIV1Service
	rssService        *rss.RSSService
	reminderScheduler *reminder.Scheduler
}

// NewServer creates the server from the validated startup profile.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apiv1.ErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
			} else {
				slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))
	e.Use(echomiddleware.CORS())

	s := &Server{
		e:       e,
		Profile: p,
		Store:   st,
	}

	completer, err := ai.NewProvider(ai.NewConfigFromProfile(p))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create answer provider")
	}

	s.apiV1Service = apiv1.NewAPIV1Service(p.Secret, p, st, completer)
	s.apiV1Service.RegisterRoutes(e)

	s.rssService = rss.NewRSSService(p, st)
	s.rssService.RegisterRoutes(e)

	dispatcher := reminder.NewDispatcher()
	dispatcher.Register(reminder.ChannelLog, reminder.NewLogSender(nil))
	if p.WebhookURL != "" {
		dispatcher.Register(reminder.ChannelWebhook, reminder.NewWebhookSender(p.WebhookURL))
	}
	s.reminderScheduler = reminder.NewScheduler(
		reminder.NewStoreAdapter(st),
		dispatcher,
		reminder.SchedulerConfig{Interval: p.ReminderInterval},
	)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	return s, nil
}

// Start launches the reminder scheduler and the HTTP listener.
func (s *Server) Start(ctx context.Context) error {
	s.reminderScheduler.Start(ctx)
	return s.e.Start(fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port))
}

// Shutdown stops the scheduler, drains the HTTP server, and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.reminderScheduler.Stop()
	s.apiV1Service.Close()

	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Printf("failed to shutdown server, error: %+v\n", err)
	}

	if err := s.Store.Close(); err != nil {
		fmt.Printf("failed to close database, error: %+v\n", err)
	}

	fmt.Printf("tprep stopped properly\n")
}

// GetEcho returns the underlying echo instance.
func (s *Server) GetEcho() *echo.Echo {
	return s.e
}
