// Package v1 implements the HTTP API.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/Mishleyn/T-Prep/internal/profile"
	"github.com/Mishleyn/T-Prep/plugin/importer"
	"github.com/Mishleyn/T-Prep/plugin/ocr"
	"github.com/Mishleyn/T-Prep/plugin/textextract"
	"github.com/Mishleyn/T-Prep/server/ai"
	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/server/middleware"
	"github.com/Mishleyn/T-Prep/server/service/review"
	"github.com/Mishleyn/T-Prep/store"
)

// APIV1Service wires the HTTP handlers to the store and the plugins.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	ChatCompleter ai.ChatCompleter
	Importer      *importer.Importer
	OCRClient     *ocr.Client
	ReviewService *review.Service

	validate *validator.Validate
	// answerLimiter throttles answer generation per user. Generation hits a
	// paid upstream so a runaway client must not be able to drain the quota.
	answerLimiter *middleware.RateLimiter
	// ocrSemaphore limits concurrent OCR runs, tesseract is memory hungry.
	ocrSemaphore *semaphore.Weighted
}

// NewAPIV1Service creates the API service from the startup profile.
func NewAPIV1Service(secret string, p *profile.Profile, st *store.Store, completer ai.ChatCompleter) *APIV1Service {
	extractor := textextract.NewClient(&textextract.Config{TikaServerURL: p.TikaServerURL})
	return &APIV1Service{
		Secret:        secret,
		Profile:       p,
		Store:         st,
		ChatCompleter: completer,
		Importer:      importer.New(extractor),
		OCRClient: ocr.NewClient(&ocr.Config{
			TesseractPath: p.TesseractPath,
			DataPath:      p.TessdataPath,
			Languages:     p.OCRLanguages,
		}),
		ReviewService: review.NewService(st),
		validate:      validator.New(),
		answerLimiter: middleware.NewRateLimiter(rate.Limit(0.5), 5),
		ocrSemaphore:  semaphore.NewWeighted(3),
	}
}

// Close releases background resources held by the service.
func (s *APIV1Service) Close() {
	s.answerLimiter.Close()
}

// RegisterRoutes registers the API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	// Public endpoints.
	g.POST("/register", s.Register)
	g.POST("/token", s.SignIn)

	// Authenticated endpoints.
	authed := g.Group("", s.AuthMiddleware)
	authed.POST("/import-questions", s.ImportQuestions)
	authed.GET("/questions", s.ListQuestions)
	authed.POST("/generate-answer", s.GenerateAnswer)
	authed.POST("/ocr", s.ExtractImageText)
	authed.POST("/start-review", s.StartReview)
	authed.GET("/reviews", s.ListReviews)
	authed.DELETE("/reviews", s.CancelReviews)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler renders APIError values as coded JSON responses and hides the
// detail of everything else behind a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if apiErr, ok := err.(*apierrors.APIError); ok {
		status := apiErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "path", c.Path(), "error", apiErr)
		}
		_ = c.JSON(status, errorResponse{Code: string(apiErr.Code), Message: apiErr.Message})
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(httpErr.Code, errorResponse{Code: string(apierrors.ErrCodeInternal), Message: http.StatusText(httpErr.Code)})
		return
	}

	slog.Error("unhandled error", "path", c.Path(), "error", err)
	_ = c.JSON(http.StatusInternalServerError, errorResponse{Code: string(apierrors.ErrCodeInternal), Message: "internal server error"})
}
