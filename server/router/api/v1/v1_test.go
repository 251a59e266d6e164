package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/internal/profile"
	teststore "github.com/Mishleyn/T-Prep/store/test"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Chat(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	st := teststore.NewTestingStore(ctx, t)

	p := &profile.Profile{Mode: "dev", TikaServerURL: "http://localhost:9998"}
	service := NewAPIV1Service("test-secret", p, st, &fakeCompleter{reply: "Generated answer text."})

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	service.RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(service.Close)
	return srv
}

func registerAndSignIn(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": "hunter22"})
	resp, err := http.Post(srv.URL+"/api/v1/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form := url.Values{"username": {email}, "password": {"hunter22"}}
	resp, err = http.PostForm(srv.URL+"/api/v1/token", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&token))
	require.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func uploadFile(t *testing.T, srv *httptest.Server, path, token, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e.Code
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerAndSignIn(t, srv, "dup@example.com")

	body, _ := json.Marshal(map[string]string{"email": "dup@example.com", "password": "hunter22"})
	resp, err := http.Post(srv.URL+"/api/v1/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "ALREADY_EXISTS", decodeError(t, resp))
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "not-an-email", "password": "hunter22"})
	resp, err := http.Post(srv.URL+"/api/v1/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignInWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndSignIn(t, srv, "login@example.com")

	form := url.Values{"username": {"login@example.com"}, "password": {"wrong"}}
	resp, err := http.PostForm(srv.URL+"/api/v1/token", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp))
}

func TestAuthenticatedEndpointsRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/start-review", "", map[string]int{"question_id": 1})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHENTICATED", decodeError(t, resp))
}

func TestImportQuestionsPlainText(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "import@example.com")

	content := []byte("What is TCP?\n\nWhat is UDP?\nWhat is QUIC?\n")
	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "questions.txt", content)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Imported  int `json:"imported"`
		Questions []struct {
			ID           int32  `json:"id"`
			QuestionText string `json:"question_text"`
		} `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, 3, result.Imported)
	require.Equal(t, "What is TCP?", result.Questions[0].QuestionText)
	require.Equal(t, "What is UDP?", result.Questions[1].QuestionText)
	require.Equal(t, "What is QUIC?", result.Questions[2].QuestionText)
}

func TestImportQuestionsUnsupportedFormat(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "pdf@example.com")

	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "notes.pdf", []byte("%PDF-1.4"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "UNSUPPORTED_FORMAT", decodeError(t, resp))
}

func TestListQuestionsWithFilter(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "filter@example.com")

	content := []byte("Define entropy\nWhat is TCP?\n")
	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "q.txt", content)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	filter := url.QueryEscape(`question_text.contains("entropy")`)
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/questions?filter="+filter, token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Questions []struct {
			QuestionText string `json:"question_text"`
		} `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Questions, 1)
	require.Equal(t, "Define entropy", result.Questions[0].QuestionText)
}

func TestGenerateAnswer(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "answer@example.com")

	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "q.txt", []byte("What is a goroutine?\n"))
	var imported struct {
		Questions []struct {
			ID int32 `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	resp.Body.Close()
	require.Len(t, imported.Questions, 1)

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/generate-answer", token, map[string]int32{"question_id": imported.Questions[0].ID})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answer struct {
		Answer string `json:"answer"`
		Model  string `json:"model"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&answer))
	require.Equal(t, "Generated answer text.", answer.Answer)
	require.Equal(t, "fake-model", answer.Model)
}

func TestGenerateAnswerUnknownQuestion(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "missing@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/generate-answer", token, map[string]int32{"question_id": 4242})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeError(t, resp))
}

func TestStartReviewSchedulesThreeReminders(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "review@example.com")

	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "q.txt", []byte("What is a mutex?\n"))
	var imported struct {
		Questions []struct {
			ID int32 `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	resp.Body.Close()

	questionID := imported.Questions[0].ID
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/start-review", token, map[string]int32{"question_id": questionID})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message   string `json:"message"`
		Reminders []struct {
			Stage  int32  `json:"stage"`
			FireAt int64  `json:"fire_at"`
			Status string `json:"status"`
		} `json:"reminders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, "Review scheduled", result.Message)
	require.Len(t, result.Reminders, 3)
	for i, reminder := range result.Reminders {
		require.Equal(t, int32(i+1), reminder.Stage)
		require.Equal(t, "PENDING", reminder.Status)
	}
	require.Equal(t, result.Reminders[0].FireAt+27600, result.Reminders[1].FireAt)
	require.Equal(t, result.Reminders[0].FireAt+85200, result.Reminders[2].FireAt)
}

func TestStartReviewUnknownQuestion(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "noq@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/start-review", token, map[string]int32{"question_id": 777})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeError(t, resp))
}

func TestCancelReviews(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "cancel@example.com")

	resp := uploadFile(t, srv, "/api/v1/import-questions", token, "q.txt", []byte("What is a channel?\n"))
	var imported struct {
		Questions []struct {
			ID int32 `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	resp.Body.Close()
	questionID := imported.Questions[0].ID

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/start-review", token, map[string]int32{"question_id": questionID})
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/reviews?question_id="+itoa(questionID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cancelled struct {
		Cancelled int `json:"cancelled"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cancelled))
	require.Equal(t, 3, cancelled.Cancelled)

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/reviews?question_id="+itoa(questionID), token, nil)
	defer resp.Body.Close()
	var listed struct {
		Reminders []struct {
			Status string `json:"status"`
		} `json:"reminders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.Reminders, 3)
	for _, reminder := range listed.Reminders {
		require.Equal(t, "CANCELLED", reminder.Status)
	}
}

func TestExtractImageTextRequiresImage(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "ocr@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/ocr", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_ARGUMENT", decodeError(t, resp))
}

func TestExtractImageTextRejectsNonImage(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndSignIn(t, srv, "ocr2@example.com")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	// CreateFormFile stamps application/octet-stream, which OCR rejects.
	part, err := writer.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/ocr", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "UNSUPPORTED_FORMAT", decodeError(t, resp))
}

func itoa(v int32) string {
	return strconv.Itoa(int(v))
}
