package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Mishleyn/T-Prep/store"
)

// Dispatcher routes notifications to registered channel senders. A reminder
// counts as delivered when every registered channel accepts it.
type Dispatcher struct {
	channels map[Channel]ChannelSender
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		channels: make(map[Channel]ChannelSender),
		logger:   slog.Default(),
	}
}

// Register registers a channel sender.
func (d *Dispatcher) Register(channel Channel, sender ChannelSender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels[channel] = sender
	d.logger.Info("registered notification channel", "channel", channel, "sender", sender.Name())
}

// Dispatch sends the reminder through every registered channel and returns
// the first error encountered. Channels are independent; one failing does not
// stop the rest from being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, reminder *store.ReviewReminder) error {
	d.mu.RLock()
	senders := make([]ChannelSender, 0, len(d.channels))
	for _, sender := range d.channels {
		senders = append(senders, sender)
	}
	d.mu.RUnlock()

	var firstErr error
	for _, sender := range senders {
		if err := sender.Send(ctx, reminder); err != nil {
			d.logger.Warn("failed to send reminder",
				"reminder_id", reminder.ID,
				"channel", sender.Name(),
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LogSender writes the notification to the structured log. It is always
// registered so reminders are observable even without external channels.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log channel sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, reminder *store.ReviewReminder) error {
	s.logger.Info("review reminder due",
		"reminder_id", reminder.ID,
		"question_id", reminder.QuestionID,
		"stage", reminder.Stage,
		"message", reminder.Message,
	)
	return nil
}

func (s *LogSender) Name() string {
	return "log"
}

// WebhookSender POSTs the notification as JSON to a configured URL.
type WebhookSender struct {
	url        string
	httpClient *http.Client
}

// NewWebhookSender creates a webhook channel sender.
func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type webhookPayload struct {
	ReminderID int32  `json:"reminder_id"`
	QuestionID int32  `json:"question_id"`
	Stage      int32  `json:"stage"`
	Message    string `json:"message"`
	FiredAt    int64  `json:"fired_at"`
}

func (s *WebhookSender) Send(ctx context.Context, reminder *store.ReviewReminder) error {
	payload, err := json.Marshal(webhookPayload{
		ReminderID: reminder.ID,
		QuestionID: reminder.QuestionID,
		Stage:      reminder.Stage,
		Message:    reminder.Message,
		FiredAt:    nowFunc().Unix(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *WebhookSender) Name() string {
	return "webhook"
}
