// Package textextract provides document text extraction using Apache Tika.
// This is used to pull paragraph text out of uploaded .docx files.
package textextract

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Supported MIME types for text extraction.
var SupportedMimeTypes = []string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"text/plain",
}

// Config holds the text extraction configuration.
type Config struct {
	// TikaServerURL is the URL of the Tika server (e.g., http://localhost:9998)
	TikaServerURL string
	// Timeout is the HTTP timeout for Tika server requests
	Timeout time.Duration
}

// DefaultConfig returns the default text extraction configuration.
func DefaultConfig() *Config {
	return &Config{
		TikaServerURL: "http://localhost:9998",
		Timeout:       30 * time.Second,
	}
}

// Client provides text extraction functionality.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new text extraction client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// ExtractText extracts plain text from a document via the Tika server.
func (c *Client) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if c.config.TikaServerURL == "" {
		return "", errors.New("no tika server configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.config.TikaServerURL+"/tika",
		bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "tika server request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("tika server returned status %d: %s", resp.StatusCode, string(body))
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response")
	}

	return string(text), nil
}

// ExtractParagraphs extracts text and splits it into non-blank paragraphs,
// preserving document order.
func (c *Client) ExtractParagraphs(ctx context.Context, data []byte, contentType string) ([]string, error) {
	text, err := c.ExtractText(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	return SplitParagraphs(text), nil
}

// SplitParagraphs splits extracted text on line breaks, trimming whitespace
// and dropping blank lines.
func SplitParagraphs(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// IsAvailable checks if the Tika server responds.
func (c *Client) IsAvailable(ctx context.Context) bool {
	if c.config.TikaServerURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.TikaServerURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// IsSupported checks if a MIME type is supported.
func IsSupported(contentType string) bool {
	for _, supported := range SupportedMimeTypes {
		if strings.EqualFold(contentType, supported) {
			return true
		}
	}
	return false
}
