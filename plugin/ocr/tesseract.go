// Package ocr provides OCR (Optical Character Recognition) functionality using Tesseract.
// This is used to extract text from uploaded images.
package ocr

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// SupportedMimeTypes lists the image MIME types accepted for OCR.
var SupportedMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/gif",
	"image/bmp",
	"image/tiff",
}

// Config holds the OCR configuration.
type Config struct {
	// TesseractPath is the path to the tesseract executable
	TesseractPath string
	// DataPath is the path to the tessdata directory (optional)
	DataPath string
	// Languages are the languages to use for OCR (e.g., "eng+rus")
	Languages string
}

// DefaultConfig returns the default OCR configuration.
func DefaultConfig() *Config {
	return &Config{
		TesseractPath: "tesseract",
		DataPath:      "",
		Languages:     "eng",
	}
}

// Client provides OCR functionality.
type Client struct {
	config *Config
}

// NewClient creates a new OCR client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{config: config}
}

// ExtractText extracts text from an image using Tesseract OCR.
// The image bytes are decoded and re-encoded to PNG first, so any format
// imaging understands can be uploaded regardless of what tesseract accepts.
func (c *Client) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	img, err := decode(imageData)
	if err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp("", "ocr_*.png")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := imaging.Encode(tmpFile, img, imaging.PNG); err != nil {
		tmpFile.Close()
		return "", errors.Wrap(err, "failed to encode image")
	}
	tmpFile.Close()

	// Tesseract writes <outPath>.txt next to the output base path.
	outPath := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath))

	args := []string{tmpPath, outPath}
	if c.config.Languages != "" {
		args = append(args, "-l", c.config.Languages)
	}
	if c.config.DataPath != "" {
		args = append(args, "--tessdata-dir", c.config.DataPath)
	}

	cmd := exec.CommandContext(ctx, c.config.TesseractPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Warn("tesseract command failed", "error", err, "stderr", stderr.String())
		return "", errors.Wrap(err, "tesseract command failed")
	}

	txtPath := outPath + ".txt"
	defer os.Remove(txtPath)

	text, err := os.ReadFile(txtPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to read OCR output")
	}

	return strings.TrimSpace(string(text)), nil
}

// IsAvailable checks if Tesseract is available.
func (c *Client) IsAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, c.config.TesseractPath, "--version")
	return cmd.Run() == nil
}

// IsSupported checks if a MIME type is supported for OCR.
func IsSupported(mimeType string) bool {
	for _, supported := range SupportedMimeTypes {
		if strings.EqualFold(mimeType, supported) {
			return true
		}
	}
	return false
}

func decode(imageData []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return img, nil
}
