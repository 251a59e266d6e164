package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
// It is resolved once at startup; nothing reads environment variables after Validate.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where tprep stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Secret signs the access tokens issued on login
	Secret string

	// AI configuration
	OpenAIAPIKey  string // TPREP_OPENAI_API_KEY
	OpenAIBaseURL string // TPREP_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	ChatModel     string // TPREP_CHAT_MODEL (default: gpt-3.5-turbo)

	// OCR configuration
	TesseractPath string // TPREP_OCR_TESSERACT_PATH (default: tesseract)
	TessdataPath  string // TPREP_OCR_TESSDATA_PATH (default: "")
	OCRLanguages  string // TPREP_OCR_LANGUAGES (default: eng)

	// Document extraction configuration
	TikaServerURL string // TPREP_TIKA_URL (default: http://localhost:9998)

	// Review reminder delivery configuration
	ReminderInterval time.Duration // TPREP_REMINDER_INTERVAL (default: 30s)
	WebhookURL       string        // TPREP_REMINDER_WEBHOOK_URL (optional)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TPREP_* environment variables.
func (p *Profile) FromEnv() {
	p.OpenAIAPIKey = os.Getenv("TPREP_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("TPREP_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.ChatModel = getEnvOrDefault("TPREP_CHAT_MODEL", "gpt-3.5-turbo")

	p.TesseractPath = getEnvOrDefault("TPREP_OCR_TESSERACT_PATH", "tesseract")
	p.TessdataPath = os.Getenv("TPREP_OCR_TESSDATA_PATH")
	p.OCRLanguages = getEnvOrDefault("TPREP_OCR_LANGUAGES", "eng")

	p.TikaServerURL = getEnvOrDefault("TPREP_TIKA_URL", "http://localhost:9998")

	p.ReminderInterval = 30 * time.Second
	if v := os.Getenv("TPREP_REMINDER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			p.ReminderInterval = d
		}
	}
	p.WebhookURL = os.Getenv("TPREP_REMINDER_WEBHOOK_URL")

	if v := os.Getenv("TPREP_SECRET"); v != "" {
		p.Secret = v
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and fails fast on missing required settings.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("tprep_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Secret == "" {
		if p.Mode == "prod" {
			return errors.New("secret is required in prod mode, set TPREP_SECRET")
		}
		p.Secret = "tprep-dev-secret"
	}

	// The answer generator is a hard dependency of the service, so refuse to
	// start without a key rather than failing on the first request.
	if p.OpenAIAPIKey == "" {
		return errors.New("openai api key is required, set TPREP_OPENAI_API_KEY")
	}

	return nil
}
