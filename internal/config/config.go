// Package config loads runtime settings from the environment and the
// operator's YAML configuration files (preference profile, user profile,
// portfolio, proposal guidelines).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// App holds process-level settings read from the environment. The .env
// file is loaded by the CLI entrypoint before this runs.
type App struct {
	DatabaseURL  string
	GeminiAPIKey string
	DataDir      string
	ConfigDir    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailTo      string
	DashboardURL string
}

// FromEnv builds the app config from environment variables, applying
// defaults for the directories.
func FromEnv() (*App, error) {
	app := &App{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		DataDir:      envOr("JOBSCOUT_DATA_DIR", "data"),
		ConfigDir:    envOr("JOBSCOUT_CONFIG_DIR", "config"),
		SMTPHost:     envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),
		EmailTo:      os.Getenv("EMAIL_TO"),
		DashboardURL: os.Getenv("DASHBOARD_URL"),
	}

	app.SMTPPort = 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", raw, err)
		}
		app.SMTPPort = port
	}

	return app, nil
}

// LockPath is the well-known run-lock location inside the data dir.
func (a *App) LockPath() string {
	return filepath.Join(a.DataDir, "monitor.lock")
}

// EmailConfigured reports whether outbound mail can even be attempted.
func (a *App) EmailConfigured() bool {
	return a.SMTPUser != "" && a.SMTPPassword != "" && a.EmailTo != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
