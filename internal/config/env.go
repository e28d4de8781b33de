package config

import (
	"os"
	"strings"
)

// Environment variable names recognized as overrides. Secrets are expected to
// arrive through the environment in containerized deployments; file-based
// settings win only when the variable is unset.
const (
	EnvProcessDir     = "PAPERFLOW_PROCESS_DIR"
	EnvPaperlessURL   = "PAPERFLOW_PAPERLESS_URL"
	EnvPaperlessToken = "PAPERFLOW_PAPERLESS_TOKEN"
	EnvSMTPHost       = "PAPERFLOW_SMTP_HOST"
	EnvSMTPUser       = "PAPERFLOW_SMTP_USER"
	EnvSMTPPassword   = "PAPERFLOW_SMTP_PASSWORD"
	EnvRecipients     = "PAPERFLOW_EMAIL_RECIPIENTS"
	EnvErrorEmail     = "PAPERFLOW_ERROR_EMAIL"
)

func (c *Config) applyEnvOverrides() {
	if v, ok := lookup(EnvProcessDir); ok {
		c.Paths.ProcessDir = v
	}
	if v, ok := lookup(EnvPaperlessURL); ok {
		c.Paperless.URL = v
	}
	if v, ok := lookup(EnvPaperlessToken); ok {
		c.Paperless.APIToken = v
	}
	if v, ok := lookup(EnvSMTPHost); ok {
		c.Email.SMTPHost = v
	}
	if v, ok := lookup(EnvSMTPUser); ok {
		c.Email.SMTPUser = v
	}
	if v, ok := lookup(EnvSMTPPassword); ok {
		c.Email.SMTPPassword = v
	}
	if v, ok := lookup(EnvRecipients); ok {
		c.Email.Recipients = splitList(v)
	}
	if v, ok := lookup(EnvErrorEmail); ok {
		c.Notifications.ErrorEmail = v
	}
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
