package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePaperless()
	c.normalizeEmail()
	c.normalizeNotifications()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for name, field := range map[string]*string{
		"paths.process_dir": &c.Paths.ProcessDir,
		"paths.log_dir":     &c.Paths.LogDir,
	} {
		expanded, err := expandPath(*field)
		if err != nil {
			return fmt.Errorf("expand %s: %w", name, err)
		}
		*field = expanded
	}
	return nil
}

func (c *Config) normalizePaperless() {
	c.Paperless.URL = strings.TrimRight(strings.TrimSpace(c.Paperless.URL), "/")
	c.Paperless.APIToken = strings.TrimSpace(c.Paperless.APIToken)
	path := strings.TrimSpace(c.Paperless.APIPath)
	if path == "" {
		path = defaultPaperlessAPIPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	c.Paperless.APIPath = path
	if c.Paperless.RequestTimeout <= 0 {
		c.Paperless.RequestTimeout = defaultPaperlessTimeout
	}
}

func (c *Config) normalizeEmail() {
	c.Email.SMTPHost = strings.TrimSpace(c.Email.SMTPHost)
	c.Email.SMTPUser = strings.TrimSpace(c.Email.SMTPUser)
	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.From == "" {
		c.Email.From = c.Email.SMTPUser
	}
	if c.Email.SMTPPort <= 0 {
		c.Email.SMTPPort = defaultSMTPPort
	}
	if c.Email.RequestTimeout <= 0 {
		c.Email.RequestTimeout = defaultEmailTimeout
	}
	recipients := make([]string, 0, len(c.Email.Recipients))
	for _, r := range c.Email.Recipients {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	c.Email.Recipients = recipients
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Notifications.ErrorEmail = strings.TrimSpace(c.Notifications.ErrorEmail)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLedger() error {
	if strings.TrimSpace(c.Ledger.Path) == "" {
		return nil
	}
	expanded, err := expandPath(c.Ledger.Path)
	if err != nil {
		return fmt.Errorf("expand ledger.path: %w", err)
	}
	c.Ledger.Path = expanded
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxParallel <= 0 {
		c.Workflow.MaxParallel = defaultMaxParallel
	}
	if c.Workflow.DeliveryTimeout <= 0 {
		c.Workflow.DeliveryTimeout = defaultDeliveryTimeout
	}
	if c.Workflow.PassInterval <= 0 {
		c.Workflow.PassInterval = defaultPassInterval
	}
	if c.Workflow.WatchDebounce <= 0 {
		c.Workflow.WatchDebounce = defaultWatchDebounce
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
