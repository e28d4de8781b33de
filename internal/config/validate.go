package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. All delivery backends must be
// configured up front: every monitored folder routes to at least one of them,
// and a missing credential is a startup failure rather than a per-document one.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePaperless(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProcessDir) == "" {
		return errors.New("paths.process_dir must be set")
	}
	return nil
}

func (c *Config) validatePaperless() error {
	if c.Paperless.URL == "" {
		return fmt.Errorf("paperless.url is required. Set %s or edit the config file (create with 'paperflow config init')", EnvPaperlessURL)
	}
	if !strings.HasPrefix(c.Paperless.URL, "http://") && !strings.HasPrefix(c.Paperless.URL, "https://") {
		return fmt.Errorf("paperless.url must start with http:// or https://, got %q", c.Paperless.URL)
	}
	if c.Paperless.APIToken == "" {
		return fmt.Errorf("paperless.api_token is required. Set %s or edit the config file", EnvPaperlessToken)
	}
	return nil
}

func (c *Config) validateEmail() error {
	if c.Email.SMTPHost == "" {
		return fmt.Errorf("email.smtp_host is required. Set %s or edit the config file", EnvSMTPHost)
	}
	if err := validateAddress("email.smtp_user", c.Email.SMTPUser); err != nil {
		return err
	}
	if c.Email.SMTPPassword == "" {
		return fmt.Errorf("email.smtp_password is required. Set %s or edit the config file", EnvSMTPPassword)
	}
	if err := validateAddress("email.from", c.Email.From); err != nil {
		return err
	}
	if len(c.Email.Recipients) == 0 {
		return fmt.Errorf("email.recipients must contain at least one address. Set %s or edit the config file", EnvRecipients)
	}
	for _, recipient := range c.Email.Recipients {
		if err := validateAddress("email.recipients", recipient); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.ErrorEmail == "" {
		return nil
	}
	return validateAddress("notifications.error_email", c.Notifications.ErrorEmail)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

func validateAddress(field, value string) error {
	if len(value) < 4 || !strings.Contains(value, "@") {
		return fmt.Errorf("%s must be an email address, got %q", field, value)
	}
	return nil
}
