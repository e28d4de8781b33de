package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"paperflow/internal/backends"
	"paperflow/internal/classification"
	"paperflow/internal/config"
)

// SendFunc dials the SMTP server and sends the prepared message. Injectable
// for tests.
type SendFunc func(ctx context.Context, msg *mail.Msg) error

// Mailer delivers documents as email attachments over SMTP with implicit TLS,
// mirroring the bookkeeping handoff: subject is the filename, body is empty,
// the document rides as an attachment.
type Mailer struct {
	from       string
	recipients []string
	send       SendFunc
}

// NewMailer constructs the email backend from configuration.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	timeout := time.Duration(cfg.Email.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client, err := mail.NewClient(
		cfg.Email.SMTPHost,
		mail.WithPort(cfg.Email.SMTPPort),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Email.SMTPUser),
		mail.WithPassword(cfg.Email.SMTPPassword),
		mail.WithTimeout(timeout),
	)
	if err != nil {
		return nil, backends.Wrap(backends.ErrConfiguration, "mailer", "build smtp client", "", err)
	}
	return NewMailerWithSender(cfg.Email.From, cfg.Email.Recipients, func(ctx context.Context, msg *mail.Msg) error {
		return client.DialAndSendWithContext(ctx, msg)
	}), nil
}

// NewMailerWithSender allows injecting the send function (used in tests).
func NewMailerWithSender(from string, recipients []string, send SendFunc) *Mailer {
	rcpts := make([]string, len(recipients))
	copy(rcpts, recipients)
	return &Mailer{from: from, recipients: rcpts, send: send}
}

// Action implements backends.Backend.
func (m *Mailer) Action() classification.Action {
	return classification.ActionEmail
}

// Deliver sends the document to the configured recipients.
func (m *Mailer) Deliver(ctx context.Context, doc backends.Document) error {
	msg, err := m.buildMessage(doc)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return backends.Wrap(backends.ErrTimeout, "mailer", "send", "request cancelled or timed out", err)
		}
		return backends.Wrap(backends.ErrDelivery, "mailer", "send", doc.Filename, err)
	}
	return nil
}

// SendText sends a plain-text message, used for error notifications.
func (m *Mailer) SendText(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return backends.Wrap(backends.ErrConfiguration, "mailer", "set sender", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return backends.Wrap(backends.ErrConfiguration, "mailer", "set recipient", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := m.send(ctx, msg); err != nil {
		return backends.Wrap(backends.ErrDelivery, "mailer", "send", subject, err)
	}
	return nil
}

func (m *Mailer) buildMessage(doc backends.Document) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, backends.Wrap(backends.ErrConfiguration, "mailer", "set sender", m.from, err)
	}
	if err := msg.To(m.recipients...); err != nil {
		return nil, backends.Wrap(backends.ErrConfiguration, "mailer", "set recipients", fmt.Sprint(m.recipients), err)
	}
	msg.Subject(doc.Filename)
	content, err := doc.Open()
	if err != nil {
		return nil, backends.Wrap(backends.ErrTransient, "mailer", "read document", "", err)
	}
	defer content.Close()
	if err := msg.AttachReader(doc.Filename, content); err != nil {
		return nil, backends.Wrap(backends.ErrTransient, "mailer", "attach document", doc.Filename, err)
	}
	return msg, nil
}
