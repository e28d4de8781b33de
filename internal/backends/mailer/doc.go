// Package mailer implements the email delivery backend: documents go out as
// attachments over SMTP with implicit TLS, subject set to the filename. It
// also carries the plain-text sender used for error notification emails.
package mailer
