// Package mailer sends notification emails (new contact-form submissions)
// over SMTP or the Mailtrap HTTP API.
package mailer

import (
	"context"
	"fmt"
	"net/http"
)

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string // optional, e.g. "Silicon Medical"
	From     string // required

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string // optional extra headers
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

type Options struct {
	Driver string // none|smtp|mailtrap

	SMTP SMTPConfig

	MailtrapURL   string
	MailtrapToken string
	HTTPClient    *http.Client
}

// New returns the configured driver, or nil for "none".
func New(opts Options) (Service, error) {
	switch opts.Driver {
	case "", "none":
		return nil, nil
	case "smtp":
		if opts.SMTP.Host == "" {
			return nil, fmt.Errorf("mailer: SMTP host required")
		}
		return NewSMTPMailer(opts.SMTP), nil
	case "mailtrap":
		if opts.MailtrapURL == "" || opts.MailtrapToken == "" {
			return nil, fmt.Errorf("mailer: mailtrap credentials not configured")
		}
		return NewMailtrap(opts.MailtrapURL, opts.MailtrapToken, opts.HTTPClient), nil
	default:
		return nil, fmt.Errorf("mailer: unknown driver %q", opts.Driver)
	}
}
