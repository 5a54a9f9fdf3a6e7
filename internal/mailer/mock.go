package mailer

import (
	"context"
	"sync"
)

// Mock records sent emails in memory. A non-nil Err fails every send.
type Mock struct {
	mu   sync.Mutex
	sent []Email
	Err  error
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, e)
	return nil
}

// Sent returns a copy of what was delivered so far.
func (m *Mock) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

// To lists the emails addressed to rcpt in any header.
func (m *Mock) To(rcpt string) []Email {
	var out []Email
	for _, e := range m.Sent() {
		for _, r := range e.AllRecipients() {
			if r == rcpt {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
