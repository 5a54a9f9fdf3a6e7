package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP accepts one session and records the envelope and message.
func fakeSMTP(t *testing.T) (host, port string, got <-chan []string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		var lines []string
		_ = tp.PrintfLine("220 fake ready")
		for {
			l, err := tp.ReadLine()
			if err != nil {
				out <- lines
				return
			}
			cmd := strings.ToUpper(strings.Fields(l + " x")[0])
			switch cmd {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 fake")
			case "MAIL", "RCPT":
				lines = append(lines, l)
				_ = tp.PrintfLine("250 ok")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				body, _ := tp.ReadDotLines()
				lines = append(lines, body...)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				out <- lines
				return
			default:
				_ = tp.PrintfLine("502 unknown")
			}
		}
	}()
	host, port, _ = net.SplitHostPort(ln.Addr().String())
	return host, port, out
}

func TestSMTPSend(t *testing.T) {
	host, port, got := fakeSMTP(t)
	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port})

	err := m.Send(context.Background(), Email{
		From:     "noreply@example.com",
		To:       []string{"sales@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "New contact message",
		TextBody: "Ada asked about the X200.",
	})
	require.NoError(t, err)

	lines := <-got
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "MAIL FROM:<noreply@example.com>")
	assert.Contains(t, joined, "RCPT TO:<sales@example.com>")
	assert.Contains(t, joined, "RCPT TO:<audit@example.com>")
	assert.Contains(t, joined, "Subject: New contact message")
	assert.NotContains(t, joined, "Bcc:")
}

func TestSMTPSendNeedsEnvelope(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: "1"})
	err := m.Send(context.Background(), Email{To: []string{"x@y.z"}, Subject: "s", TextBody: "b"})
	assert.ErrorContains(t, err, "sender")
}

func TestSMTPDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port})
	err = m.Send(context.Background(), Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "s", TextBody: "b"})
	assert.ErrorContains(t, err, "smtp dial")
}
