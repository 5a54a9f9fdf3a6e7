package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEMessage(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	raw, err := buildMIMEMessage(Email{
		From:     "noreply@example.com",
		FromName: "Silicon Médical",
		To:       []string{"sales@example.com"},
		Subject:  "New enquiry",
		TextBody: "hello",
		HTMLBody: "<p>hello</p>",
	}, "example.com", now)
	require.NoError(t, err)

	assert.Contains(t, raw, "Date: Thu, 02 Apr 2026 10:00:00 +0000\r\n")
	assert.Contains(t, raw, "From: =?utf-8?q?Silicon_M=C3=A9dical?= <noreply@example.com>\r\n")
	assert.Contains(t, raw, "To: sales@example.com\r\n")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Equal(t, 2, strings.Count(raw, "charset=UTF-8"))
}

func TestBuildMIMEMessageRequiresFields(t *testing.T) {
	_, err := buildMIMEMessage(Email{From: "a@b.c", Subject: "s", TextBody: "x"}, "d", time.Now())
	assert.ErrorContains(t, err, "recipient")
	_, err = buildMIMEMessage(Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "s"}, "d", time.Now())
	assert.ErrorContains(t, err, "textBody")
}

func TestMailtrapSend(t *testing.T) {
	var got mailtrapPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailtrap(srv.URL, "tok", srv.Client())
	err := m.Send(context.Background(), Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "Hi", TextBody: "t"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Subject)
	assert.Equal(t, []mailtrapAddress{{Email: "x@y.z"}}, got.To)
}

func TestNew(t *testing.T) {
	svc, err := New(Options{})
	require.NoError(t, err)
	assert.Nil(t, svc)

	_, err = New(Options{Driver: "smtp"})
	assert.Error(t, err)
	_, err = New(Options{Driver: "pigeon"})
	assert.Error(t, err)

	svc, err = New(Options{Driver: "smtp", SMTP: SMTPConfig{Host: "localhost"}})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, svc)
}
