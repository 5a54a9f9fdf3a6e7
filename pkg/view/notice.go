package view

import "time"

// FlashKind picks the toast style on the dashboard.
type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

func (k FlashKind) Valid() bool {
	switch k {
	case FlashInfo, FlashSuccess, FlashWarning, FlashError:
		return true
	}
	return false
}

// Flash is a one-shot notification carried across a redirect or handed to
// the dashboard as a toast.
type Flash struct {
	Kind     FlashKind `json:"kind"`
	Message  string    `json:"message"`
	IssuedAt int64     `json:"iat,omitempty"`
}

func Info(msg string) Flash    { return Flash{Kind: FlashInfo, Message: msg} }
func Success(msg string) Flash { return Flash{Kind: FlashSuccess, Message: msg} }
func Warning(msg string) Flash { return Flash{Kind: FlashWarning, Message: msg} }
func Failure(msg string) Flash { return Flash{Kind: FlashError, Message: msg} }

// Expired reports whether f was issued more than ttl before now. A flash
// without an issue time never expires.
func (f Flash) Expired(now time.Time, ttl time.Duration) bool {
	return f.IssuedAt > 0 && now.Sub(time.Unix(f.IssuedAt, 0)) > ttl
}
