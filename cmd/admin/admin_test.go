package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/modules/accessories"
	"silicon.com/app/internal/shared/apperr"
)

type nopAccessoryAPI struct{}

func (nopAccessoryAPI) CreateAccessory(context.Context, backend.AccessoryInput) (backend.Created, error) {
	return backend.Created{ID: "a1"}, nil
}

func (nopAccessoryAPI) UpdateAccessory(context.Context, string, backend.AccessoryInput) (backend.Created, error) {
	return backend.Created{ID: "a1"}, nil
}

func (nopAccessoryAPI) SetAccessoryFeatures(context.Context, string, []backend.Pair) error { return nil }

func TestDescribe(t *testing.T) {
	w := accessories.NewWizard(nopAccessoryAPI{})
	fields, err := describe(w, accessories.StepBasic)
	require.NoError(t, err)

	byName := map[string]field{}
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.False(t, byName["title"].List)
	assert.Equal(t, "0", byName["price"].Value)
	assert.True(t, byName["specifications"].List)
	assert.Equal(t, []string{"key", "value"}, byName["specifications"].Parts)
	assert.Equal(t, 1, byName["warranty"].Len)
}

func TestApplyThenSubmit(t *testing.T) {
	w := accessories.NewWizard(nopAccessoryAPI{})
	ans := newAnswers()
	ans.Scalars["title"] = "SpO2 sensor"
	ans.Scalars["category"] = "sensors"
	ans.Scalars["price"] = "1200"
	ans.Lists["specifications"] = []map[string]string{
		{"key": "Cable", "value": "1m"},
		{"key": "Connector", "value": "DB9"},
	}
	ans.Lists["warranty"] = []map[string]string{{"": "6 months"}}

	images, err := apply(w, accessories.StepBasic, ans)
	require.NoError(t, err)
	assert.Empty(t, images)

	d := w.Draft(accessories.StepBasic).(accessories.BasicDraft)
	assert.Equal(t, 1200.0, d.Price)
	assert.Len(t, d.Specifications, 2)
	assert.Equal(t, []string{"6 months"}, d.Warranty)

	require.NoError(t, w.Controller().Submit(context.Background()))
	assert.Equal(t, "a1", w.Controller().Token(accessories.TokenAccessory))

	// Shrinking a list on retry removes the tail.
	ans.Lists["specifications"] = ans.Lists["specifications"][:1]
	_, err = apply(w, accessories.StepBasic, ans)
	require.NoError(t, err)
	d = w.Draft(accessories.StepBasic).(accessories.BasicDraft)
	assert.Len(t, d.Specifications, 1)
}

func TestApplyReportsEveryBadField(t *testing.T) {
	w := accessories.NewWizard(nopAccessoryAPI{})
	ans := newAnswers()
	ans.Scalars["price"] = "cheap"
	ans.Scalars["colour"] = "red"
	ans.Scalars["title"] = "Kept"

	_, err := apply(w, accessories.StepBasic, ans)
	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrUnknownField)
	assert.Equal(t, "Kept", w.Draft(accessories.StepBasic).(accessories.BasicDraft).Title)
}

func TestApplyCollectsImages(t *testing.T) {
	w := accessories.NewWizard(nopAccessoryAPI{})
	ans := newAnswers()
	ans.Lists["warranty"] = []map[string]string{{"": "1 year", imagePart: " /tmp/a.png "}}

	images, err := apply(w, accessories.StepBasic, ans)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "/tmp/a.png"}, images)
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	_, err := loadSession(path)
	assert.ErrorIs(t, err, errNotLoggedIn)

	want := session{Token: "tok", Email: "admin@example.com", Role: "admin", Backend: "http://api"}
	require.NoError(t, saveSession(path, want))
	got, err := loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAuthedRejectsOtherBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, saveSession(path, session{Token: "tok", Backend: "http://old"}))

	a := &app{sessionPath: path, client: backend.New(backend.Config{BaseURL: "http://new"})}
	_, _, err := a.authed()
	assert.Error(t, err)

	a.client = backend.New(backend.Config{BaseURL: "http://old"})
	c, s, err := a.authed()
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "tok", s.Token)
}

func TestDescribeErr(t *testing.T) {
	err := apperr.InvalidErr("Check the accessory details.", map[string]string{"title": "This field is required."})
	msg := describeErr(err)
	assert.Contains(t, msg, "Check the accessory details.")
	assert.Contains(t, msg, "title: This field is required.")

	assert.Equal(t, "error: API not configured", describeErr(backend.ErrNotConfigured))
	assert.Equal(t, "error: boom", describeErr(errors.New("boom")))
}
