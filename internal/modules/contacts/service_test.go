package contacts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/mailer"
	"silicon.com/app/internal/modules/contacts"
	"silicon.com/app/internal/shared/apperr"
)

type fakeAPI struct {
	submitted []backend.ContactInput
	replies   map[string]string
}

func (f *fakeAPI) SubmitContact(_ context.Context, in backend.ContactInput) (backend.Created, error) {
	f.submitted = append(f.submitted, in)
	return backend.Created{ID: "ct1"}, nil
}

func (f *fakeAPI) Contacts(context.Context) ([]backend.Contact, error) {
	return []backend.Contact{{ID: "ct1"}}, nil
}

func (f *fakeAPI) ReplyContact(_ context.Context, id, message string) error {
	if f.replies == nil {
		f.replies = map[string]string{}
	}
	f.replies[id] = message
	return nil
}

var valid = contacts.SubmitInput{Name: "Asha", Email: "asha@example.com", Message: "Need a quote\nfor 3 units"}

func TestSubmitNotifiesSales(t *testing.T) {
	api := &fakeAPI{}
	mock := &mailer.Mock{}
	s := contacts.NewService(api, contacts.Notify{Mailer: mock, From: "bot@example.com", To: []string{"sales@example.com"}}, nil)

	res, err := s.Submit(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, "ct1", res.ID)
	require.Len(t, api.submitted, 1)

	sent := mock.To("sales@example.com")
	require.Len(t, sent, 1)
	assert.Equal(t, "[Contact] New contact message", sent[0].Subject)
	assert.Equal(t, "asha@example.com", sent[0].Headers["Reply-To"])
	assert.Contains(t, sent[0].HTMLBody, "Need a quote<br>for 3 units")
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	mock := &mailer.Mock{Err: errors.New("smtp down")}
	s := contacts.NewService(&fakeAPI{}, contacts.Notify{Mailer: mock, To: []string{"sales@example.com"}}, nil)
	_, err := s.Submit(context.Background(), valid)
	assert.NoError(t, err)
}

func TestSubmitValidates(t *testing.T) {
	api := &fakeAPI{}
	s := contacts.NewService(api, contacts.Notify{}, nil)
	_, err := s.Submit(context.Background(), contacts.SubmitInput{Name: "x", Email: "not-an-email"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "email")
	assert.Contains(t, ae.Fields, "message")
	assert.Empty(t, api.submitted)
}

func TestReply(t *testing.T) {
	api := &fakeAPI{}
	s := contacts.NewService(api, contacts.Notify{}, nil)
	assert.Error(t, s.Reply(context.Background(), "ct1", contacts.ReplyInput{}))
	require.NoError(t, s.Reply(context.Background(), "ct1", contacts.ReplyInput{Message: " Sent the quote. "}))
	assert.Equal(t, "Sent the quote.", api.replies["ct1"])
}
