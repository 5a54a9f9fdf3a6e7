package contacts

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/mailer"
)

type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ReplyInput struct {
	Message string `json:"message" validate:"required,max=5000"`
}

type API interface {
	SubmitContact(ctx context.Context, in backend.ContactInput) (backend.Created, error)
	Contacts(ctx context.Context) ([]backend.Contact, error)
	ReplyContact(ctx context.Context, id, message string) error
}

// Notify addresses the sales inbox told about new submissions.
type Notify struct {
	Mailer   mailer.Service
	From     string
	FromName string
	To       []string
}

type Service struct {
	api    API
	notify Notify
	log    *zap.Logger
}

func NewService(api API, notify Notify, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, notify: notify, log: log}
}

// Submit forwards a contact-form message. The sales notification is best
// effort: a mail failure is logged, the submission still succeeds.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (backend.Created, error) {
	if err := validation.Check(in, "Please check the contact form."); err != nil {
		return backend.Created{}, err
	}
	res, err := s.api.SubmitContact(ctx, backend.ContactInput{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return backend.Created{}, err
	}

	if s.notify.Mailer != nil && len(s.notify.To) > 0 {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := s.notify.Mailer.Send(mctx, s.notification(res.ID, in)); err != nil {
			s.log.Warn("contact_notify_failed", zap.String("contact_id", res.ID), zap.Error(err))
		}
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]backend.Contact, error) {
	return s.api.Contacts(ctx)
}

func (s *Service) Reply(ctx context.Context, id string, in ReplyInput) error {
	if err := validation.Check(in, "Reply cannot be empty."); err != nil {
		return err
	}
	return s.api.ReplyContact(ctx, id, strings.TrimSpace(in.Message))
}

func (s *Service) notification(id string, in SubmitInput) mailer.Email {
	subject := in.Subject
	if subject == "" {
		subject = "New contact message"
	}
	text := fmt.Sprintf("From: %s <%s>\nPhone: %s\nRef: %s\n\n%s\n", in.Name, in.Email, in.Phone, id, in.Message)
	body := fmt.Sprintf(`<p><strong>From:</strong> %s &lt;%s&gt;<br><strong>Phone:</strong> %s<br><strong>Ref:</strong> %s</p><p>%s</p>`,
		html.EscapeString(in.Name), html.EscapeString(in.Email), html.EscapeString(in.Phone), html.EscapeString(id),
		strings.ReplaceAll(html.EscapeString(in.Message), "\n", "<br>"))

	return mailer.Email{
		From:     s.notify.From,
		FromName: s.notify.FromName,
		To:       s.notify.To,
		Subject:  "[Contact] " + subject,
		TextBody: text,
		HTMLBody: body,
		Headers:  map[string]string{"Reply-To": in.Email},
	}
}
