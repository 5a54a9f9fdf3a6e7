package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) SubmitContact(ctx context.Context, in ContactInput) (Created, error) {
	var out Created
	err := c.doJSON(ctx, http.MethodPost, "/api/contact", in, &out)
	return out, err
}

func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	err := c.getJSON(ctx, "/api/contact", &out)
	return out, err
}

func (c *Client) ReplyContact(ctx context.Context, id, message string) error {
	body := struct {
		Message string `json:"message"`
	}{message}
	return c.doJSON(ctx, http.MethodPost, "/api/contact/"+url.PathEscape(id)+"/reply", body, nil)
}
