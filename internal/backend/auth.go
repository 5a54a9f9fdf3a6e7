package backend

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", in, &out)
	return out, err
}

// Profile returns the user the client's token belongs to.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var out User
	err := c.getJSON(ctx, "/api/auth/profile", &out)
	return out, err
}
