package apiclient

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var session Session
	if err := c.Do(ctx, http.MethodPost, "/api/auth/login", payload, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, errors.New("storefront api: login response carried no token")
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}
