package api

import (
	"context"
	"net/http"
	"net/url"

	"resto-pos/models"
)

type AuthService struct{ client *Client }

// LoginResult is what a successful login returns
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a token. Credentials are sent as a form.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	var res LoginResult
	err := s.client.do(ctx, http.MethodPost, "/login", nil, form, &res)
	return res, err
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// Me returns the owner of the current token
func (s *AuthService) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := s.client.do(ctx, http.MethodGet, "/me", nil, nil, &u)
	return u, err
}
