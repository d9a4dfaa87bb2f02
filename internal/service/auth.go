package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/model"
)

// AuthService talks to the /auth endpoints.
type AuthService struct {
	c Requester
}

// NewAuthService creates a new AuthService.
func NewAuthService(c Requester) *AuthService {
	return &AuthService{c: c}
}

// Login exchanges credentials for an access token. The endpoint is an
// OAuth2 password form, so the email travels as "username".
func (s *AuthService) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	var resp model.LoginResponse
	form := url.Values{"username": {email}, "password": {password}}
	err := s.c.Do(ctx, http.MethodPost, "/auth/login", &resp, httpclient.Form(form))
	return resp, err
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.RegisterResponse, error) {
	var resp model.RegisterResponse
	err := s.c.Do(ctx, http.MethodPost, "/auth/register", &resp, httpclient.JSON(in))
	return resp, err
}

// CurrentUser returns the profile bound to the credential in use. Pass
// httpclient.WithBearer to query with a token that is not attached yet.
func (s *AuthService) CurrentUser(ctx context.Context, opts ...httpclient.RequestOption) (model.UserProfile, error) {
	var user model.UserProfile
	err := s.c.Do(ctx, http.MethodGet, "/auth/me", &user, opts...)
	return user, err
}

// Logout tells the backend the session ended.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.Do(ctx, http.MethodPost, "/auth/logout", nil)
}
