package service

import (
	"context"
	"net/http"

	"github.com/miseventos/miseventos-go/internal/httpclient"
	"github.com/miseventos/miseventos-go/internal/model"
)

// UsersService talks to /users/me.
type UsersService struct {
	c Requester
}

// NewUsersService creates a new UsersService.
func NewUsersService(c Requester) *UsersService {
	return &UsersService{c: c}
}

// Profile returns the signed-in user.
func (s *UsersService) Profile(ctx context.Context) (model.UserProfile, error) {
	var user model.UserProfile
	err := s.c.Do(ctx, http.MethodGet, "/users/me", &user)
	return user, err
}

// UpdateProfile changes the name or email of the signed-in user.
func (s *UsersService) UpdateProfile(ctx context.Context, in model.ProfileInput) (model.UserProfile, error) {
	var user model.UserProfile
	err := s.c.Do(ctx, http.MethodPut, "/users/me", &user, httpclient.JSON(in))
	return user, err
}

// Events returns the session registrations of the signed-in user.
func (s *UsersService) Events(ctx context.Context) ([]model.Registration, error) {
	var regs []model.Registration
	err := s.c.Do(ctx, http.MethodGet, "/users/me/events", &regs)
	return regs, err
}
