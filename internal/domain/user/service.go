package user

import (
	"context"
	"errors"
)

var ErrUserIDRequired = errors.New("user id is required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile stores the identity claims of an authenticated user. Empty
// fields leave the stored value untouched.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	if userID == "" {
		return ErrUserIDRequired
	}

	profile := Profile{UserID: userID}
	if email != "" {
		profile.Email = &email
	}
	if name != "" {
		profile.Name = &name
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}
