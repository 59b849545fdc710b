package users

import (
	"context"
)

// Service encapsulates owner profile logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a profile from an identity claims map.
// Claims without a subject yield nil.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Profile, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["preferred_username"].(string)
	}
	if sub == "" {
		return nil, nil
	}
	return s.repo.UpsertBySub(ctx, &Profile{Sub: sub, Email: email, Name: name})
}
