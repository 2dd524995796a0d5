package handler

import (
	"context"

	"github.com/quest-maker/auth-service/internal/domain"
	"github.com/quest-maker/auth-service/internal/profile"
)

// AuthService is what handlers need from the domain service.
type AuthService interface {
	Create(ctx context.Context, input domain.CreateInput) (domain.Credential, error)
	Read(ctx context.Context, id string) (domain.Credential, error)
	Update(ctx context.Context, id string, input domain.UpdateInput) error
	ChangePassword(ctx context.Context, id, newPassword string) error
	Delete(ctx context.Context, id string) error
	Verify(ctx context.Context, creds domain.Credentials) (domain.Credential, error)
}

// TokenIssuer mints bearer tokens for verified subjects.
type TokenIssuer interface {
	Issue(subject, scope string) (string, error)
}

// ProfileSyncer pushes profile data to the user-profile service.
type ProfileSyncer interface {
	Create(ctx context.Context, token string, p profile.Payload) error
	Update(ctx context.Context, token string, p profile.Payload) error
}

// Pinger reports whether the credential store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     AuthService
	tokens   TokenIssuer
	profiles ProfileSyncer
	health   Pinger
}

func New(auth AuthService, tokens TokenIssuer, profiles ProfileSyncer, health Pinger) *Handler {
	return &Handler{auth: auth, tokens: tokens, profiles: profiles, health: health}
}
