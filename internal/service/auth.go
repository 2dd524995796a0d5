package service

import (
	"context"
	"strings"
	"time"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/hash"
	"github.com/quest-maker/auth-service/internal/logger"
)

// CredentialStorage is everything the auth service needs from persistence.
type CredentialStorage interface {
	Insert(ctx context.Context, cred domain.Credential) (string, error)
	FindByID(ctx context.Context, id string) (domain.Credential, error)
	FindByEmail(ctx context.Context, email string) (domain.Credential, error)
	Update(ctx context.Context, id string, fields domain.UpdateFields) error
	Delete(ctx context.Context, id string) error
}

// Auth orchestrates the credential lifecycle against the store and the
// hasher. Both are injected; the service holds no other state.
type Auth struct {
	storage CredentialStorage
	hasher  hash.Hasher
}

func NewAuth(storage CredentialStorage, hasher hash.Hasher) *Auth {
	return &Auth{storage: storage, hasher: hasher}
}

// Create hashes the plaintext password, stamps timestamps and inserts a new
// record. A duplicate email yields a conflict; nothing is written on any
// failure.
func (a *Auth) Create(ctx context.Context, input domain.CreateInput) (domain.Credential, error) {
	passHash, err := a.hasher.Hash(input.Password)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.Credential{}, internal_errors.Storage("Can't process password")
	}

	userType := input.UserType
	if userType == "" {
		userType = domain.DefaultUserType
	}

	now := time.Now().UTC()
	cred := domain.Credential{
		Email:         strings.ToLower(input.Email),
		PasswordHash:  passHash,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Roles:         input.Roles,
		Organizations: input.Organizations,
		UserType:      userType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := a.storage.Insert(ctx, cred)
	if err != nil {
		return domain.Credential{}, err
	}
	cred.ID = id
	return cred, nil
}

func (a *Auth) Read(ctx context.Context, id string) (domain.Credential, error) {
	return a.storage.FindByID(ctx, id)
}

// Update merges only the set fields and always overwrites updatedAt.
// Updating an id that matches nothing succeeds as a no-op.
func (a *Auth) Update(ctx context.Context, id string, input domain.UpdateInput) error {
	email := input.Email
	if email != nil {
		lowered := strings.ToLower(*email)
		email = &lowered
	}
	return a.storage.Update(ctx, id, domain.UpdateFields{
		Email:         email,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Roles:         input.Roles,
		Organizations: input.Organizations,
		UpdatedAt:     time.Now().UTC(),
	})
}

// ChangePassword hashes the new password and updates only passwordHash.
func (a *Auth) ChangePassword(ctx context.Context, id, newPassword string) error {
	passHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return internal_errors.Storage("Can't process password")
	}
	return a.storage.Update(ctx, id, domain.UpdateFields{
		PasswordHash: &passHash,
		UpdatedAt:    time.Now().UTC(),
	})
}

// Delete removes the record. Deleting a nonexistent id is not an error.
func (a *Auth) Delete(ctx context.Context, id string) error {
	return a.storage.Delete(ctx, id)
}

// Verify checks an email/password pair. An unknown email and a wrong
// password return the same error, to not leak which emails exist.
func (a *Auth) Verify(ctx context.Context, creds domain.Credentials) (domain.Credential, error) {
	cred, err := a.storage.FindByEmail(ctx, strings.ToLower(creds.Email))
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.Credential{}, internal_errors.InvalidCredentials()
		}
		return domain.Credential{}, err
	}

	if !a.hasher.Verify(creds.Password, cred.PasswordHash) {
		return domain.Credential{}, internal_errors.InvalidCredentials()
	}
	return cred, nil
}
