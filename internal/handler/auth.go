package handler

import (
	"context"
	"net/http"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/logger"
	"github.com/quest-maker/auth-service/internal/middleware"
	"github.com/quest-maker/auth-service/internal/profile"
	"github.com/quest-maker/auth-service/internal/token"
)

type createRequest struct {
	Email         string                `json:"email" validate:"required,email"`
	Password      string                `json:"password" validate:"required"`
	FirstName     string                `json:"firstName"`
	LastName      string                `json:"lastName"`
	Roles         []map[string]any      `json:"roles"`
	Organizations []domain.Organization `json:"organizations"`
	UserType      string                `json:"userType"`
}

type updateRequest struct {
	Email         *string               `json:"email" validate:"omitempty,email"`
	FirstName     *string               `json:"firstName"`
	LastName      *string               `json:"lastName"`
	Roles         []map[string]any      `json:"roles"`
	Organizations []domain.Organization `json:"organizations"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Create is the signup dual-write: local insert, then profile creation
// downstream. If the downstream call does not report success, the local
// record is deleted again so the store never holds an orphan credential.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		internal_errors.Write(w, err)
		return
	}

	cred, err := h.auth.Create(r.Context(), domain.CreateInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Roles:         req.Roles,
		Organizations: req.Organizations,
		UserType:      req.UserType,
	})
	if err != nil {
		internal_errors.Write(w, err)
		return
	}

	accessToken, err := h.tokens.Issue(cred.ID, token.ScopeAccessToken)
	if err != nil {
		h.compensateCreate(r.Context(), cred.ID)
		internal_errors.Write(w, err)
		return
	}

	payload := profile.Payload{
		AuthID:        cred.ID,
		Email:         cred.Email,
		FirstName:     cred.FirstName,
		LastName:      cred.LastName,
		Roles:         cred.Roles,
		Organizations: cred.Organizations,
		UserType:      cred.UserType,
	}
	if err := h.profiles.Create(r.Context(), accessToken, payload); err != nil {
		h.compensateCreate(r.Context(), cred.ID)
		internal_errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, cred)
}

// compensateCreate undoes the local insert after the downstream profile
// creation failed. The request may already be cancelled; the compensating
// write still runs to completion.
func (h *Handler) compensateCreate(ctx context.Context, id string) {
	if err := h.auth.Delete(context.WithoutCancel(ctx), id); err != nil {
		logger.Log.Error("compensating delete failed, credential orphaned", "id", id, "error", err)
	}
}

func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r)

	cred, err := h.auth.Read(r.Context(), principal.Claims.Subject)
	if err != nil {
		internal_errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cred)
}

// Update applies the local change first, then pushes it downstream with the
// caller's own token. On downstream failure the pre-update state, read
// before mutation, is written back before the error propagates. A crash
// between the local write and the restore leaves the two stores diverged
// until the next successful update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r)

	var req updateRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		internal_errors.Write(w, err)
		return
	}

	subject := principal.Claims.Subject
	backup, err := h.auth.Read(r.Context(), subject)
	if err != nil {
		internal_errors.Write(w, err)
		return
	}

	input := domain.UpdateInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Roles:         req.Roles,
		Organizations: req.Organizations,
	}
	if err := h.auth.Update(r.Context(), subject, input); err != nil {
		internal_errors.Write(w, err)
		return
	}

	payload := profile.Payload{
		Roles:         req.Roles,
		Organizations: req.Organizations,
	}
	if req.Email != nil {
		payload.Email = *req.Email
	}
	if req.FirstName != nil {
		payload.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		payload.LastName = *req.LastName
	}
	if err := h.profiles.Update(r.Context(), principal.Token, payload); err != nil {
		h.restoreBackup(r.Context(), subject, backup)
		internal_errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully updated"})
}

// restoreBackup writes the pre-update state back after the user service
// rejected the change. userType and the timestamps are not caller-mutable
// and stay out of the restore payload.
func (h *Handler) restoreBackup(ctx context.Context, id string, backup domain.Credential) {
	// the failed update may have added associations the backup never held;
	// a nil slice would be skipped by the store's merge, so the restore
	// always writes both payloads
	roles := backup.Roles
	if roles == nil {
		roles = []map[string]any{}
	}
	orgs := backup.Organizations
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	input := domain.UpdateInput{
		Email:         &backup.Email,
		FirstName:     &backup.FirstName,
		LastName:      &backup.LastName,
		Roles:         roles,
		Organizations: orgs,
	}
	if err := h.auth.Update(context.WithoutCancel(ctx), id, input); err != nil {
		logger.Log.Error("restore after failed profile sync failed, stores diverged until next successful update", "id", id, "error", err)
	}
}

// Deactivate removes the credential. The downstream profile is orphaned on
// purpose; its cleanup belongs to the user service.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r)

	if err := h.auth.Delete(r.Context(), principal.Claims.Subject); err != nil {
		internal_errors.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword updates only the password hash. The hash is never shared
// with the user service, so there is no downstream call.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r)

	var req changePasswordRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		internal_errors.Write(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), principal.Claims.Subject, req.Password); err != nil {
		internal_errors.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
