package handler

import (
	"net/http"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/token"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges an email/password pair for a bearer token carrying
// the access_token scope.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		internal_errors.Write(w, err)
		return
	}

	cred, err := h.auth.Verify(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		internal_errors.Write(w, err)
		return
	}

	accessToken, err := h.tokens.Issue(cred.ID, token.ScopeAccessToken)
	if err != nil {
		internal_errors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: accessToken})
}
