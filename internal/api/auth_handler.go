package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/inbox-ai/internal/api/shared"
	"github.com/phrazzld/inbox-ai/internal/service/auth"
)

// ClientAuthenticator checks API client credentials.
type ClientAuthenticator interface {
	Authenticate(clientID, secret string) error
}

// AuthHandler exchanges client credentials for access tokens.
type AuthHandler struct {
	authenticator ClientAuthenticator
	tokens        auth.TokenService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authenticator ClientAuthenticator, tokens auth.TokenService) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// IssueToken handles POST /api/auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if err := h.authenticator.Authenticate(req.ClientID, req.ClientSecret); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate client", err)
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken(r.Context(), req.ClientID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	})
}
