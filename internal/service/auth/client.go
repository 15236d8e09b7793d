package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/inbox-ai/internal/config"
)

// PasswordVerifier compares a hashed secret with its possible plaintext.
type PasswordVerifier interface {
	Compare(hashed, plaintext string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// Compare returns nil when plaintext matches the bcrypt hash.
func (BcryptVerifier) Compare(hashed, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
}

// HashSecret returns the bcrypt hash of secret at the given cost. A cost
// outside bcrypt's range uses bcrypt.DefaultCost.
func HashSecret(secret string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// ClientAuthenticator checks API client credentials against the configured
// client.
type ClientAuthenticator struct {
	clientID   string
	secretHash string
	verifier   PasswordVerifier
}

// NewClientAuthenticator creates an authenticator for the configured client.
func NewClientAuthenticator(cfg config.AuthConfig, verifier PasswordVerifier) *ClientAuthenticator {
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	return &ClientAuthenticator{
		clientID:   cfg.ClientID,
		secretHash: cfg.ClientSecretHash,
		verifier:   verifier,
	}
}

// Authenticate returns ErrInvalidCredentials unless clientID and secret match
// the configured client. An authenticator without a configured client rejects
// everything.
func (a *ClientAuthenticator) Authenticate(clientID, secret string) error {
	if a.clientID == "" || a.secretHash == "" {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(a.clientID)) != 1 {
		return ErrInvalidCredentials
	}
	if err := a.verifier.Compare(a.secretHash, secret); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}
