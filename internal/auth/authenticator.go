// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/gopayurself/internal/models"
)

// Authenticator verifies who a caller is. Implementations own the credential
// format (password today).
type Authenticator interface {
	// Register creates an account. It fails with ErrEmailExists when the
	// email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user when the credential matches, otherwise
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
