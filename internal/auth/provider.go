// Package auth integrates the external one-time-code authentication provider
// and carries the authenticated user through request contexts.
//
// The provider owns code issuance and verification; the application only
// admits a verified identity when its email also appears on the user
// allow-list (see bootstrap).
package auth

import (
	"context"
	"time"
)

// VerifyPurposes is the ordered list of verification purposes attempted when
// checking a one-time code. The provider accepts a different purpose
// depending on how the code was issued and whether the account already
// exists; rather than guessing a single correct purpose, each is tried in
// order until one succeeds or all fail.
//
// TODO: confirm the single correct purpose for our provider configuration
// and collapse this fallback.
var VerifyPurposes = []string{"magiclink", "email", "signup"}

// Session is an authenticated provider session.
type Session struct {
	AccessToken string    // Bearer token for subsequent identity checks
	Email       string    // Verified email address
	ExpiresAt   time.Time // Token expiry as reported by the provider
}

// Provider defines the surface consumed from the external auth service.
type Provider interface {
	// SendCode emails a one-time numeric code to the address.
	SendCode(ctx context.Context, email string) error

	// VerifyCode exchanges a one-time code for a session, trying each
	// purpose in VerifyPurposes until one succeeds.
	// Returns domain.EUNAUTHORIZED when every purpose is rejected.
	VerifyCode(ctx context.Context, email, code string) (*Session, error)

	// GetSession validates an access token and returns the identity bound to
	// it. Returns domain.EUNAUTHORIZED for invalid or expired tokens.
	GetSession(ctx context.Context, accessToken string) (*Session, error)

	// SignOut revokes the session behind the access token. Idempotent.
	SignOut(ctx context.Context, accessToken string) error
}
