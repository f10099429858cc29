// Package bootstrap resolves the signed-in user and loads the initial
// application state after a successful code verification.
//
// The whole sequence runs under a hard deadline. If the remote store or the
// auth provider hangs, the deadline fires and the user lands on the login
// page instead of a spinner that never resolves.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/gschargev/giftdesk/internal/auth"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

// DefaultTimeout bounds the whole bootstrap sequence.
const DefaultTimeout = 7 * time.Second

// Deps are the collaborators bootstrap needs.
type Deps struct {
	Store   store.Store
	Auth    auth.Provider
	Logger  *slog.Logger
	Timeout time.Duration // 0 = DefaultTimeout
}

// Result is the outcome of a bootstrap run. Authenticated is false when the
// token is invalid, the email is not on the allow-list, or the sequence timed
// out; in every one of those cases the caller sends the user to login.
type Result struct {
	Authenticated bool
	User          domain.User
	State         session.State
}

// Run resolves the access token into a user and loads their working state.
//
// Run never returns an error: every failure degrades to a logged-out Result.
// A resolved user with a partially failed hydration is still admitted with
// whatever data loaded; the session state fills in on later operations.
func Run(ctx context.Context, deps Deps, accessToken string) *Result {
	timeout := deps.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loggedOut := &Result{}

	users, err := deps.Store.ListUsers(ctx)
	if err != nil {
		deps.Logger.Error("bootstrap could not load the user allow-list", "error", err)
		return loggedOut
	}

	providerSession, err := deps.Auth.GetSession(ctx, accessToken)
	if err != nil {
		deps.Logger.Warn("bootstrap could not resolve the session", "error", err)
		return loggedOut
	}

	user := domain.FindUser(users, providerSession.Email)
	if user == nil {
		deps.Logger.Warn("authenticated email is not on the allow-list", "email", providerSession.Email)
		return loggedOut
	}

	state := session.State{Users: users}

	clients, err := deps.Store.ListClients(ctx)
	if err != nil {
		deps.Logger.Error("bootstrap could not load clients", "error", err, "email", user.Email)
	} else {
		state.Clients = clients
	}

	catalog, err := deps.Store.ListCatalog(ctx)
	if err != nil {
		deps.Logger.Error("bootstrap could not load the gift catalog", "error", err, "email", user.Email)
	} else {
		state.Catalog = catalog
	}

	return &Result{
		Authenticated: true,
		User:          *user,
		State:         state,
	}
}
