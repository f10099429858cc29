// Package store provides access to the remote data store holding the three
// application tables: users, clients and catalog.
//
// The store is the single source of truth; the application's in-memory state
// is a cache hydrated at login and mutated only after a confirmed write here.
//
// Implementations:
//   - SupabaseStore: PostgREST-style HTTP client (hosted backend-as-a-service)
//   - PostgresStore: direct SQL access for self-hosted deployments
//   - Memory: in-memory store for development and tests
package store

import (
	"context"

	"github.com/gschargev/giftdesk/internal/domain"
)

// Store defines the operations the application performs against the remote
// tables. No server-side joins exist; every method touches a single table.
//
// All methods are context-aware. Failures are returned as *domain.Error with
// code EREMOTE; callers must not apply the corresponding local mutation when
// an error is returned.
type Store interface {
	// ListUsers returns the full user allow-list, normalized at the boundary
	// (trimmed lower-case emails, admin flag coerced from legacy string
	// representations).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// InsertUser adds an allow-list entry keyed by email.
	InsertUser(ctx context.Context, user domain.User) error

	// DeleteUser removes an allow-list entry by email.
	DeleteUser(ctx context.Context, email string) error

	// SetUserAdmin updates the admin flag for the given email.
	SetUserAdmin(ctx context.Context, email string, isAdmin bool) error

	// ListClients returns all client records, newest first (created_at desc).
	ListClients(ctx context.Context) ([]domain.Client, error)

	// InsertClient creates a client record with its embedded gift history.
	InsertClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates the mutable fields of a client keyed by ID.
	// ID, registered_by and registered_email are never written.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client record by ID.
	DeleteClient(ctx context.Context, id string) error

	// ListCatalog returns all gift catalog items.
	ListCatalog(ctx context.Context) ([]domain.CatalogItem, error)

	// InsertCatalogItem creates a catalog item.
	InsertCatalogItem(ctx context.Context, item domain.CatalogItem) error

	// UpdateCatalogPrice updates the unit price of an item by ID.
	UpdateCatalogPrice(ctx context.Context, id string, unitPrice int64) error

	// DeleteCatalogItem removes an item by ID. Deletion is immediate, not
	// soft; gift lines holding the stale ID keep their denormalized snapshot.
	DeleteCatalogItem(ctx context.Context, id string) error
}
