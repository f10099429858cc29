package store

import (
	"context"
	"sync"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

// Memory is an in-memory Store for development and tests.
//
// Error fields, the insert delay and call counters are configurable the same
// way as the mock AI provider: set an error to force a failure, set a delay
// to simulate a hung remote call, read the counters to assert how many remote
// operations a code path performed.
type Memory struct {
	mu      sync.Mutex
	users   []domain.User
	clients []domain.Client
	catalog []domain.CatalogItem

	// Configurable failures per operation group
	UsersErr   error
	ClientsErr error
	CatalogErr error

	// InsertDelay makes mutating catalog/client calls block, simulating a
	// hung remote store. The call still completes after the delay unless the
	// context is cancelled first.
	InsertDelay time.Duration

	// Call counters
	ListUserCalls     int
	WriteUserCalls    int
	ListClientCalls   int
	WriteClientCalls  int
	ListCatalogCalls  int
	WriteCatalogCalls int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed replaces the store contents. Intended for test setup.
func (m *Memory) Seed(users []domain.User, clients []domain.Client, catalog []domain.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append([]domain.User(nil), users...)
	m.clients = append([]domain.Client(nil), clients...)
	m.catalog = append([]domain.CatalogItem(nil), catalog...)
}

func (m *Memory) wait(ctx context.Context) error {
	if m.InsertDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.InsertDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// =============================================================================
// Users
// =============================================================================

func (m *Memory) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListUserCalls++
	if m.UsersErr != nil {
		return nil, m.UsersErr
	}
	return append([]domain.User(nil), m.users...), nil
}

func (m *Memory) InsertUser(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteUserCalls++
	if m.UsersErr != nil {
		return m.UsersErr
	}
	user.Email = domain.NormalizeEmail(user.Email)
	m.users = append(m.users, user)
	return nil
}

func (m *Memory) DeleteUser(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteUserCalls++
	if m.UsersErr != nil {
		return m.UsersErr
	}
	email = domain.NormalizeEmail(email)
	kept := m.users[:0]
	for _, u := range m.users {
		if u.Email != email {
			kept = append(kept, u)
		}
	}
	m.users = kept
	return nil
}

func (m *Memory) SetUserAdmin(ctx context.Context, email string, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteUserCalls++
	if m.UsersErr != nil {
		return m.UsersErr
	}
	email = domain.NormalizeEmail(email)
	for i := range m.users {
		if m.users[i].Email == email {
			m.users[i].IsAdmin = isAdmin
		}
	}
	return nil
}

// =============================================================================
// Clients
// =============================================================================

func (m *Memory) ListClients(ctx context.Context) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListClientCalls++
	if m.ClientsErr != nil {
		return nil, m.ClientsErr
	}
	return append([]domain.Client(nil), m.clients...), nil
}

func (m *Memory) InsertClient(ctx context.Context, client domain.Client) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteClientCalls++
	if m.ClientsErr != nil {
		return m.ClientsErr
	}
	m.clients = append([]domain.Client{client}, m.clients...)
	return nil
}

func (m *Memory) UpdateClient(ctx context.Context, client domain.Client) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteClientCalls++
	if m.ClientsErr != nil {
		return m.ClientsErr
	}
	for i := range m.clients {
		if m.clients[i].ID == client.ID {
			// Registration stamps and created_at are immutable.
			client.RegisteredBy = m.clients[i].RegisteredBy
			client.RegisteredEmail = m.clients[i].RegisteredEmail
			client.CreatedAt = m.clients[i].CreatedAt
			m.clients[i] = client
		}
	}
	return nil
}

func (m *Memory) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteClientCalls++
	if m.ClientsErr != nil {
		return m.ClientsErr
	}
	kept := m.clients[:0]
	for _, c := range m.clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.clients = kept
	return nil
}

// =============================================================================
// Catalog
// =============================================================================

func (m *Memory) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCatalogCalls++
	if m.CatalogErr != nil {
		return nil, m.CatalogErr
	}
	return append([]domain.CatalogItem(nil), m.catalog...), nil
}

func (m *Memory) InsertCatalogItem(ctx context.Context, item domain.CatalogItem) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCatalogCalls++
	if m.CatalogErr != nil {
		return m.CatalogErr
	}
	m.catalog = append(m.catalog, item)
	return nil
}

func (m *Memory) UpdateCatalogPrice(ctx context.Context, id string, unitPrice int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCatalogCalls++
	if m.CatalogErr != nil {
		return m.CatalogErr
	}
	for i := range m.catalog {
		if m.catalog[i].ID == id {
			m.catalog[i].UnitPrice = unitPrice
		}
	}
	return nil
}

func (m *Memory) DeleteCatalogItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCatalogCalls++
	if m.CatalogErr != nil {
		return m.CatalogErr
	}
	kept := m.catalog[:0]
	for _, item := range m.catalog {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.catalog = kept
	return nil
}
