package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/metrics"
)

// =============================================================================
// Supabase (PostgREST) Store Implementation
// =============================================================================

// SupabaseConfig holds connection settings for the hosted backend.
type SupabaseConfig struct {
	URL            string        // Project base URL, e.g. https://xyz.supabase.co
	APIKey         string        // anon/service key, sent as apikey + bearer
	RequestTimeout time.Duration // Per-request timeout (0 = 10s default)
}

// SupabaseStore talks to the hosted table store over its REST surface.
// Every operation is a generic select/insert/update/delete against one table;
// row normalization happens in mapping.go.
type SupabaseStore struct {
	config SupabaseConfig
	client *http.Client
	logger *slog.Logger
}

// NewSupabaseStore creates a store backed by the hosted REST API.
func NewSupabaseStore(config SupabaseConfig, logger *slog.Logger) (*SupabaseStore, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}

	return &SupabaseStore{
		config: config,
		client: &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}, nil
}

// =============================================================================
// Users
// =============================================================================

func (s *SupabaseStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op = "store.users.list"

	var rows []userRow
	if err := s.selectRows(ctx, "users", "select=email,name,is_admin", &rows); err != nil {
		return nil, domain.Remote(err, op, "failed to load user list")
	}

	users := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
	}
	return users, nil
}

func (s *SupabaseStore) InsertUser(ctx context.Context, user domain.User) error {
	const op = "store.users.insert"
	if err := s.insertRows(ctx, "users", []map[string]any{userToRow(user)}); err != nil {
		return domain.Remote(err, op, "failed to register user")
	}
	return nil
}

func (s *SupabaseStore) DeleteUser(ctx context.Context, email string) error {
	const op = "store.users.delete"
	filter := "email=eq." + url.QueryEscape(domain.NormalizeEmail(email))
	if err := s.deleteRows(ctx, "users", filter); err != nil {
		return domain.Remote(err, op, "failed to delete user")
	}
	return nil
}

func (s *SupabaseStore) SetUserAdmin(ctx context.Context, email string, isAdmin bool) error {
	const op = "store.users.set_admin"
	filter := "email=eq." + url.QueryEscape(domain.NormalizeEmail(email))
	if err := s.updateRows(ctx, "users", filter, map[string]any{"is_admin": isAdmin}); err != nil {
		return domain.Remote(err, op, "failed to update admin flag")
	}
	return nil
}

// =============================================================================
// Clients
// =============================================================================

func (s *SupabaseStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	const op = "store.clients.list"

	var rows []clientRow
	if err := s.selectRows(ctx, "clients", "select=*&order=created_at.desc", &rows); err != nil {
		return nil, domain.Remote(err, op, "failed to load clients")
	}

	clients := make([]domain.Client, 0, len(rows))
	for _, r := range rows {
		clients = append(clients, r.toDomain())
	}
	return clients, nil
}

func (s *SupabaseStore) InsertClient(ctx context.Context, client domain.Client) error {
	const op = "store.clients.insert"
	if err := s.insertRows(ctx, "clients", []map[string]any{clientInsertRow(client)}); err != nil {
		return domain.Remote(err, op, "failed to save client")
	}
	return nil
}

func (s *SupabaseStore) UpdateClient(ctx context.Context, client domain.Client) error {
	const op = "store.clients.update"
	filter := "id=eq." + url.QueryEscape(client.ID)
	if err := s.updateRows(ctx, "clients", filter, clientUpdateRow(client)); err != nil {
		return domain.Remote(err, op, "failed to save client")
	}
	return nil
}

func (s *SupabaseStore) DeleteClient(ctx context.Context, id string) error {
	const op = "store.clients.delete"
	filter := "id=eq." + url.QueryEscape(id)
	if err := s.deleteRows(ctx, "clients", filter); err != nil {
		return domain.Remote(err, op, "failed to delete client")
	}
	return nil
}

// =============================================================================
// Catalog
// =============================================================================

func (s *SupabaseStore) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	const op = "store.catalog.list"

	var rows []catalogRow
	if err := s.selectRows(ctx, "catalog", "select=*", &rows); err != nil {
		return nil, domain.Remote(err, op, "failed to load catalog")
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (s *SupabaseStore) InsertCatalogItem(ctx context.Context, item domain.CatalogItem) error {
	const op = "store.catalog.insert"
	if err := s.insertRows(ctx, "catalog", []map[string]any{catalogToRow(item)}); err != nil {
		return domain.Remote(err, op, "failed to register catalog item")
	}
	return nil
}

func (s *SupabaseStore) UpdateCatalogPrice(ctx context.Context, id string, unitPrice int64) error {
	const op = "store.catalog.update_price"
	filter := "id=eq." + url.QueryEscape(id)
	if err := s.updateRows(ctx, "catalog", filter, map[string]any{"unit_price": unitPrice}); err != nil {
		return domain.Remote(err, op, "failed to update price")
	}
	return nil
}

func (s *SupabaseStore) DeleteCatalogItem(ctx context.Context, id string) error {
	const op = "store.catalog.delete"
	filter := "id=eq." + url.QueryEscape(id)
	if err := s.deleteRows(ctx, "catalog", filter); err != nil {
		return domain.Remote(err, op, "failed to delete catalog item")
	}
	return nil
}

// =============================================================================
// Generic REST Operations
// =============================================================================

func (s *SupabaseStore) tableURL(table, query string) string {
	u := fmt.Sprintf("%s/rest/v1/%s", s.config.URL, table)
	if query != "" {
		u += "?" + query
	}
	return u
}

func (s *SupabaseStore) selectRows(ctx context.Context, table, query string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tableURL(table, query), nil)
	if err != nil {
		return err
	}

	body, err := s.do(req, table, "select")
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(dest)
}

func (s *SupabaseStore) insertRows(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL(table, ""), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	_, err = s.do(req, table, "insert")
	return err
}

func (s *SupabaseStore) updateRows(ctx context.Context, table, filter string, patch any) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.tableURL(table, filter), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	_, err = s.do(req, table, "update")
	return err
}

func (s *SupabaseStore) deleteRows(ctx context.Context, table, filter string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.tableURL(table, filter), nil)
	if err != nil {
		return err
	}

	_, err = s.do(req, table, "delete")
	return err
}

// do executes a prepared request with auth headers and returns the response
// body, translating non-2xx statuses into errors.
func (s *SupabaseStore) do(req *http.Request, table, op string) ([]byte, error) {
	req.Header.Set("apikey", s.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.StoreRequestsTotal.WithLabelValues(table, op, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.StoreRequestsTotal.WithLabelValues(table, op, "error").Inc()
		s.logger.Error("store request failed",
			"method", req.Method,
			"url", req.URL.Path,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("store returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	metrics.StoreRequestsTotal.WithLabelValues(table, op, "ok").Inc()
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
