package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/sqlc-dev/pqtype"
)

// =============================================================================
// Postgres Store Implementation
// =============================================================================

// PostgresStore implements Store against a directly reachable Postgres
// database (self-hosted deployments). Schema is managed by the embedded goose
// migrations; gift_history is a jsonb column holding the same camelCase
// record array as the hosted backend.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a store backed by the given database handle.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// =============================================================================
// Users
// =============================================================================

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op = "store.users.list"

	rows, err := s.db.QueryContext(ctx,
		`SELECT email, name, is_admin FROM users ORDER BY name`)
	if err != nil {
		return nil, domain.Remote(err, op, "failed to load user list")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var (
			email, name string
			isAdmin     sql.NullBool
		)
		if err := rows.Scan(&email, &name, &isAdmin); err != nil {
			return nil, domain.Remote(err, op, "failed to read user row")
		}
		users = append(users, domain.User{
			Email:   domain.NormalizeEmail(email),
			Name:    name,
			IsAdmin: isAdmin.Valid && isAdmin.Bool,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Remote(err, op, "failed to read user rows")
	}
	return users, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user domain.User) error {
	const op = "store.users.insert"
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, is_admin) VALUES ($1, $2, $3)`,
		domain.NormalizeEmail(user.Email), user.Name, user.IsAdmin)
	if err != nil {
		return domain.Remote(err, op, "failed to register user")
	}
	return nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, email string) error {
	const op = "store.users.delete"
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE email = $1`, domain.NormalizeEmail(email))
	if err != nil {
		return domain.Remote(err, op, "failed to delete user")
	}
	return nil
}

func (s *PostgresStore) SetUserAdmin(ctx context.Context, email string, isAdmin bool) error {
	const op = "store.users.set_admin"
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_admin = $2 WHERE email = $1`,
		domain.NormalizeEmail(email), isAdmin)
	if err != nil {
		return domain.Remote(err, op, "failed to update admin flag")
	}
	return nil
}

// =============================================================================
// Clients
// =============================================================================

const clientColumns = `id, name, company, position, phone, postcode, address,
	address_detail, category, registered_by, registered_email, gift_history, created_at`

func (s *PostgresStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	const op = "store.clients.list"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Remote(err, op, "failed to load clients")
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, domain.Remote(err, op, "failed to read client row")
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Remote(err, op, "failed to read client rows")
	}
	return clients, nil
}

func scanClient(rows *sql.Rows) (domain.Client, error) {
	var (
		c        domain.Client
		category string
		history  pqtype.NullRawMessage
	)
	err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Position, &c.Phone,
		&c.Postcode, &c.Address, &c.AddressDetail, &category,
		&c.RegisteredBy, &c.RegisteredEmail, &history, &c.CreatedAt)
	if err != nil {
		return domain.Client{}, err
	}

	c.Category = domain.ClientCategory(category)
	if !c.Category.Valid() {
		c.Category = domain.DefaultCategory
	}
	c.RegisteredEmail = domain.NormalizeEmail(c.RegisteredEmail)
	if history.Valid {
		_ = json.Unmarshal(history.RawMessage, &c.GiftHistory)
	}
	return c, nil
}

func (s *PostgresStore) InsertClient(ctx context.Context, client domain.Client) error {
	const op = "store.clients.insert"

	history, err := marshalHistory(client.GiftHistory)
	if err != nil {
		return domain.Internal(err, op, "failed to encode gift history")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, company, position, phone, postcode,
			address, address_detail, category, registered_by, registered_email, gift_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		client.ID, client.Name, client.Company, client.Position, client.Phone,
		client.Postcode, client.Address, client.AddressDetail, string(client.Category),
		client.RegisteredBy, domain.NormalizeEmail(client.RegisteredEmail), history)
	if err != nil {
		return domain.Remote(err, op, "failed to save client")
	}
	return nil
}

func (s *PostgresStore) UpdateClient(ctx context.Context, client domain.Client) error {
	const op = "store.clients.update"

	history, err := marshalHistory(client.GiftHistory)
	if err != nil {
		return domain.Internal(err, op, "failed to encode gift history")
	}

	// id and the registering identity stamps are never written on update.
	_, err = s.db.ExecContext(ctx, `
		UPDATE clients
		SET name = $2, company = $3, position = $4, phone = $5, postcode = $6,
			address = $7, address_detail = $8, category = $9, gift_history = $10
		WHERE id = $1`,
		client.ID, client.Name, client.Company, client.Position, client.Phone,
		client.Postcode, client.Address, client.AddressDetail,
		string(client.Category), history)
	if err != nil {
		return domain.Remote(err, op, "failed to save client")
	}
	return nil
}

func (s *PostgresStore) DeleteClient(ctx context.Context, id string) error {
	const op = "store.clients.delete"
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return domain.Remote(err, op, "failed to delete client")
	}
	return nil
}

func marshalHistory(history []domain.GiftRecord) ([]byte, error) {
	if history == nil {
		history = []domain.GiftRecord{}
	}
	return json.Marshal(history)
}

// =============================================================================
// Catalog
// =============================================================================

func (s *PostgresStore) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	const op = "store.catalog.list"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, unit_price, target_category FROM catalog ORDER BY name`)
	if err != nil {
		return nil, domain.Remote(err, op, "failed to load catalog")
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var (
			item     domain.CatalogItem
			category string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.UnitPrice, &category); err != nil {
			return nil, domain.Remote(err, op, "failed to read catalog row")
		}
		item.TargetCategory = domain.ClientCategory(category)
		if !item.TargetCategory.Valid() {
			item.TargetCategory = domain.DefaultCategory
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Remote(err, op, "failed to read catalog rows")
	}
	return items, nil
}

func (s *PostgresStore) InsertCatalogItem(ctx context.Context, item domain.CatalogItem) error {
	const op = "store.catalog.insert"
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog (id, name, unit_price, target_category) VALUES ($1, $2, $3, $4)`,
		item.ID, item.Name, item.UnitPrice, string(item.TargetCategory))
	if err != nil {
		return domain.Remote(err, op, "failed to register catalog item")
	}
	return nil
}

func (s *PostgresStore) UpdateCatalogPrice(ctx context.Context, id string, unitPrice int64) error {
	const op = "store.catalog.update_price"
	_, err := s.db.ExecContext(ctx,
		`UPDATE catalog SET unit_price = $2 WHERE id = $1`, id, unitPrice)
	if err != nil {
		return domain.Remote(err, op, "failed to update price")
	}
	return nil
}

func (s *PostgresStore) DeleteCatalogItem(ctx context.Context, id string) error {
	const op = "store.catalog.delete"
	if _, err := s.db.ExecContext(ctx, `DELETE FROM catalog WHERE id = $1`, id); err != nil {
		return domain.Remote(err, op, "failed to delete catalog item")
	}
	return nil
}
