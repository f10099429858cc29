// Package service contains the business logic layer.
//
// Services read the signed-in session's working state, perform the remote
// write first, and only apply the change to the session state after the
// remote store accepted it. The session lock is never held across a network
// call.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/metrics"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// ClientService defines the interface for client record operations.
type ClientService interface {
	// Save creates or updates a client record. A params.ID of "" means create.
	// Returns domain.EINVALID (validation error) before any network call when
	// required fields are missing.
	// Returns domain.EFORBIDDEN when a non-admin updates someone else's record.
	Save(ctx context.Context, sess *session.Session, params SaveClientParams) (*domain.Client, error)

	// Delete removes a client record.
	// Returns domain.EFORBIDDEN when a non-admin deletes someone else's record.
	// Returns domain.ENOTFOUND when the record is unknown.
	Delete(ctx context.Context, sess *session.Session, id string) error
}

// GiftParams is the gift shipment draft attached to a client save.
type GiftParams struct {
	Year          int // 0 = current year
	Holiday       domain.Holiday
	CatalogItemID string
	Quantity      int // <= 0 defaults to 1
	Status        domain.GiftStatus
	Note          string
}

// SaveClientParams carries the client form fields.
type SaveClientParams struct {
	ID            string // "" = create
	Name          string
	Company       string
	Position      string
	Phone         string
	Postcode      string
	Address       string
	AddressDetail string
	Category      domain.ClientCategory
	Gift          GiftParams
}

// =============================================================================
// Implementation
// =============================================================================

type clientService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewClientService creates a new ClientService.
func NewClientService(st store.Store, logger *slog.Logger) ClientService {
	return &clientService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// Save
// =============================================================================

func (s *clientService) Save(ctx context.Context, sess *session.Session, params SaveClientParams) (*domain.Client, error) {
	const op = "client.save"

	if err := validateClientParams(op, params); err != nil {
		return nil, err
	}

	state := sess.Snapshot()
	user := sess.User

	client := domain.Client{
		ID:            params.ID,
		Name:          strings.TrimSpace(params.Name),
		Company:       strings.TrimSpace(params.Company),
		Position:      strings.TrimSpace(params.Position),
		Phone:         strings.TrimSpace(params.Phone),
		Postcode:      strings.TrimSpace(params.Postcode),
		Address:       strings.TrimSpace(params.Address),
		AddressDetail: strings.TrimSpace(params.AddressDetail),
		Category:      params.Category,
	}
	if !client.Category.Valid() {
		client.Category = domain.DefaultCategory
	}

	gift := s.materializeGift(params.Gift, state.Catalog)
	client.GiftHistory = []domain.GiftRecord{gift}

	if params.ID == "" {
		return s.create(ctx, sess, client, user)
	}
	return s.update(ctx, sess, client, user, state.Clients)
}

func (s *clientService) create(ctx context.Context, sess *session.Session, client domain.Client, user domain.User) (*domain.Client, error) {
	const op = "client.create"

	client.ID = uuid.NewString()
	client.RegisteredBy = user.Name
	client.RegisteredEmail = user.Email
	client.CreatedAt = s.now()

	if err := s.store.InsertClient(ctx, client); err != nil {
		s.logger.Error("failed to create client", "error", err, "user", user.Email)
		return nil, domain.Remote(err, op, "거래처 저장에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		state.Clients = append([]domain.Client{client}, state.Clients...)
	})

	metrics.ClientsSaved.WithLabelValues("create").Inc()
	s.logger.Info("client created", "client_id", client.ID, "user", user.Email)
	return &client, nil
}

func (s *clientService) update(ctx context.Context, sess *session.Session, client domain.Client, user domain.User, clients []domain.Client) (*domain.Client, error) {
	const op = "client.update"

	var existing *domain.Client
	for i := range clients {
		if clients[i].ID == client.ID {
			existing = &clients[i]
			break
		}
	}
	if existing == nil {
		return nil, domain.NotFound(op, "client", client.ID)
	}
	if !user.IsAdmin && !existing.OwnedBy(user.Email) {
		return nil, domain.Forbidden(op, "본인이 등록한 거래처만 수정할 수 있습니다.")
	}

	// Registration stamps never change on update.
	client.RegisteredBy = existing.RegisteredBy
	client.RegisteredEmail = existing.RegisteredEmail
	client.CreatedAt = existing.CreatedAt

	// The gift line keeps its identity across edits; a fresh id is minted
	// only when the record had no line yet.
	if g := existing.CurrentGift(); g != nil && len(client.GiftHistory) > 0 {
		client.GiftHistory[0].ID = g.ID
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", client.ID, "user", user.Email)
		return nil, domain.Remote(err, op, "거래처 저장에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		for i := range state.Clients {
			if state.Clients[i].ID == client.ID {
				state.Clients[i] = client
			}
		}
	})

	metrics.ClientsSaved.WithLabelValues("update").Inc()
	s.logger.Info("client updated", "client_id", client.ID, "user", user.Email)
	return &client, nil
}

// materializeGift turns the gift draft into a frozen gift record. The item
// name and price are snapshotted from the catalog at this moment; later
// catalog edits never touch saved lines.
func (s *clientService) materializeGift(params GiftParams, catalog []domain.CatalogItem) domain.GiftRecord {
	quantity := params.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	year := params.Year
	if year == 0 {
		year = s.now().Year()
	}

	holiday := params.Holiday
	if !holiday.Valid() {
		holiday = domain.HolidaySeollal
	}

	status := params.Status
	if !status.Valid() {
		status = domain.StatusPreparing
	}

	itemName := domain.FallbackItemName
	var price int64
	if item := domain.FindCatalogItem(catalog, params.CatalogItemID); item != nil {
		itemName = item.Name
		price = item.UnitPrice * int64(quantity)
	}

	return domain.GiftRecord{
		ID:            uuid.NewString(),
		Year:          year,
		Holiday:       holiday,
		CatalogItemID: params.CatalogItemID,
		ItemName:      itemName,
		Quantity:      quantity,
		Price:         price,
		Status:        status,
		Note:          strings.TrimSpace(params.Note),
	}
}

// validateClientParams rejects incomplete addresses before any network call.
func validateClientParams(op string, params SaveClientParams) error {
	v := &domain.ValidationError{Op: op, Fields: map[string]string{}}
	if strings.TrimSpace(params.Name) == "" {
		v.Fields["name"] = "성함을 입력해 주세요."
	}
	if strings.TrimSpace(params.Postcode) == "" {
		v.Fields["postcode"] = "우편번호를 입력해 주세요."
	}
	if strings.TrimSpace(params.Address) == "" {
		v.Fields["address"] = "주소를 입력해 주세요."
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// =============================================================================
// Delete
// =============================================================================

func (s *clientService) Delete(ctx context.Context, sess *session.Session, id string) error {
	const op = "client.delete"

	state := sess.Snapshot()
	user := sess.User

	var existing *domain.Client
	for i := range state.Clients {
		if state.Clients[i].ID == id {
			existing = &state.Clients[i]
			break
		}
	}
	if existing == nil {
		return domain.NotFound(op, "client", id)
	}
	if !user.IsAdmin && !existing.OwnedBy(user.Email) {
		return domain.Forbidden(op, "본인이 등록한 거래처만 삭제할 수 있습니다.")
	}

	if err := s.store.DeleteClient(ctx, id); err != nil {
		s.logger.Error("failed to delete client", "error", err, "client_id", id, "user", user.Email)
		return domain.Remote(err, op, "거래처 삭제에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		kept := state.Clients[:0]
		for _, c := range state.Clients {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		state.Clients = kept
	})

	metrics.ClientsSaved.WithLabelValues("delete").Inc()
	s.logger.Info("client deleted", "client_id", id, "user", user.Email)
	return nil
}
