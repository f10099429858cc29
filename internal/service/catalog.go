package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/metrics"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
)

// DefaultInsertTimeout is how long AddItem waits for the remote store before
// giving up and reporting a timeout to the user.
const DefaultInsertTimeout = 8 * time.Second

// =============================================================================
// Interface Definition
// =============================================================================

// CatalogService defines the interface for gift catalog administration.
// All operations are admin-only; the middleware enforces that before the
// service is reached.
type CatalogService interface {
	// AddItem adds a gift SKU to the catalog.
	// Returns domain.EINVALID for an empty name, a negative price or an
	// unknown tier, before any network call.
	// Returns domain.ETIMEOUT when the remote store does not answer within
	// the insert timeout; the underlying write is left running and may still
	// land, so the caller should refresh rather than retry blindly.
	AddItem(ctx context.Context, sess *session.Session, params AddItemParams) (*domain.CatalogItem, error)

	// UpdatePrice sets a new unit price from raw form input. Unparseable or
	// negative input is ignored without error; prices of saved gift lines are
	// never touched.
	UpdatePrice(ctx context.Context, sess *session.Session, id, rawPrice string) error

	// RemoveItem deletes a SKU. Saved gift lines keep their snapshots.
	RemoveItem(ctx context.Context, sess *session.Session, id string) error
}

// AddItemParams carries the catalog form fields.
type AddItemParams struct {
	Name           string
	UnitPrice      int64
	TargetCategory domain.ClientCategory
}

// =============================================================================
// Implementation
// =============================================================================

type catalogService struct {
	store         store.Store
	logger        *slog.Logger
	insertTimeout time.Duration
}

// NewCatalogService creates a new CatalogService. A zero insertTimeout uses
// DefaultInsertTimeout.
func NewCatalogService(st store.Store, logger *slog.Logger, insertTimeout time.Duration) CatalogService {
	if insertTimeout == 0 {
		insertTimeout = DefaultInsertTimeout
	}
	return &catalogService{
		store:         st,
		logger:        logger,
		insertTimeout: insertTimeout,
	}
}

func (s *catalogService) AddItem(ctx context.Context, sess *session.Session, params AddItemParams) (*domain.CatalogItem, error) {
	const op = "catalog.add_item"

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, domain.Invalid(op, "품목명을 입력해 주세요.")
	}
	if params.UnitPrice < 0 {
		return nil, domain.Invalid(op, "단가는 0 이상이어야 합니다.")
	}
	if !params.TargetCategory.Valid() {
		return nil, domain.Invalid(op, "등급을 선택해 주세요.")
	}

	item := domain.CatalogItem{
		ID:             uuid.NewString(),
		Name:           name,
		UnitPrice:      params.UnitPrice,
		TargetCategory: params.TargetCategory,
	}

	// Race the insert against a deadline. On timeout the write keeps running
	// detached; it may still land on the remote store later.
	done := make(chan error, 1)
	go func() {
		done <- s.store.InsertCatalogItem(context.WithoutCancel(ctx), item)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("failed to add catalog item", "error", err, "name", name)
			return nil, domain.Remote(err, op, "품목 추가에 실패했습니다.")
		}
	case <-time.After(s.insertTimeout):
		s.logger.Warn("catalog insert timed out", "name", name, "timeout", s.insertTimeout)
		return nil, domain.Timeout(op, "서버 응답이 없습니다. 잠시 후 목록을 새로고침해 주세요.")
	case <-ctx.Done():
		return nil, domain.Timeout(op, "요청이 취소되었습니다.")
	}

	sess.Update(func(state *session.State) {
		state.Catalog = append(state.Catalog, item)
	})

	metrics.CatalogChanges.WithLabelValues("add").Inc()
	s.logger.Info("catalog item added", "item_id", item.ID, "name", name)
	return &item, nil
}

func (s *catalogService) UpdatePrice(ctx context.Context, sess *session.Session, id, rawPrice string) error {
	const op = "catalog.update_price"

	price, err := strconv.ParseInt(strings.TrimSpace(rawPrice), 10, 64)
	if err != nil || price < 0 {
		// Bad input leaves the current price in place.
		return nil
	}

	state := sess.Snapshot()
	if domain.FindCatalogItem(state.Catalog, id) == nil {
		return domain.NotFound(op, "catalog item", id)
	}

	if err := s.store.UpdateCatalogPrice(ctx, id, price); err != nil {
		s.logger.Error("failed to update catalog price", "error", err, "item_id", id)
		return domain.Remote(err, op, "단가 변경에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		for i := range state.Catalog {
			if state.Catalog[i].ID == id {
				state.Catalog[i].UnitPrice = price
			}
		}
	})

	metrics.CatalogChanges.WithLabelValues("update_price").Inc()
	return nil
}

func (s *catalogService) RemoveItem(ctx context.Context, sess *session.Session, id string) error {
	const op = "catalog.remove_item"

	if err := s.store.DeleteCatalogItem(ctx, id); err != nil {
		s.logger.Error("failed to remove catalog item", "error", err, "item_id", id)
		return domain.Remote(err, op, "품목 삭제에 실패했습니다.")
	}

	sess.Update(func(state *session.State) {
		kept := state.Catalog[:0]
		for _, item := range state.Catalog {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		state.Catalog = kept
	})

	metrics.CatalogChanges.WithLabelValues("remove").Inc()
	return nil
}
