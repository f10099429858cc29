package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newSession(user domain.User, state session.State) *session.Session {
	m := session.NewManager()
	token, err := m.Create(user, "token", state)
	if err != nil {
		panic(err)
	}
	return m.Get(token)
}

func seededCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "i1", Name: "한우 세트", UnitPrice: 10000, TargetCategory: domain.CategoryVIP},
		{ID: "i2", Name: "홍삼 세트", UnitPrice: 80000, TargetCategory: domain.CategoryGeneral},
	}
}

func TestClientService_Save_Create(t *testing.T) {
	mem := store.NewMemory()
	sess := newSession(
		domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"},
		session.State{Catalog: seededCatalog()},
	)
	svc := NewClientService(mem, discard())

	client, err := svc.Save(context.Background(), sess, SaveClientParams{
		Name:     "이사장",
		Company:  "한빛상사",
		Postcode: "06236",
		Address:  "서울 강남구 테헤란로 123",
		Category: domain.CategoryVIP,
		Gift: GiftParams{
			Holiday:       domain.HolidaySeollal,
			CatalogItemID: "i1",
			Quantity:      3,
			Status:        domain.StatusPreparing,
		},
	})
	require.NoError(t, err)

	// Price is the unit price at save time multiplied by quantity.
	require.Len(t, client.GiftHistory, 1)
	gift := client.GiftHistory[0]
	assert.Equal(t, "한우 세트", gift.ItemName)
	assert.Equal(t, int64(30000), gift.Price)
	assert.Equal(t, 3, gift.Quantity)
	assert.Equal(t, time.Now().Year(), gift.Year)

	assert.Equal(t, "김철수", client.RegisteredBy)
	assert.Equal(t, "kim@gschargev.co.kr", client.RegisteredEmail)
	assert.NotEmpty(t, client.ID)

	// Written remotely and prepended to the session state.
	assert.Equal(t, 1, mem.WriteClientCalls)
	snap := sess.Snapshot()
	require.Len(t, snap.Clients, 1)
	assert.Equal(t, client.ID, snap.Clients[0].ID)
}

func TestClientService_Save_GiftDefaults(t *testing.T) {
	mem := store.NewMemory()
	sess := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{})
	svc := NewClientService(mem, discard())

	client, err := svc.Save(context.Background(), sess, SaveClientParams{
		Name:     "이사장",
		Postcode: "06236",
		Address:  "서울",
		Gift:     GiftParams{CatalogItemID: "deleted-item"},
	})
	require.NoError(t, err)

	// Unresolvable catalog reference falls back to the generic item name
	// with a zero price; quantity defaults to one.
	gift := client.GiftHistory[0]
	assert.Equal(t, domain.FallbackItemName, gift.ItemName)
	assert.Equal(t, int64(0), gift.Price)
	assert.Equal(t, 1, gift.Quantity)
	assert.Equal(t, domain.DefaultCategory, client.Category)
}

func TestClientService_Save_ValidationSkipsNetwork(t *testing.T) {
	mem := store.NewMemory()
	sess := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{})
	svc := NewClientService(mem, discard())

	_, err := svc.Save(context.Background(), sess, SaveClientParams{Name: "이사장"})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "postcode")
	assert.Contains(t, ve.Fields, "address")
	assert.Zero(t, mem.WriteClientCalls)
}

func TestClientService_Save_UpdateOwnership(t *testing.T) {
	existing := domain.Client{
		ID:              "c1",
		Name:            "이사장",
		Postcode:        "06236",
		Address:         "서울",
		RegisteredBy:    "홍길동",
		RegisteredEmail: "hong@gschargev.co.kr",
		CreatedAt:       time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	mem := store.NewMemory()
	mem.Seed(nil, []domain.Client{existing}, nil)

	params := SaveClientParams{
		ID:       "c1",
		Name:     "이사장",
		Postcode: "06236",
		Address:  "서울 강남구",
	}

	// A different non-admin user may not touch the record.
	other := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{Clients: []domain.Client{existing}})
	svc := NewClientService(mem, discard())
	_, err := svc.Save(context.Background(), other, params)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	// An admin may, and the registration stamps survive the update.
	admin := newSession(domain.User{Email: "admin@gschargev.co.kr", IsAdmin: true}, session.State{Clients: []domain.Client{existing}})
	updated, err := svc.Save(context.Background(), admin, params)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", updated.RegisteredBy)
	assert.Equal(t, "hong@gschargev.co.kr", updated.RegisteredEmail)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
}

func TestClientService_Save_UpdateKeepsGiftLineID(t *testing.T) {
	mem := store.NewMemory()
	sess := newSession(
		domain.User{Email: "kim@gschargev.co.kr", Name: "김철수"},
		session.State{Catalog: seededCatalog()},
	)
	svc := NewClientService(mem, discard())

	created, err := svc.Save(context.Background(), sess, SaveClientParams{
		Name:     "이사장",
		Postcode: "06236",
		Address:  "서울",
		Gift:     GiftParams{CatalogItemID: "i1", Quantity: 1},
	})
	require.NoError(t, err)
	firstID := created.GiftHistory[0].ID
	require.NotEmpty(t, firstID)

	updated, err := svc.Save(context.Background(), sess, SaveClientParams{
		ID:       created.ID,
		Name:     "이사장",
		Postcode: "06236",
		Address:  "서울",
		Gift:     GiftParams{CatalogItemID: "i1", Quantity: 5},
	})
	require.NoError(t, err)

	// Editing re-snapshots price and quantity but the line is the same line.
	require.Len(t, updated.GiftHistory, 1)
	assert.Equal(t, firstID, updated.GiftHistory[0].ID)
	assert.Equal(t, 5, updated.GiftHistory[0].Quantity)
	assert.Equal(t, int64(50000), updated.GiftHistory[0].Price)
}

func TestClientService_Delete(t *testing.T) {
	existing := domain.Client{ID: "c1", RegisteredEmail: "kim@gschargev.co.kr"}
	mem := store.NewMemory()
	mem.Seed(nil, []domain.Client{existing}, nil)

	svc := NewClientService(mem, discard())

	owner := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{Clients: []domain.Client{existing}})
	require.NoError(t, svc.Delete(context.Background(), owner, "c1"))
	assert.Empty(t, owner.Snapshot().Clients)

	err := svc.Delete(context.Background(), owner, "missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestClientService_Delete_Forbidden(t *testing.T) {
	existing := domain.Client{ID: "c1", RegisteredEmail: "hong@gschargev.co.kr"}
	mem := store.NewMemory()
	mem.Seed(nil, []domain.Client{existing}, nil)

	svc := NewClientService(mem, discard())
	other := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{Clients: []domain.Client{existing}})

	err := svc.Delete(context.Background(), other, "c1")
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	assert.Zero(t, mem.WriteClientCalls)
}

func TestClientService_Save_RemoteFailureLeavesStateUntouched(t *testing.T) {
	mem := store.NewMemory()
	mem.ClientsErr = assert.AnError
	sess := newSession(domain.User{Email: "kim@gschargev.co.kr"}, session.State{})
	svc := NewClientService(mem, discard())

	_, err := svc.Save(context.Background(), sess, SaveClientParams{
		Name:     "이사장",
		Postcode: "06236",
		Address:  "서울",
	})
	assert.Equal(t, domain.EREMOTE, domain.ErrorCode(err))
	assert.Empty(t, sess.Snapshot().Clients)
}
