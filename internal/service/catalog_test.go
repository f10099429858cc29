package service

import (
	"context"
	"testing"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminSession(state session.State) *session.Session {
	return newSession(domain.User{Email: "admin@gschargev.co.kr", IsAdmin: true}, state)
}

func TestCatalogService_AddItem(t *testing.T) {
	mem := store.NewMemory()
	sess := adminSession(session.State{})
	svc := NewCatalogService(mem, discard(), 0)

	item, err := svc.AddItem(context.Background(), sess, AddItemParams{
		Name:           " 한우 세트 ",
		UnitPrice:      150000,
		TargetCategory: domain.CategoryVIP,
	})
	require.NoError(t, err)

	assert.Equal(t, "한우 세트", item.Name)
	assert.NotEmpty(t, item.ID)
	assert.Len(t, sess.Snapshot().Catalog, 1)
	assert.Equal(t, 1, mem.WriteCatalogCalls)
}

func TestCatalogService_AddItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params AddItemParams
	}{
		{"empty name", AddItemParams{Name: "  ", UnitPrice: 1000, TargetCategory: domain.CategoryVIP}},
		{"negative price", AddItemParams{Name: "한우", UnitPrice: -1, TargetCategory: domain.CategoryVIP}},
		{"unknown tier", AddItemParams{Name: "한우", UnitPrice: 1000, TargetCategory: "D"}},
	}

	mem := store.NewMemory()
	svc := NewCatalogService(mem, discard(), 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), adminSession(session.State{}), tt.params)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
	assert.Zero(t, mem.WriteCatalogCalls)
}

func TestCatalogService_AddItem_Timeout(t *testing.T) {
	mem := store.NewMemory()
	mem.InsertDelay = 200 * time.Millisecond
	sess := adminSession(session.State{})
	svc := NewCatalogService(mem, discard(), 20*time.Millisecond)

	start := time.Now()
	_, err := svc.AddItem(context.Background(), sess, AddItemParams{
		Name:           "한우 세트",
		UnitPrice:      150000,
		TargetCategory: domain.CategoryVIP,
	})

	assert.Equal(t, domain.ETIMEOUT, domain.ErrorCode(err))
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	// The session never saw the item.
	assert.Empty(t, sess.Snapshot().Catalog)
}

func TestCatalogService_UpdatePrice(t *testing.T) {
	item := domain.CatalogItem{ID: "i1", Name: "한우 세트", UnitPrice: 100000, TargetCategory: domain.CategoryVIP}
	mem := store.NewMemory()
	mem.Seed(nil, nil, []domain.CatalogItem{item})

	sess := adminSession(session.State{Catalog: []domain.CatalogItem{item}})
	svc := NewCatalogService(mem, discard(), 0)

	require.NoError(t, svc.UpdatePrice(context.Background(), sess, "i1", " 120000 "))
	assert.Equal(t, int64(120000), sess.Snapshot().Catalog[0].UnitPrice)
}

func TestCatalogService_UpdatePrice_BadInputIgnored(t *testing.T) {
	item := domain.CatalogItem{ID: "i1", UnitPrice: 100000}
	mem := store.NewMemory()
	mem.Seed(nil, nil, []domain.CatalogItem{item})

	sess := adminSession(session.State{Catalog: []domain.CatalogItem{item}})
	svc := NewCatalogService(mem, discard(), 0)

	// Garbage and negative input return no error and change nothing.
	require.NoError(t, svc.UpdatePrice(context.Background(), sess, "i1", "abc"))
	require.NoError(t, svc.UpdatePrice(context.Background(), sess, "i1", "-500"))
	require.NoError(t, svc.UpdatePrice(context.Background(), sess, "i1", ""))

	assert.Equal(t, int64(100000), sess.Snapshot().Catalog[0].UnitPrice)
	assert.Zero(t, mem.WriteCatalogCalls)
}

func TestCatalogService_RemoveItem(t *testing.T) {
	item := domain.CatalogItem{ID: "i1"}
	mem := store.NewMemory()
	mem.Seed(nil, nil, []domain.CatalogItem{item})

	sess := adminSession(session.State{Catalog: []domain.CatalogItem{item}})
	svc := NewCatalogService(mem, discard(), 0)

	require.NoError(t, svc.RemoveItem(context.Background(), sess, "i1"))
	assert.Empty(t, sess.Snapshot().Catalog)
}
