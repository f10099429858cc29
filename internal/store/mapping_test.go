package store

import (
	"encoding/json"
	"testing"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminFlag(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"boolean true", true, true},
		{"boolean false", false, false},
		{"legacy upper string", "TRUE", true},
		{"legacy lower string", "true", true},
		{"other string", "yes", false},
		{"nil", nil, false},
		{"number", json.Number("1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAdminFlag(tt.value))
		})
	}
}

func TestUserRow_ToDomain(t *testing.T) {
	var row userRow
	err := json.Unmarshal([]byte(`{"email": " Kim@GSChargeV.co.kr ", "name": " 김관리 ", "is_admin": "TRUE"}`), &row)
	require.NoError(t, err)

	u := row.toDomain()
	assert.Equal(t, "kim@gschargev.co.kr", u.Email)
	assert.Equal(t, "김관리", u.Name)
	assert.True(t, u.IsAdmin)
}

func TestClientRow_ToDomain(t *testing.T) {
	raw := `{
		"id": "1700000000000",
		"name": "김철수",
		"company": "한빛상사",
		"position": "부장",
		"phone": "010-1234-5678",
		"postcode": "06236",
		"address": "서울 강남구 테헤란로 123",
		"address_detail": "5층",
		"category": "A(VIP)",
		"registered_by": "홍길동",
		"registered_email": "Hong@GSChargeV.co.kr",
		"gift_history": [
			{"id": "g1", "year": 2025, "holiday": "설날", "catalogItemId": "i1",
			 "itemName": "한우 세트", "quantity": 2, "price": 300000, "status": "준비중"}
		],
		"created_at": "2025-01-10T09:30:00+00:00"
	}`

	var row clientRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	c := row.toDomain()
	assert.Equal(t, "1700000000000", c.ID)
	assert.Equal(t, domain.CategoryVIP, c.Category)
	assert.Equal(t, "hong@gschargev.co.kr", c.RegisteredEmail)
	require.Len(t, c.GiftHistory, 1)
	assert.Equal(t, "한우 세트", c.GiftHistory[0].ItemName)
	assert.Equal(t, int64(300000), c.GiftHistory[0].Price)
	assert.Equal(t, domain.StatusPreparing, c.GiftHistory[0].Status)
	assert.Equal(t, 2025, c.CreatedAt.Year())
}

func TestClientRow_ToDomain_Defaults(t *testing.T) {
	// Legacy rows: unknown category, null history, missing created_at.
	var row clientRow
	require.NoError(t, json.Unmarshal([]byte(`{"id": "x", "category": "Z", "gift_history": null}`), &row))

	c := row.toDomain()
	assert.Equal(t, domain.DefaultCategory, c.Category)
	assert.Empty(t, c.GiftHistory)
	assert.True(t, c.CreatedAt.IsZero())
}

func TestClientUpdateRow_ExcludesImmutableFields(t *testing.T) {
	row := clientUpdateRow(domain.Client{
		ID:              "abc",
		Name:            "김철수",
		RegisteredBy:    "홍길동",
		RegisteredEmail: "hong@gschargev.co.kr",
	})

	assert.NotContains(t, row, "id")
	assert.NotContains(t, row, "registered_by")
	assert.NotContains(t, row, "registered_email")
	assert.Contains(t, row, "gift_history")
}

func TestCatalogRow_ToDomain(t *testing.T) {
	var row catalogRow
	require.NoError(t, json.Unmarshal([]byte(`{"id": "i1", "name": "홍삼 세트", "unit_price": 80000, "target_category": "B(일반)"}`), &row))

	item := row.toDomain()
	assert.Equal(t, int64(80000), item.UnitPrice)
	assert.Equal(t, domain.CategoryGeneral, item.TargetCategory)
}
