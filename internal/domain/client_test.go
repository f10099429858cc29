package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientCategory_Valid(t *testing.T) {
	tests := []struct {
		name     string
		category ClientCategory
		want     bool
	}{
		{"vip", CategoryVIP, true},
		{"general", CategoryGeneral, true},
		{"prospect", CategoryProspect, true},
		{"empty", ClientCategory(""), false},
		{"unknown", ClientCategory("D(기타)"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.Valid())
		})
	}
}

func TestGiftStatus_Valid(t *testing.T) {
	for _, s := range GiftStatuses() {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}
	assert.False(t, GiftStatus("완료").Valid())
}

func TestClient_CurrentGift(t *testing.T) {
	c := &Client{}
	assert.Nil(t, c.CurrentGift())

	c.GiftHistory = []GiftRecord{
		{ID: "new", Price: 10000},
		{ID: "old", Price: 5000},
	}
	assert.Equal(t, "new", c.CurrentGift().ID)
}

func TestClient_GiftTotal(t *testing.T) {
	c := &Client{GiftHistory: []GiftRecord{
		{Price: 30000},
		{Price: 25000},
		{Price: 5000},
	}}
	assert.Equal(t, int64(60000), c.GiftTotal())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "kim@gschargev.co.kr", NormalizeEmail("  Kim@GSChargeV.co.kr "))
}

func TestHasDomainSuffix(t *testing.T) {
	assert.True(t, HasDomainSuffix("Kim@GSCHARGEV.CO.KR", "@gschargev.co.kr"))
	assert.False(t, HasDomainSuffix("kim@gmail.com", "@gschargev.co.kr"))
}

func TestFindCatalogItem(t *testing.T) {
	catalog := []CatalogItem{
		{ID: "1", Name: "한우 세트", UnitPrice: 150000, TargetCategory: CategoryVIP},
		{ID: "2", Name: "참치 세트", UnitPrice: 50000, TargetCategory: CategoryGeneral},
	}

	assert.Equal(t, "한우 세트", FindCatalogItem(catalog, "1").Name)
	assert.Nil(t, FindCatalogItem(catalog, "99"))
}

func TestCatalogForCategory(t *testing.T) {
	catalog := []CatalogItem{
		{ID: "1", TargetCategory: CategoryVIP},
		{ID: "2", TargetCategory: CategoryGeneral},
		{ID: "3", TargetCategory: CategoryVIP},
	}

	vip := CatalogForCategory(catalog, CategoryVIP)
	assert.Len(t, vip, 2)
	assert.Empty(t, CatalogForCategory(catalog, CategoryProspect))
}
