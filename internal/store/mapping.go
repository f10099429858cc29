package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

// =============================================================================
// Wire Row Types
// =============================================================================
//
// Remote rows arrive with snake_case field names and loosely typed values
// (legacy rows carry the admin flag as the strings "TRUE"/"true"). These row
// types and their mapping functions are the single normalization point at the
// store boundary: they are total over all fields and substitute named
// defaults for absent or malformed values.

// userRow is the wire shape of a users table row.
type userRow struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin any    `json:"is_admin"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		Email:   domain.NormalizeEmail(r.Email),
		Name:    strings.TrimSpace(r.Name),
		IsAdmin: parseAdminFlag(r.IsAdmin),
	}
}

func userToRow(u domain.User) map[string]any {
	return map[string]any{
		"email":    domain.NormalizeEmail(u.Email),
		"name":     strings.TrimSpace(u.Name),
		"is_admin": u.IsAdmin,
	}
}

// parseAdminFlag coerces the admin flag from any of its historical wire
// representations: boolean true, or the literal strings "TRUE"/"true".
// Everything else is non-admin.
func parseAdminFlag(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "TRUE" || val == "true"
	default:
		return false
	}
}

// clientRow is the wire shape of a clients table row. gift_history is an
// embedded JSON array whose element keys are camelCase (the shape the records
// were originally written in) and must stay that way.
type clientRow struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Company         string          `json:"company"`
	Position        string          `json:"position"`
	Phone           string          `json:"phone"`
	Postcode        string          `json:"postcode"`
	Address         string          `json:"address"`
	AddressDetail   string          `json:"address_detail"`
	Category        string          `json:"category"`
	RegisteredBy    string          `json:"registered_by"`
	RegisteredEmail string          `json:"registered_email"`
	GiftHistory     json.RawMessage `json:"gift_history"`
	CreatedAt       string          `json:"created_at"`
}

func (r clientRow) toDomain() domain.Client {
	category := domain.ClientCategory(r.Category)
	if !category.Valid() {
		category = domain.DefaultCategory
	}

	var history []domain.GiftRecord
	if len(r.GiftHistory) > 0 {
		// A malformed history column yields an empty history, not an error.
		_ = json.Unmarshal(r.GiftHistory, &history)
	}

	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	return domain.Client{
		ID:              r.ID,
		Name:            r.Name,
		Company:         r.Company,
		Position:        r.Position,
		Phone:           r.Phone,
		Postcode:        r.Postcode,
		Address:         r.Address,
		AddressDetail:   r.AddressDetail,
		Category:        category,
		RegisteredBy:    r.RegisteredBy,
		RegisteredEmail: domain.NormalizeEmail(r.RegisteredEmail),
		GiftHistory:     history,
		CreatedAt:       createdAt,
	}
}

// clientInsertRow is the full wire payload for a new client record.
func clientInsertRow(c domain.Client) map[string]any {
	row := clientUpdateRow(c)
	row["id"] = c.ID
	row["registered_by"] = c.RegisteredBy
	row["registered_email"] = domain.NormalizeEmail(c.RegisteredEmail)
	return row
}

// clientUpdateRow contains only the mutable fields; id and the registering
// identity stamps are never part of an update.
func clientUpdateRow(c domain.Client) map[string]any {
	history := c.GiftHistory
	if history == nil {
		history = []domain.GiftRecord{}
	}
	return map[string]any{
		"name":           c.Name,
		"company":        c.Company,
		"position":       c.Position,
		"phone":          c.Phone,
		"postcode":       c.Postcode,
		"address":        c.Address,
		"address_detail": c.AddressDetail,
		"category":       string(c.Category),
		"gift_history":   history,
	}
}

// catalogRow is the wire shape of a catalog table row.
type catalogRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      json.Number     `json:"unit_price"`
	TargetCategory string          `json:"target_category"`
}

func (r catalogRow) toDomain() domain.CatalogItem {
	price, err := r.UnitPrice.Int64()
	if err != nil || price < 0 {
		price = 0
	}
	category := domain.ClientCategory(r.TargetCategory)
	if !category.Valid() {
		category = domain.DefaultCategory
	}
	return domain.CatalogItem{
		ID:             r.ID,
		Name:           r.Name,
		UnitPrice:      price,
		TargetCategory: category,
	}
}

func catalogToRow(item domain.CatalogItem) map[string]any {
	return map[string]any{
		"id":              item.ID,
		"name":            strings.TrimSpace(item.Name),
		"unit_price":      item.UnitPrice,
		"target_category": string(item.TargetCategory),
	}
}
