// Package domain contains core business types and pure functions.
//
// This file defines the Client domain type and its embedded gift records.
// A client is a gift recipient registered by an employee; the registering
// identity is the basis for row-level visibility.
package domain

import "time"

// =============================================================================
// Enumerations
// =============================================================================

// ClientCategory is the price tier of a client. Catalog items are scoped to
// exactly one tier and are only selectable for clients of that tier.
type ClientCategory string

const (
	CategoryVIP      ClientCategory = "A(VIP)"
	CategoryGeneral  ClientCategory = "B(일반)"
	CategoryProspect ClientCategory = "C(잠재)"
)

// DefaultCategory is the tier assigned when none is chosen.
const DefaultCategory = CategoryGeneral

// Categories returns all client tiers in display order.
func Categories() []ClientCategory {
	return []ClientCategory{CategoryVIP, CategoryGeneral, CategoryProspect}
}

// Valid reports whether c is a known tier.
func (c ClientCategory) Valid() bool {
	switch c {
	case CategoryVIP, CategoryGeneral, CategoryProspect:
		return true
	default:
		return false
	}
}

// Holiday is one of the two gifting occasions.
type Holiday string

const (
	HolidaySeollal Holiday = "설날"
	HolidayChuseok Holiday = "추석"
)

// Holidays returns both occasions in display order.
func Holidays() []Holiday {
	return []Holiday{HolidaySeollal, HolidayChuseok}
}

// Valid reports whether h is a known occasion.
func (h Holiday) Valid() bool {
	return h == HolidaySeollal || h == HolidayChuseok
}

// GiftStatus tracks a shipment through its lifecycle.
type GiftStatus string

const (
	StatusPreparing GiftStatus = "준비중"
	StatusShipped   GiftStatus = "발송완료"
	StatusInTransit GiftStatus = "배송중"
	StatusConfirmed GiftStatus = "수령확인"
)

// GiftStatuses returns all shipment statuses in lifecycle order.
func GiftStatuses() []GiftStatus {
	return []GiftStatus{StatusPreparing, StatusShipped, StatusInTransit, StatusConfirmed}
}

// Valid reports whether s is a known status.
func (s GiftStatus) Valid() bool {
	switch s {
	case StatusPreparing, StatusShipped, StatusInTransit, StatusConfirmed:
		return true
	default:
		return false
	}
}

// =============================================================================
// Gift Record
// =============================================================================

// GiftRecord is one gift shipment line embedded in a Client.
//
// ItemName and Price are a denormalized snapshot of the catalog item at the
// moment of save: Price = unit price × quantity, frozen even if the catalog
// item later changes or is deleted. CatalogItemID is a weak reference only.
//
// The JSON tags are the wire shape stored in the clients.gift_history column
// and must not change.
type GiftRecord struct {
	ID            string     `json:"id"`
	Year          int        `json:"year"`
	Holiday       Holiday    `json:"holiday"`
	CatalogItemID string     `json:"catalogItemId"`
	ItemName      string     `json:"itemName"`
	Quantity      int        `json:"quantity"`
	Price         int64      `json:"price"`
	Status        GiftStatus `json:"status"`
	Note          string     `json:"note,omitempty"`
}

// =============================================================================
// Client
// =============================================================================

// Client represents a gift recipient/contact.
//
// The schema allows an arbitrary-length GiftHistory even though the editing
// flow only ever writes a single-element list; nothing here may assume
// len(GiftHistory) <= 1.
type Client struct {
	ID              string
	Name            string
	Company         string
	Position        string
	Phone           string
	Postcode        string
	Address         string
	AddressDetail   string
	Category        ClientCategory
	RegisteredBy    string // Display name of the creating user
	RegisteredEmail string // Creating user's email; ownership key for access control
	GiftHistory     []GiftRecord
	CreatedAt       time.Time // Default newest-first ordering only
}

// CurrentGift returns the most recent gift line, or nil if none exists.
// Value receiver so templates can call it on range variables.
func (c Client) CurrentGift() *GiftRecord {
	if len(c.GiftHistory) == 0 {
		return nil
	}
	return &c.GiftHistory[0]
}

// GiftTotal returns the sum of gift prices across the whole history.
func (c Client) GiftTotal() int64 {
	var total int64
	for _, g := range c.GiftHistory {
		total += g.Price
	}
	return total
}

// OwnedBy reports whether the client record was registered by the given email.
func (c Client) OwnedBy(email string) bool {
	return NormalizeEmail(c.RegisteredEmail) == NormalizeEmail(email)
}
