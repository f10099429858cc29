// Package domain contains core business types and pure functions.
//
// This file defines the User domain type. Users form the allow-list of
// employees permitted to sign in; they are never self-registered and are
// managed exclusively by administrators.
package domain

import "strings"

// User represents an allow-listed employee of the gifting program.
//
// Email is the unique key and is always stored trimmed and lower-cased.
// The allow-list is independent of the auth provider's own account store:
// a provider session is only honoured when its email matches an entry here.
type User struct {
	Email   string // Unique key, normalized to lower-case
	Name    string // Display name, used as the registeredBy stamp
	IsAdmin bool   // Administrators see all client records
}

// NormalizeEmail trims surrounding whitespace and lower-cases an email
// address. All email comparisons in the application go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasDomainSuffix reports whether the (normalized) email belongs to the
// corporate domain.
func HasDomainSuffix(email, suffix string) bool {
	return strings.HasSuffix(NormalizeEmail(email), strings.ToLower(suffix))
}

// FindUser returns the allow-list entry matching the email, or nil.
func FindUser(users []User, email string) *User {
	email = NormalizeEmail(email)
	for i := range users {
		if NormalizeEmail(users[i].Email) == email {
			return &users[i]
		}
	}
	return nil
}
