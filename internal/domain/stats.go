package domain

import "strings"

// DashboardStats is derived from the client set; it is never persisted.
type DashboardStats struct {
	TotalClients int              // Count of visible clients
	TotalGifts   int              // Gift lines across visible clients
	TotalBudget  int64            // Sum of gift prices across visible clients
	UserStats    map[string]int   // registeredBy name -> client count, over the FULL set
}

// VisibleClients returns the subset of clients the user may see: their own
// records for regular employees, the full set for administrators.
func VisibleClients(clients []Client, user User) []Client {
	if user.IsAdmin {
		return clients
	}
	var visible []Client
	for _, c := range clients {
		if c.OwnedBy(user.Email) {
			visible = append(visible, c)
		}
	}
	return visible
}

// ComputeStats derives dashboard statistics for the given user.
//
// Counts and budget are computed over the user's visible subset, but
// UserStats is deliberately computed over the entire client set regardless of
// visibility: the dashboard's per-registrant breakdown is a program-wide
// metric shown to every viewer. Callers must pass the unfiltered set.
func ComputeStats(clients []Client, user User) DashboardStats {
	visible := VisibleClients(clients, user)

	stats := DashboardStats{
		TotalClients: len(visible),
		UserStats:    make(map[string]int, len(clients)),
	}
	for _, c := range visible {
		stats.TotalGifts += len(c.GiftHistory)
		stats.TotalBudget += c.GiftTotal()
	}
	for _, c := range clients {
		stats.UserStats[c.RegisteredBy]++
	}
	return stats
}

// FilterClients returns the clients matching a search term by substring over
// name, company, position and registering user. An empty term matches all.
func FilterClients(clients []Client, term string) []Client {
	term = strings.TrimSpace(term)
	if term == "" {
		return clients
	}
	var matched []Client
	for _, c := range clients {
		if strings.Contains(c.Name, term) ||
			strings.Contains(c.Company, term) ||
			strings.Contains(c.Position, term) ||
			strings.Contains(c.RegisteredBy, term) {
			matched = append(matched, c)
		}
	}
	return matched
}
