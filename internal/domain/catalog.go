package domain

// FallbackItemName is used when a gift line references a catalog item that
// no longer resolves (e.g., the item was deleted after the line was drafted).
const FallbackItemName = "기타"

// CatalogItem is a purchasable gift SKU, scoped to exactly one client tier.
type CatalogItem struct {
	ID             string
	Name           string
	UnitPrice      int64 // Non-negative, in won
	TargetCategory ClientCategory
}

// FindCatalogItem returns the item with the given ID, or nil.
func FindCatalogItem(catalog []CatalogItem, id string) *CatalogItem {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

// CatalogForCategory returns the items selectable for clients of the given
// tier, preserving order.
func CatalogForCategory(catalog []CatalogItem, category ClientCategory) []CatalogItem {
	var items []CatalogItem
	for _, item := range catalog {
		if item.TargetCategory == category {
			items = append(items, item)
		}
	}
	return items
}
