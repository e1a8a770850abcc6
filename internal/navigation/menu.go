package navigation

import "github.com/mr1hm/go-disaster-hub/internal/models"

type MenuEntry struct {
	models.NavItem
	Selected bool `json:"selected"`
}

// BuildMenu pairs each item with whether it is the current page. Selection is
// recomputed on every call and never stored.
func BuildMenu(items []models.NavItem, current models.PageID) []MenuEntry {
	menu := make([]MenuEntry, len(items))
	for i, item := range items {
		menu[i] = MenuEntry{NavItem: item, Selected: item.ID == current}
	}
	return menu
}

// Neighbour returns the page offset steps away from current in menu order,
// wrapping at both ends. A current page missing from items yields items[0].
func Neighbour(items []models.NavItem, current models.PageID, offset int) models.PageID {
	if len(items) == 0 {
		return current
	}
	idx := -1
	for i, item := range items {
		if item.ID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items[0].ID
	}
	n := len(items)
	return items[((idx+offset)%n+n)%n].ID
}
