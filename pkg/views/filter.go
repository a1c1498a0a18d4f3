package views

import (
	"sort"
	"strings"

	"github.com/helmcode/hotel-audit/pkg/model"
)

// AllCategories is the selector that disables competitor filtering.
const AllCategories = "All"

// CategoryFilter is the competitor category selection. The zero value
// selects everything. Toggle returns a new filter and leaves the receiver
// untouched.
type CategoryFilter struct {
	selected []string
}

func NewCategoryFilter() CategoryFilter {
	return CategoryFilter{}
}

// Toggle applies one user click. Toggling "All" clears the selection; the
// first specific category picked while "All" is active starts a fresh
// selection, and removing the last specific category falls back to "All".
func (f CategoryFilter) Toggle(category string) CategoryFilter {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return CategoryFilter{}
	}

	next := make([]string, 0, len(f.selected)+1)
	removed := false
	for _, c := range f.selected {
		if c == category {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, category)
	}
	if len(next) == 0 {
		return CategoryFilter{}
	}
	return CategoryFilter{selected: next}
}

// Selected returns the active selectors, ["All"] when nothing specific is picked.
func (f CategoryFilter) Selected() []string {
	if f.IsAll() {
		return []string{AllCategories}
	}
	out := make([]string, len(f.selected))
	copy(out, f.selected)
	return out
}

func (f CategoryFilter) IsAll() bool {
	return len(f.selected) == 0
}

func (f CategoryFilter) Has(category string) bool {
	if f.IsAll() {
		return strings.EqualFold(category, AllCategories)
	}
	for _, c := range f.selected {
		if c == category {
			return true
		}
	}
	return false
}

// Apply returns the competitors whose category is selected, in their
// original order.
func (f CategoryFilter) Apply(competitors []model.Competitor) []model.Competitor {
	out := make([]model.Competitor, 0, len(competitors))
	for _, c := range competitors {
		if f.IsAll() || f.Has(c.Category) {
			out = append(out, c)
		}
	}
	return out
}

// AvailableCategories lists the distinct non-empty competitor categories,
// sorted.
func AvailableCategories(competitors []model.Competitor) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range competitors {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out
}
