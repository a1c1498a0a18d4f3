// Package views derives display orderings and series from a Report. Nothing
// here mutates the Report it reads.
package views

import (
	"sort"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

// SortChannels returns the channels ordered by the catalog priority list.
// Channels matching no priority entry go last in their original order.
func SortChannels(channels []model.Channel, cat *catalog.Catalog) []model.Channel {
	out := make([]model.Channel, len(channels))
	copy(out, channels)

	rank := func(ch model.Channel) int {
		if i := cat.PriorityIndex(ch.Platform); i >= 0 {
			return i
		}
		return len(cat.Priority)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}
