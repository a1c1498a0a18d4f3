package repair

import (
	"strings"

	"github.com/helmcode/hotel-audit/pkg/model"
)

const defaultSourceTitle = "Source"

// GroundingSources keeps the web and maps citations attached to an answer.
func GroundingSources(citations []model.Citation) []model.GroundingSource {
	sources := make([]model.GroundingSource, 0, len(citations))
	for _, c := range citations {
		if c.Kind != model.CitationWeb && c.Kind != model.CitationMaps {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = defaultSourceTitle
		}
		sources = append(sources, model.GroundingSource{Title: title, URI: c.URI})
	}
	return sources
}
