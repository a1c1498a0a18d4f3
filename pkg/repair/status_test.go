package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helmcode/hotel-audit/pkg/model"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want model.Status
	}{
		{"pass", "PASS", model.Pass()},
		{"lower case", "warning", model.Warning()},
		{"padded", "  Fail\n", model.Fail()},
		{"unknown text", "Listed with issues", model.Status{Level: model.LevelNotAudited, Raw: "Listed with issues"}},
		{"explicit not audited", " not_audited ", model.Status{Level: model.LevelNotAudited, Raw: "not_audited"}},
		{"null", nil, model.Status{Level: model.LevelNotAudited}},
		{"number", 3.0, model.Status{Level: model.LevelNotAudited, Raw: "3"}},
		{"normalized value", model.Fail(), model.Fail()},
		{"serialized form", map[string]any{"level": "NOT_AUDITED", "raw": "pending"}, model.Status{Level: model.LevelNotAudited, Raw: "pending"}},
		{"serialized pass", map[string]any{"level": "PASS"}, model.Pass()},
		{"serialized without raw", map[string]any{"level": "NOT_AUDITED"}, model.Status{Level: model.LevelNotAudited}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStatus(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeStatus(got), "not idempotent")
		})
	}
}

func TestGroundingSources(t *testing.T) {
	got := GroundingSources([]model.Citation{
		{Kind: model.CitationWeb, Title: "MakeMyTrip listing", URI: "https://www.makemytrip.com/hotels/x"},
		{Kind: model.CitationOther, Title: "ignored", URI: "https://example.com"},
		{Kind: model.CitationMaps, Title: "  ", URI: "https://maps.google.com/?cid=1"},
		{Kind: model.CitationWeb, Title: "No link"},
	})

	assert.Equal(t, []model.GroundingSource{
		{Title: "MakeMyTrip listing", URI: "https://www.makemytrip.com/hotels/x"},
		{Title: "Source", URI: "https://maps.google.com/?cid=1"},
		{Title: "No link"},
	}, got)

	assert.Equal(t, []model.GroundingSource{}, GroundingSources(nil))
}
