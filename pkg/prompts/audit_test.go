package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

func TestBuildAuditRequestEmbedsInputAndDirectives(t *testing.T) {
	cat := catalog.Default()
	req := BuildAuditRequest(model.AuditInput{
		HotelName:      "  Treebo Trend Sapphire ",
		City:           "Gurgaon",
		EvaluationType: "health",
	}, cat)

	assert.True(t, req.Grounding)
	assert.Nil(t, req.Location)
	assert.Contains(t, req.Prompt, `Asset: "Treebo Trend Sapphire"`)
	assert.Contains(t, req.Prompt, `City: "Gurgaon"`)
	assert.Contains(t, req.Prompt, "Mode: Existing Hotel Health Report")

	for _, d := range cat.Directives {
		assert.Contains(t, req.SystemInstruction, d.Name)
	}
	assert.Contains(t, req.SystemInstruction, `"site:treebo.com hotels in Gurgaon"`)
	assert.Contains(t, req.SystemInstruction, "at least 2 third-party listing sources")
	assert.Contains(t, req.SystemInstruction, "exactly these 6 platforms: treebo.com, MakeMyTrip, Booking.com, Agoda, Goibibo, Google Maps")
	assert.Contains(t, req.SystemInstruction, "Benchmark 4 nearby properties")
	assert.NotContains(t, req.SystemInstruction, "{{")
}

func TestBuildAuditRequestLocation(t *testing.T) {
	req := BuildAuditRequest(model.AuditInput{
		HotelName: "Hotel Orchid",
		City:      "Pune",
		Location:  &model.LocationHint{Latitude: 18.5204, Longitude: 73.8567},
	}, catalog.Default())

	require.NotNil(t, req.Location)
	assert.InDelta(t, 18.5204, req.Location.Latitude, 1e-9)
	assert.Contains(t, req.Prompt, "18.52040, 73.85670")
	assert.Contains(t, req.Prompt, "Mode: New Onboarding")
}

func TestBrokenDirectiveTemplateIsSentVerbatim(t *testing.T) {
	cat := catalog.Default()
	cat.Directives = []catalog.Directive{{Name: "BROKEN", Text: "count {{.Nope"}}

	req := BuildAuditRequest(model.AuditInput{HotelName: "Hotel Orchid", City: "Pune"}, cat)
	assert.Contains(t, req.SystemInstruction, "1. BROKEN: count {{.Nope")
}

func TestReportSchemaCoversReport(t *testing.T) {
	s := ReportSchema(catalog.Default())
	require.Equal(t, TypeObject, s.Type)

	for _, field := range []string{
		"executiveSummary", "targetHotelMetrics", "protocolStatus", "roomTypeAudit",
		"treeboPresence", "otaAudit", "competitors", "guestReviews", "scorecard",
		"keyRisks", "commercialUpside", "finalRecommendation", "hardStopFlagged", "hardStopReason",
	} {
		assert.Contains(t, s.Properties, field)
	}
	assert.NotContains(t, s.Properties, "groundingSources")

	for _, req := range s.Required {
		assert.Contains(t, s.Properties, req, "required field %s must be declared", req)
	}

	status := s.Properties["protocolStatus"].Properties["duplicationAudit"]
	assert.Equal(t, []string{"PASS", "WARNING", "FAIL"}, status.Enum)

	ota := s.Properties["otaAudit"]
	require.Equal(t, TypeArray, ota.Type)
	assert.Equal(t, TypeArray, ota.Items.Properties["channelBlockers"].Type)
	assert.True(t, strings.Contains(ota.Items.Properties["platform"].Description, "Google Maps"))
}

func TestSchemaJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(ReportSchema(catalog.Default()).JSON()), &doc))
	assert.Equal(t, "object", doc["type"])
}
