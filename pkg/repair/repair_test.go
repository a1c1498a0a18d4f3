package repair

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

var sapphire = model.AuditInput{
	HotelName:      "Treebo Trend Sapphire",
	City:           "Gurgaon",
	EvaluationType: model.NewOnboarding,
}

func decode(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func repair(t *testing.T, raw map[string]any) *model.Report {
	t.Helper()
	r, _ := Repair(raw, sapphire, catalog.Default())
	require.NotNil(t, r)
	return r
}

func fullPayload() string {
	return `{
	"executiveSummary": {"hotelName": "Treebo Trend Sapphire", "city": "Gurgaon", "evaluationType": "New Onboarding", "finalDecision": "Approve / Continue", "averageScore": 7.8},
	"targetHotelMetrics": {"averageOTARating": 4.1, "estimatedADR": 2850, "adrCurrency": "INR"},
	"protocolStatus": {"duplicationAudit": "PASS", "geoVerification": "warning", "complianceAudit": "FAIL", "notes": "Pin is 300m off"},
	"roomTypeAudit": [{"roomName": "Oak (Standard)", "sizeSqFt": "160", "occupancy": "2", "amenities": ["AC", "WiFi", "ac"], "descriptionAudit": "Consistent", "configRisk": "None"}],
	"treeboPresence": {"cityHotelCount": 24, "nearestHotelName": "Treebo Elite", "nearestHotelDistance": "1.2 km", "marketShareContext": "Strong"},
	"otaAudit": [
		{"platform": "treebo.com", "status": "PASS", "currentRating": "4.3", "channelBlockers": [], "recoveryPlan": []},
		{"platform": "MakeMyTrip", "status": "PASS", "channelBlockers": [], "recoveryPlan": []},
		{"platform": "Booking.com", "status": "WARNING", "channelBlockers": ["Outdated photos"], "recoveryPlan": ["Reshoot"]},
		{"platform": "Agoda", "status": "PASS", "channelBlockers": [], "recoveryPlan": []},
		{"platform": "Goibibo", "status": "FAIL", "channelBlockers": ["Not listed"], "recoveryPlan": ["List property"]},
		{"platform": "Google Maps", "status": "PASS", "channelBlockers": [], "recoveryPlan": []}
	],
	"competitors": [{"name": "FabHotel Prime", "otaRating": 3.9, "estimatedADR": "₹2,400", "distance": "800 m", "category": "Midscale"}],
	"guestReviews": [{"platform": "Google", "positive": ["Clean rooms"], "negative": ["Slow check-in"], "sentimentScore": 78, "recurringThemes": [{"theme": "Staff", "impact": "positive"}]}],
	"scorecard": [{"parameter": "OTA Visibility", "score": 8, "reason": "Listed everywhere"}],
	"keyRisks": ["Parking"],
	"commercialUpside": ["Corporate tie-ups"],
	"topCorporates": ["Genpact"],
	"topTravelAgents": ["Yatra"],
	"conditionalActionPlan": [],
	"finalRecommendation": "Onboard",
	"hardStopFlagged": false
}`
}

func TestRepairKeepsValidPayload(t *testing.T) {
	r, notes := Repair(decode(t, fullPayload()), sapphire, catalog.Default())

	assert.Equal(t, model.ExecutiveSummary{
		HotelName:      "Treebo Trend Sapphire",
		City:           "Gurgaon",
		EvaluationType: model.NewOnboarding,
		FinalDecision:  model.DecisionApprove,
		AverageScore:   7.8,
	}, r.ExecutiveSummary)
	assert.Equal(t, &model.TargetMetrics{AverageOTARating: 4.1, EstimatedADR: 2850, ADRCurrency: "INR"}, r.TargetHotelMetrics)
	assert.Equal(t, model.ProtocolStatus{
		DuplicationAudit: model.Pass(),
		GeoVerification:  model.Warning(),
		ComplianceAudit:  model.Fail(),
		Notes:            "Pin is 300m off",
	}, r.ProtocolStatus)
	require.Len(t, r.RoomTypeAudit, 1)
	assert.Equal(t, []string{"AC", "WiFi"}, r.RoomTypeAudit[0].Amenities)
	assert.Equal(t, 24, r.TreeboPresence.CityHotelCount)
	assert.Len(t, r.OTAAudit, 6)
	assert.Equal(t, "₹2,400", r.Competitors[0].EstimatedADR)
	assert.Equal(t, []string{}, r.Competitors[0].TopPositives)
	assert.Equal(t, model.ImpactPositive, r.GuestReviews[0].RecurringThemes[0].Impact)
	assert.Equal(t, []string{"Genpact"}, r.TopCorporates)
	assert.Equal(t, "Onboard", r.FinalRecommendation)
	assert.Equal(t, []model.GroundingSource{}, r.GroundingSources)

	for _, n := range notes {
		assert.NotContains(t, n, "otaAudit:", "no placeholder expected: %s", n)
	}
}

// Scenario A: only a summary and an empty scorecard come back.
func TestRepairMinimalPayload(t *testing.T) {
	r, notes := Repair(decode(t, `{
		"executiveSummary": {"hotelName": "Treebo Trend Sapphire", "city": "Gurgaon", "evaluationType": "New Onboarding", "finalDecision": "Conditional / Improve", "averageScore": 6.2},
		"scorecard": []
	}`), sapphire, catalog.Default())

	assert.Len(t, r.OTAAudit, 6)
	assert.Equal(t, model.ProtocolStatus{
		DuplicationAudit: model.Warning(),
		GeoVerification:  model.Warning(),
		ComplianceAudit:  model.Warning(),
		Notes:            MissingProtocolNotes,
	}, r.ProtocolStatus)
	assert.Equal(t, []model.Room{}, r.RoomTypeAudit)
	assert.Equal(t, []string{}, r.KeyRisks)
	assert.Equal(t, []model.ScoreEntry{}, r.Scorecard)
	assert.Nil(t, r.TargetHotelMetrics)
	assert.Nil(t, r.TreeboPresence)
	assert.NotEmpty(t, notes)
}

// Scenario B: an existing channel is kept and only its status is normalized.
func TestRepairKeepsExistingChannel(t *testing.T) {
	r := repair(t, decode(t, `{"otaAudit": [{"platform": "Booking.com", "status": "fail"}]}`))

	require.Len(t, r.OTAAudit, 6)
	assert.Equal(t, model.Channel{
		Platform:        "Booking.com",
		Status:          model.Fail(),
		ChannelBlockers: []string{},
		RecoveryPlan:    []string{},
	}, r.OTAAudit[0])

	bookings := 0
	for _, ch := range r.OTAAudit {
		if strings.Contains(strings.ToLower(ch.Platform), "booking") {
			bookings++
		}
	}
	assert.Equal(t, 1, bookings)
}

// P2: every canonical platform is present whatever came back.
func TestRepairCompletesChannels(t *testing.T) {
	cat := catalog.Default()

	t.Run("no channels", func(t *testing.T) {
		r := repair(t, map[string]any{})
		require.Len(t, r.OTAAudit, 6)
		for i, p := range cat.Platforms {
			ch := r.OTAAudit[i]
			assert.Equal(t, p.Name, ch.Platform)
			assert.Equal(t, model.Warning(), ch.Status)
			assert.Equal(t, "N/A", ch.CurrentRating)
			assert.Equal(t, []string{"Platform status not returned"}, ch.ChannelBlockers)
			assert.Equal(t, []string{"Manual verification required for " + p.Name}, ch.RecoveryPlan)
		}
	})

	inputs := []string{
		`{"otaAudit": [{"platform": "MMT"}, {"platform": "GOOGLE BUSINESS"}, {"status": "PASS"}]}`,
		`{"otaAudit": [{"platform": "Expedia", "status": "PASS"}, "Agoda", 3, null]}`,
		`{"otaAudit": {"platform": "Agoda"}}`,
		fullPayload(),
	}
	for i, doc := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			r := repair(t, decode(t, doc))
			for _, p := range cat.Platforms {
				assert.True(t, hasPlatform(r.OTAAudit, p.ID), "missing %s", p.ID)
			}
		})
	}
}

// P1: array fields that are null, scalars or objects become empty sequences.
func TestRepairArraySafety(t *testing.T) {
	bad := []any{nil, "oops", 42.0, true, map[string]any{"a": 1.0}}

	for _, v := range bad {
		t.Run(fmt.Sprintf("%T", v), func(t *testing.T) {
			raw := map[string]any{
				"scorecard":             v,
				"keyRisks":              v,
				"commercialUpside":      v,
				"otaAudit":              v,
				"competitors":           v,
				"roomTypeAudit":         v,
				"guestReviews":          v,
				"topCorporates":         v,
				"topTravelAgents":       v,
				"conditionalActionPlan": v,
			}
			r := repair(t, raw)

			assert.NotNil(t, r.Scorecard)
			assert.Empty(t, r.Scorecard)
			assert.NotNil(t, r.KeyRisks)
			assert.Empty(t, r.KeyRisks)
			assert.NotNil(t, r.CommercialUpside)
			assert.NotNil(t, r.Competitors)
			assert.Empty(t, r.Competitors)
			assert.NotNil(t, r.RoomTypeAudit)
			assert.NotNil(t, r.GuestReviews)
			assert.NotNil(t, r.TopCorporates)
			assert.NotNil(t, r.TopTravelAgents)
			assert.NotNil(t, r.ConditionalActionPlan)
			assert.Len(t, r.OTAAudit, 6)

			out, err := json.Marshal(r)
			require.NoError(t, err)
			assert.NotContains(t, string(out), "null")
		})

		t.Run(fmt.Sprintf("nested %T", v), func(t *testing.T) {
			raw := map[string]any{
				"roomTypeAudit": []any{map[string]any{"roomName": "Oak", "amenities": v}},
				"otaAudit":      []any{map[string]any{"platform": "Agoda", "channelBlockers": v, "recoveryPlan": v}},
				"competitors":   []any{map[string]any{"name": "Fab", "topPositives": v, "topNegatives": v}},
				"guestReviews":  []any{map[string]any{"platform": "Google", "positive": v, "negative": v, "recurringThemes": v}},
			}
			r := repair(t, raw)

			assert.Equal(t, []string{}, r.RoomTypeAudit[0].Amenities)
			assert.Equal(t, []string{}, r.OTAAudit[0].ChannelBlockers)
			assert.Equal(t, []string{}, r.OTAAudit[0].RecoveryPlan)
			assert.Equal(t, []string{}, r.Competitors[0].TopPositives)
			assert.Equal(t, []string{}, r.Competitors[0].TopNegatives)
			assert.Equal(t, []string{}, r.GuestReviews[0].Positive)
			assert.Equal(t, []string{}, r.GuestReviews[0].Negative)
			assert.Equal(t, []model.Theme{}, r.GuestReviews[0].RecurringThemes)
		})
	}
}

func TestRepairMixedSequenceItems(t *testing.T) {
	r := repair(t, decode(t, `{
		"keyRisks": ["Parking", 3, null, {"x": 1}, "  ", true],
		"scorecard": [{"parameter": "Pricing Power", "score": "7.5"}, "junk", null]
	}`))

	assert.Equal(t, []string{"Parking", "3", "true"}, r.KeyRisks)
	assert.Equal(t, []model.ScoreEntry{{Parameter: "Pricing Power", Score: 7.5}}, r.Scorecard)
}

// P4: non-numeric fields fall back to their defaults.
func TestRepairNumericCoercion(t *testing.T) {
	r := repair(t, decode(t, `{
		"executiveSummary": {"hotelName": "Treebo Trend Sapphire", "city": "Gurgaon", "finalDecision": "Reject / Exit", "averageScore": "n/a"},
		"targetHotelMetrics": {"averageOTARating": "great", "estimatedADR": null, "adrCurrency": "INR"},
		"treeboPresence": {"cityHotelCount": "about ten"},
		"competitors": [{"name": "Fab", "otaRating": "four"}],
		"guestReviews": [{"platform": "Google", "sentimentScore": {}}],
		"scorecard": [{"parameter": "Pricing Power", "score": "high"}]
	}`))

	assert.Equal(t, DefaultAverageScore, r.ExecutiveSummary.AverageScore)
	assert.Equal(t, "5.0", fmt.Sprintf("%.1f", r.ExecutiveSummary.AverageScore))
	assert.Equal(t, model.DecisionReject, r.ExecutiveSummary.FinalDecision)
	assert.Zero(t, r.TargetHotelMetrics.AverageOTARating)
	assert.Zero(t, r.TargetHotelMetrics.EstimatedADR)
	assert.Zero(t, r.TreeboPresence.CityHotelCount)
	assert.Zero(t, r.Competitors[0].OTARating)
	assert.Zero(t, r.GuestReviews[0].SentimentScore)
	assert.Zero(t, r.Scorecard[0].Score)
}

func TestRepairClampsRanges(t *testing.T) {
	r := repair(t, decode(t, `{
		"executiveSummary": {"averageScore": 42},
		"targetHotelMetrics": {"averageOTARating": 9, "estimatedADR": -100},
		"treeboPresence": {"cityHotelCount": -3},
		"competitors": [{"otaRating": -1}],
		"guestReviews": [{"sentimentScore": 140}],
		"scorecard": [{"score": "12"}]
	}`))

	assert.Equal(t, 10.0, r.ExecutiveSummary.AverageScore)
	assert.Equal(t, 5.0, r.TargetHotelMetrics.AverageOTARating)
	assert.Zero(t, r.TargetHotelMetrics.EstimatedADR)
	assert.Zero(t, r.TreeboPresence.CityHotelCount)
	assert.Zero(t, r.Competitors[0].OTARating)
	assert.Equal(t, 100.0, r.GuestReviews[0].SentimentScore)
	assert.Equal(t, 10.0, r.Scorecard[0].Score)
}

// P5: a missing summary is rebuilt from the request.
func TestRepairRebuildsExecutiveSummary(t *testing.T) {
	for _, v := range []any{nil, "summary", []any{}, 3.0} {
		r := repair(t, map[string]any{"executiveSummary": v})
		assert.Equal(t, model.ExecutiveSummary{
			HotelName:      sapphire.HotelName,
			City:           sapphire.City,
			EvaluationType: sapphire.EvaluationType,
			FinalDecision:  model.DecisionConditional,
			AverageScore:   5.0,
		}, r.ExecutiveSummary)
	}
}

func TestRepairFillsSummaryGaps(t *testing.T) {
	in := sapphire
	in.EvaluationType = model.ExistingHotelHealthReport

	r, _ := Repair(map[string]any{
		"executiveSummary": map[string]any{"finalDecision": "AUTO REJECT / EXIT", "averageScore": 8.5, "evaluationType": "something"},
	}, in, catalog.Default())

	assert.Equal(t, "Treebo Trend Sapphire", r.ExecutiveSummary.HotelName)
	assert.Equal(t, "Gurgaon", r.ExecutiveSummary.City)
	assert.Equal(t, model.ExistingHotelHealthReport, r.ExecutiveSummary.EvaluationType)
	// score and decision stay independent of each other
	assert.Equal(t, model.DecisionAutoReject, r.ExecutiveSummary.FinalDecision)
	assert.Equal(t, 8.5, r.ExecutiveSummary.AverageScore)
}

func TestRepairUnrecognizedStatuses(t *testing.T) {
	r := repair(t, decode(t, `{
		"protocolStatus": {"duplicationAudit": "Partially verified", "geoVerification": " pass "},
		"otaAudit": [{"platform": "Agoda", "status": "LISTED"}]
	}`))

	assert.Equal(t, model.Status{Level: model.LevelNotAudited, Raw: "Partially verified"}, r.ProtocolStatus.DuplicationAudit)
	assert.Equal(t, model.Pass(), r.ProtocolStatus.GeoVerification)
	assert.Equal(t, model.Status{Level: model.LevelNotAudited}, r.ProtocolStatus.ComplianceAudit)
	assert.Equal(t, "NOT AUDITED (LISTED)", r.OTAAudit[0].Status.String())
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	raw := decode(t, `{"otaAudit": [{"platform": "Booking.com", "status": "fail"}], "keyRisks": "none"}`)
	before := decode(t, `{"otaAudit": [{"platform": "Booking.com", "status": "fail"}], "keyRisks": "none"}`)

	repair(t, raw)

	if diff := cmp.Diff(before, raw); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestRepairIsStableOnItsOwnOutput(t *testing.T) {
	first := repair(t, decode(t, `{"otaAudit": [{"platform": "Agoda", "status": "odd"}], "protocolStatus": {"complianceAudit": "fail"}}`))

	out, err := json.Marshal(first)
	require.NoError(t, err)
	second := repair(t, decode(t, string(out)))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass changed the report (-first +second):\n%s", diff)
	}
}

func TestRepairNilPayload(t *testing.T) {
	r := repair(t, nil)
	assert.Equal(t, "Treebo Trend Sapphire", r.ExecutiveSummary.HotelName)
	assert.Len(t, r.OTAAudit, 6)
}

func TestRepairHardStop(t *testing.T) {
	r := repair(t, decode(t, `{"hardStopFlagged": "true", "hardStopReason": "Unlicensed property"}`))
	assert.True(t, r.HardStopFlagged)
	assert.Equal(t, "Unlicensed property", r.HardStopReason)
}
