// Package repair turns the untrusted JSON object returned by the AI service
// into a model.Report that is safe to render. It never fails: missing or
// malformed fields are replaced with labeled defaults.
package repair

import (
	"fmt"
	"math"
	"strings"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

const (
	// DefaultAverageScore is neutral on purpose: 0 would read as an automatic rejection.
	DefaultAverageScore = 5.0

	MissingChannelBlocker = "Platform status not returned"
	MissingChannelRating  = "N/A"
	MissingProtocolNotes  = "Protocol audit was not returned by the audit engine; all checks default to WARNING."
)

// Repair builds a Report from raw without modifying it. The returned notes
// describe each repair that was applied, in order, for diagnostics.
func Repair(raw map[string]any, input model.AuditInput, cat *catalog.Catalog) (*model.Report, []string) {
	r := &repairer{}

	report := &model.Report{
		ExecutiveSummary:      r.executiveSummary(raw["executiveSummary"], input),
		TargetHotelMetrics:    r.targetMetrics(raw["targetHotelMetrics"]),
		ProtocolStatus:        r.protocolStatus(raw["protocolStatus"]),
		RoomTypeAudit:         r.rooms(raw["roomTypeAudit"]),
		TreeboPresence:        r.presence(raw["treeboPresence"]),
		Competitors:           r.competitors(raw["competitors"]),
		GuestReviews:          r.reviews(raw["guestReviews"]),
		Scorecard:             r.scorecard(raw["scorecard"]),
		KeyRisks:              r.strings("keyRisks", raw["keyRisks"]),
		CommercialUpside:      r.strings("commercialUpside", raw["commercialUpside"]),
		TopCorporates:         r.strings("topCorporates", raw["topCorporates"]),
		TopTravelAgents:       r.strings("topTravelAgents", raw["topTravelAgents"]),
		ConditionalActionPlan: r.strings("conditionalActionPlan", raw["conditionalActionPlan"]),
		FinalRecommendation:   asString(raw["finalRecommendation"]),
		HardStopFlagged:       asBool(raw["hardStopFlagged"]),
		HardStopReason:        asString(raw["hardStopReason"]),
		GroundingSources:      []model.GroundingSource{},
	}
	report.OTAAudit = r.completeChannels(r.channels(raw["otaAudit"]), cat)

	return report, r.notes
}

type repairer struct {
	notes []string
}

func (r *repairer) note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

// array returns v as a sequence. Anything that is not a JSON array,
// including null, becomes an empty one.
func (r *repairer) array(field string, v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	if v == nil {
		r.note("%s: missing, using empty list", field)
	} else {
		r.note("%s: expected a list, got %T; using empty list", field, v)
	}
	return []any{}
}

// objects returns the object items of a sequence, dropping anything else.
func (r *repairer) objects(field string, v any) []map[string]any {
	items := r.array(field, v)
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := asObject(item)
		if !ok {
			r.note("%s[%d]: dropped %T item", field, i, item)
			continue
		}
		out = append(out, obj)
	}
	return out
}

// strings returns the text items of a sequence. Scalars are rendered as text;
// null, nested values and blank strings are dropped.
func (r *repairer) strings(field string, v any) []string {
	items := r.array(field, v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(asString(item))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *repairer) number(field string, v any, def float64) float64 {
	f, ok := asNumber(v)
	if !ok {
		r.note("%s: not a number (%v), using %g", field, v, def)
		return def
	}
	return f
}

func (r *repairer) executiveSummary(v any, input model.AuditInput) model.ExecutiveSummary {
	in := input.Normalized()
	obj, ok := asObject(v)
	if !ok {
		r.note("executiveSummary: missing, rebuilt from request")
		return model.ExecutiveSummary{
			HotelName:      input.HotelName,
			City:           input.City,
			EvaluationType: in.EvaluationType,
			FinalDecision:  model.DecisionConditional,
			AverageScore:   DefaultAverageScore,
		}
	}

	es := model.ExecutiveSummary{
		HotelName:    strings.TrimSpace(asString(obj["hotelName"])),
		City:         strings.TrimSpace(asString(obj["city"])),
		AverageScore: clamp(r.number("executiveSummary.averageScore", obj["averageScore"], DefaultAverageScore), 0, 10),
	}
	if es.HotelName == "" {
		es.HotelName = input.HotelName
	}
	if es.City == "" {
		es.City = input.City
	}
	if t, ok := model.ParseEvaluationType(asString(obj["evaluationType"])); ok {
		es.EvaluationType = t
	} else {
		es.EvaluationType = in.EvaluationType
	}
	// The decision is kept as the model stated it; it is not derived from the score.
	if d, ok := model.ParseDecision(asString(obj["finalDecision"])); ok {
		es.FinalDecision = d
	} else {
		r.note("executiveSummary.finalDecision: unrecognized %q, using %s", asString(obj["finalDecision"]), model.DecisionConditional)
		es.FinalDecision = model.DecisionConditional
	}
	return es
}

func (r *repairer) targetMetrics(v any) *model.TargetMetrics {
	obj, ok := asObject(v)
	if !ok {
		return nil
	}
	return &model.TargetMetrics{
		AverageOTARating: clamp(r.number("targetHotelMetrics.averageOTARating", obj["averageOTARating"], 0), 0, 5),
		EstimatedADR:     math.Max(0, r.number("targetHotelMetrics.estimatedADR", obj["estimatedADR"], 0)),
		ADRCurrency:      strings.TrimSpace(asString(obj["adrCurrency"])),
	}
}

func (r *repairer) protocolStatus(v any) model.ProtocolStatus {
	obj, ok := asObject(v)
	if !ok {
		r.note("protocolStatus: missing, defaulting all checks to WARNING")
		return model.ProtocolStatus{
			DuplicationAudit: model.Warning(),
			GeoVerification:  model.Warning(),
			ComplianceAudit:  model.Warning(),
			Notes:            MissingProtocolNotes,
		}
	}
	return model.ProtocolStatus{
		DuplicationAudit: NormalizeStatus(obj["duplicationAudit"]),
		GeoVerification:  NormalizeStatus(obj["geoVerification"]),
		ComplianceAudit:  NormalizeStatus(obj["complianceAudit"]),
		Notes:            asString(obj["notes"]),
	}
}

func (r *repairer) rooms(v any) []model.Room {
	objs := r.objects("roomTypeAudit", v)
	rooms := make([]model.Room, 0, len(objs))
	for i, obj := range objs {
		field := fmt.Sprintf("roomTypeAudit[%d]", i)
		rooms = append(rooms, model.Room{
			RoomName:         asString(obj["roomName"]),
			SizeSqFt:         asString(obj["sizeSqFt"]),
			Occupancy:        asString(obj["occupancy"]),
			Amenities:        dedupe(r.strings(field+".amenities", obj["amenities"])),
			DescriptionAudit: asString(obj["descriptionAudit"]),
			ConfigRisk:       asString(obj["configRisk"]),
		})
	}
	return rooms
}

func (r *repairer) presence(v any) *model.NetworkPresence {
	obj, ok := asObject(v)
	if !ok {
		return nil
	}
	count := r.number("treeboPresence.cityHotelCount", obj["cityHotelCount"], 0)
	return &model.NetworkPresence{
		CityHotelCount:       int(math.Round(clamp(count, 0, math.MaxInt32))),
		NearestHotelName:     asString(obj["nearestHotelName"]),
		NearestHotelDistance: asString(obj["nearestHotelDistance"]),
		MarketShareContext:   asString(obj["marketShareContext"]),
	}
}

func (r *repairer) channels(v any) []model.Channel {
	objs := r.objects("otaAudit", v)
	channels := make([]model.Channel, 0, len(objs))
	for i, obj := range objs {
		field := fmt.Sprintf("otaAudit[%d]", i)
		ch := model.Channel{
			Platform:        strings.TrimSpace(asString(obj["platform"])),
			Status:          NormalizeStatus(obj["status"]),
			CurrentRating:   asString(obj["currentRating"]),
			ChannelBlockers: r.strings(field+".channelBlockers", obj["channelBlockers"]),
			RecoveryPlan:    r.strings(field+".recoveryPlan", obj["recoveryPlan"]),
		}
		if !ch.Status.Recognized() {
			r.note("%s.status: unrecognized %q", field, ch.Status.Raw)
		}
		channels = append(channels, ch)
	}
	return channels
}

// completeChannels appends a WARNING placeholder for every canonical platform
// that no entry mentions.
func (r *repairer) completeChannels(channels []model.Channel, cat *catalog.Catalog) []model.Channel {
	for _, p := range cat.Platforms {
		if hasPlatform(channels, p.ID) {
			continue
		}
		r.note("otaAudit: %s not returned, added placeholder", p.Name)
		channels = append(channels, SyntheticChannel(p))
	}
	return channels
}

func hasPlatform(channels []model.Channel, id string) bool {
	id = strings.ToLower(id)
	for _, ch := range channels {
		if strings.Contains(strings.ToLower(ch.Platform), id) {
			return true
		}
	}
	return false
}

// SyntheticChannel is the placeholder used when the model left a canonical
// platform out of the OTA audit.
func SyntheticChannel(p catalog.Platform) model.Channel {
	return model.Channel{
		Platform:        p.Name,
		Status:          model.Warning(),
		CurrentRating:   MissingChannelRating,
		ChannelBlockers: []string{MissingChannelBlocker},
		RecoveryPlan:    []string{"Manual verification required for " + p.Name},
	}
}

func (r *repairer) competitors(v any) []model.Competitor {
	objs := r.objects("competitors", v)
	out := make([]model.Competitor, 0, len(objs))
	for i, obj := range objs {
		field := fmt.Sprintf("competitors[%d]", i)
		out = append(out, model.Competitor{
			Name:         asString(obj["name"]),
			OTARating:    math.Max(0, r.number(field+".otaRating", obj["otaRating"], 0)),
			EstimatedADR: asString(obj["estimatedADR"]),
			Distance:     asString(obj["distance"]),
			Category:     strings.TrimSpace(asString(obj["category"])),
			TopPositives: r.strings(field+".topPositives", obj["topPositives"]),
			TopNegatives: r.strings(field+".topNegatives", obj["topNegatives"]),
		})
	}
	return out
}

func (r *repairer) reviews(v any) []model.GuestReview {
	objs := r.objects("guestReviews", v)
	out := make([]model.GuestReview, 0, len(objs))
	for i, obj := range objs {
		field := fmt.Sprintf("guestReviews[%d]", i)
		themeObjs := r.objects(field+".recurringThemes", obj["recurringThemes"])
		themes := make([]model.Theme, 0, len(themeObjs))
		for _, t := range themeObjs {
			themes = append(themes, model.Theme{
				Theme:  asString(t["theme"]),
				Impact: parseImpact(asString(t["impact"])),
			})
		}
		out = append(out, model.GuestReview{
			Platform:        asString(obj["platform"]),
			Positive:        r.strings(field+".positive", obj["positive"]),
			Negative:        r.strings(field+".negative", obj["negative"]),
			SentimentScore:  clamp(r.number(field+".sentimentScore", obj["sentimentScore"], 0), 0, 100),
			RecurringThemes: themes,
		})
	}
	return out
}

func parseImpact(s string) model.Impact {
	switch v := model.Impact(strings.ToLower(strings.TrimSpace(s))); v {
	case model.ImpactPositive, model.ImpactNegative:
		return v
	}
	return model.ImpactNeutral
}

func (r *repairer) scorecard(v any) []model.ScoreEntry {
	objs := r.objects("scorecard", v)
	out := make([]model.ScoreEntry, 0, len(objs))
	for i, obj := range objs {
		out = append(out, model.ScoreEntry{
			Parameter: asString(obj["parameter"]),
			Score:     clamp(r.number(fmt.Sprintf("scorecard[%d].score", i), obj["score"], 0), 0, 10),
			Reason:    asString(obj["reason"]),
		})
	}
	return out
}

// dedupe removes case-insensitive duplicates, keeping the first spelling.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
