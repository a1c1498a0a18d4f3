package prompts

import (
	"encoding/json"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral description of the expected output. The
// Gemini adapter converts it to a native response schema; the other
// providers receive JSON() inside the prompt.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// JSON renders the schema as an indented JSON document.
func (s *Schema) JSON() string {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

func str(desc string) *Schema { return &Schema{Type: TypeString, Description: desc} }
func num(desc string) *Schema { return &Schema{Type: TypeNumber, Description: desc} }
func integer(desc string) *Schema { return &Schema{Type: TypeInteger, Description: desc} }
func boolean(desc string) *Schema { return &Schema{Type: TypeBoolean, Description: desc} }
func enum(desc string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: desc, Enum: values}
}
func arrayOf(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }
func stringList(desc string) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: &Schema{Type: TypeString}}
}
func object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

func statusEnum(desc string) *Schema {
	return enum(desc, string(model.LevelPass), string(model.LevelWarning), string(model.LevelFail))
}

// ReportSchema describes every field of a Report the model has to fill in.
// Grounding sources, the reference and the timestamp are added locally and
// are not requested.
func ReportSchema(cat *catalog.Catalog) *Schema {
	decisions := enum("Strategy verdict",
		string(model.DecisionApprove), string(model.DecisionConditional),
		string(model.DecisionReject), string(model.DecisionAutoReject))
	themes := object(map[string]*Schema{
		"theme":  str("Theme"),
		"impact": enum("Impact on guests", string(model.ImpactPositive), string(model.ImpactNegative), string(model.ImpactNeutral)),
	}, "theme", "impact")

	return object(map[string]*Schema{
		"executiveSummary": object(map[string]*Schema{
			"hotelName":      str("Name of the audited hotel"),
			"city":           str("City of the audited hotel"),
			"evaluationType": enum("Audit mode", string(model.NewOnboarding), string(model.ExistingHotelHealthReport)),
			"finalDecision":  decisions,
			"averageScore":   num("Commercial score from 0 to 10"),
		}, "hotelName", "city", "evaluationType", "finalDecision", "averageScore"),

		"targetHotelMetrics": object(map[string]*Schema{
			"averageOTARating": num("Average rating across OTAs, 0 to 5"),
			"estimatedADR":     num("Estimated average daily rate"),
			"adrCurrency":      str("Currency code of the ADR"),
		}, "averageOTARating", "estimatedADR", "adrCurrency"),

		"protocolStatus": object(map[string]*Schema{
			"duplicationAudit": statusEnum("Duplicate listing check"),
			"geoVerification":  statusEnum("Map pin and address verification"),
			"complianceAudit":  statusEnum("Brand and legal compliance"),
			"notes":            str("Short audit insight"),
		}, "duplicationAudit", "geoVerification", "complianceAudit"),

		"roomTypeAudit": arrayOf(object(map[string]*Schema{
			"roomName":         str("Room name as listed"),
			"sizeSqFt":         str("Room size in square feet"),
			"occupancy":        str("Maximum occupancy"),
			"amenities":        stringList("Listed amenities"),
			"descriptionAudit": str("Cross-platform description findings"),
			"configRisk":       str("Naming or configuration risk"),
		}, "roomName", "occupancy", "amenities", "descriptionAudit", "configRisk")),

		"treeboPresence": object(map[string]*Schema{
			"cityHotelCount":       integer("Number of " + cat.Brand + " properties in the city"),
			"nearestHotelName":     str("Nearest " + cat.Brand + " property"),
			"nearestHotelDistance": str("Distance to the nearest property"),
			"marketShareContext":   str("Brand share of the micro-market"),
		}, "cityHotelCount", "nearestHotelName", "nearestHotelDistance", "marketShareContext"),

		"otaAudit": arrayOf(object(map[string]*Schema{
			"platform":        str("One of: " + joinNames(cat.PlatformNames())),
			"status":          statusEnum("Channel health"),
			"currentRating":   str("Rating shown on the platform"),
			"channelBlockers": stringList("Issues blocking conversion"),
			"recoveryPlan":    stringList("Steps to resolve the blockers"),
		}, "platform", "status", "channelBlockers", "recoveryPlan")),

		"competitors": arrayOf(object(map[string]*Schema{
			"name":         str("Competitor name"),
			"otaRating":    num("Average OTA rating, 0 to 5"),
			"estimatedADR": str("Estimated ADR with currency"),
			"distance":     str("Distance from the target hotel"),
			"category":     str("Property category, e.g. Budget, Midscale, Premium"),
			"topPositives": stringList("What guests praise"),
			"topNegatives": stringList("What guests complain about"),
		}, "name", "otaRating", "estimatedADR", "distance", "category")),

		"guestReviews": arrayOf(object(map[string]*Schema{
			"platform":        str("Review platform"),
			"positive":        stringList("Key satisfiers"),
			"negative":        stringList("Friction points"),
			"sentimentScore":  num("Sentiment from 0 to 100"),
			"recurringThemes": arrayOf(themes),
		}, "platform", "positive", "negative", "sentimentScore", "recurringThemes")),

		"scorecard": arrayOf(object(map[string]*Schema{
			"parameter": str("One of: " + joinNames(cat.ScoreParameters)),
			"score":     num("Score from 0 to 10"),
			"reason":    str("Evidence for the score"),
		}, "parameter", "score", "reason")),

		"keyRisks":              stringList("Commercial risks"),
		"commercialUpside":      stringList("Revenue opportunities"),
		"topCorporates":         stringList("Corporate demand drivers near the hotel"),
		"topTravelAgents":       stringList("Regional travel agents and partners"),
		"conditionalActionPlan": stringList("Actions required for a conditional approval"),
		"finalRecommendation":   str("Final recommendation"),
		"hardStopFlagged":       boolean("True when a non-negotiable issue was found"),
		"hardStopReason":        str("Why the hard stop was flagged"),
	},
		"executiveSummary",
		"scorecard",
		"finalRecommendation",
		"protocolStatus",
		"keyRisks",
		"commercialUpside",
		"otaAudit",
		"competitors",
		"targetHotelMetrics",
		"guestReviews",
		"treeboPresence",
		"roomTypeAudit",
		"hardStopFlagged",
	)
}
