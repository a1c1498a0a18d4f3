package model

import "time"

// Report is the repaired result of one audit. Every slice field is non-nil
// once it has been produced by the repair package.
type Report struct {
	Reference   string    `json:"reference" yaml:"reference"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	ExecutiveSummary   ExecutiveSummary `json:"executiveSummary" yaml:"executiveSummary"`
	TargetHotelMetrics *TargetMetrics   `json:"targetHotelMetrics,omitempty" yaml:"targetHotelMetrics,omitempty"`
	ProtocolStatus     ProtocolStatus   `json:"protocolStatus" yaml:"protocolStatus"`
	RoomTypeAudit      []Room           `json:"roomTypeAudit" yaml:"roomTypeAudit"`
	TreeboPresence     *NetworkPresence `json:"treeboPresence,omitempty" yaml:"treeboPresence,omitempty"`
	OTAAudit           []Channel        `json:"otaAudit" yaml:"otaAudit"`
	Competitors        []Competitor     `json:"competitors" yaml:"competitors"`
	GuestReviews       []GuestReview    `json:"guestReviews" yaml:"guestReviews"`
	Scorecard          []ScoreEntry     `json:"scorecard" yaml:"scorecard"`

	KeyRisks              []string `json:"keyRisks" yaml:"keyRisks"`
	CommercialUpside      []string `json:"commercialUpside" yaml:"commercialUpside"`
	TopCorporates         []string `json:"topCorporates" yaml:"topCorporates"`
	TopTravelAgents       []string `json:"topTravelAgents" yaml:"topTravelAgents"`
	ConditionalActionPlan []string `json:"conditionalActionPlan" yaml:"conditionalActionPlan"`

	FinalRecommendation string `json:"finalRecommendation" yaml:"finalRecommendation"`
	HardStopFlagged     bool   `json:"hardStopFlagged" yaml:"hardStopFlagged"`
	HardStopReason      string `json:"hardStopReason,omitempty" yaml:"hardStopReason,omitempty"`

	GroundingSources []GroundingSource `json:"groundingSources" yaml:"groundingSources"`
}

type ExecutiveSummary struct {
	HotelName      string         `json:"hotelName" yaml:"hotelName"`
	City           string         `json:"city" yaml:"city"`
	EvaluationType EvaluationType `json:"evaluationType" yaml:"evaluationType"`
	FinalDecision  Decision       `json:"finalDecision" yaml:"finalDecision"`
	AverageScore   float64        `json:"averageScore" yaml:"averageScore"`
}

type TargetMetrics struct {
	AverageOTARating float64 `json:"averageOTARating" yaml:"averageOTARating"`
	EstimatedADR     float64 `json:"estimatedADR" yaml:"estimatedADR"`
	ADRCurrency      string  `json:"adrCurrency" yaml:"adrCurrency"`
}

type ProtocolStatus struct {
	DuplicationAudit Status `json:"duplicationAudit" yaml:"duplicationAudit"`
	GeoVerification  Status `json:"geoVerification" yaml:"geoVerification"`
	ComplianceAudit  Status `json:"complianceAudit" yaml:"complianceAudit"`
	Notes            string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type Room struct {
	RoomName         string   `json:"roomName" yaml:"roomName"`
	SizeSqFt         string   `json:"sizeSqFt,omitempty" yaml:"sizeSqFt,omitempty"`
	Occupancy        string   `json:"occupancy" yaml:"occupancy"`
	Amenities        []string `json:"amenities" yaml:"amenities"`
	DescriptionAudit string   `json:"descriptionAudit" yaml:"descriptionAudit"`
	ConfigRisk       string   `json:"configRisk" yaml:"configRisk"`
}

// NetworkPresence describes sibling properties of the brand in the same city.
type NetworkPresence struct {
	CityHotelCount       int    `json:"cityHotelCount" yaml:"cityHotelCount"`
	NearestHotelName     string `json:"nearestHotelName" yaml:"nearestHotelName"`
	NearestHotelDistance string `json:"nearestHotelDistance" yaml:"nearestHotelDistance"`
	MarketShareContext   string `json:"marketShareContext" yaml:"marketShareContext"`
}

// Channel is one distribution platform entry of the OTA audit.
type Channel struct {
	Platform        string   `json:"platform" yaml:"platform"`
	Status          Status   `json:"status" yaml:"status"`
	CurrentRating   string   `json:"currentRating,omitempty" yaml:"currentRating,omitempty"`
	ChannelBlockers []string `json:"channelBlockers" yaml:"channelBlockers"`
	RecoveryPlan    []string `json:"recoveryPlan" yaml:"recoveryPlan"`
}

// Competitor is a nearby property used for benchmarking. EstimatedADR is kept
// as the model returned it (currency symbols, ranges) and parsed on demand.
type Competitor struct {
	Name         string   `json:"name" yaml:"name"`
	OTARating    float64  `json:"otaRating" yaml:"otaRating"`
	EstimatedADR string   `json:"estimatedADR" yaml:"estimatedADR"`
	Distance     string   `json:"distance" yaml:"distance"`
	Category     string   `json:"category" yaml:"category"`
	TopPositives []string `json:"topPositives" yaml:"topPositives"`
	TopNegatives []string `json:"topNegatives" yaml:"topNegatives"`
}

type GuestReview struct {
	Platform        string   `json:"platform" yaml:"platform"`
	Positive        []string `json:"positive" yaml:"positive"`
	Negative        []string `json:"negative" yaml:"negative"`
	SentimentScore  float64  `json:"sentimentScore" yaml:"sentimentScore"`
	RecurringThemes []Theme  `json:"recurringThemes" yaml:"recurringThemes"`
}

type Theme struct {
	Theme  string `json:"theme" yaml:"theme"`
	Impact Impact `json:"impact" yaml:"impact"`
}

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

type ScoreEntry struct {
	Parameter string  `json:"parameter" yaml:"parameter"`
	Score     float64 `json:"score" yaml:"score"`
	Reason    string  `json:"reason" yaml:"reason"`
}

type GroundingSource struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

// CitationKind tells which grounding tool produced a citation.
type CitationKind string

const (
	CitationWeb   CitationKind = "web"
	CitationMaps  CitationKind = "maps"
	CitationOther CitationKind = "other"
)

// Citation is a grounding chunk attached by the AI service outside the JSON
// body of its answer.
type Citation struct {
	Kind  CitationKind
	Title string
	URI   string
}
