// Package export renders a report as a paginated Markdown document.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/views"
)

// PageBreak separates pages in the Markdown output.
const PageBreak = "\n\n---\n\n"

var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is Treebo_Audit_<hotel>_<city>.<ext>. Every run of whitespace,
// path separators or other characters outside [A-Za-z0-9._-] becomes one
// underscore, so the name is always a single path element.
func Filename(report *model.Report, ext string) string {
	es := report.ExecutiveSummary
	name := fmt.Sprintf("Treebo_Audit_%s_%s", collapse(es.HotelName), collapse(es.City))
	return name + "." + strings.TrimPrefix(ext, ".")
}

func collapse(s string) string {
	return unsafeRun.ReplaceAllString(strings.TrimSpace(s), "_")
}

type Page struct {
	Title string
	Body  string
}

type Document struct {
	Name  string
	Pages []Page
}

// Markdown joins the pages, each headed by its title.
func (d *Document) Markdown() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = "## " + p.Title + "\n\n" + strings.TrimSpace(p.Body)
	}
	return strings.Join(parts, PageBreak) + "\n"
}

// WriteFile writes the Markdown document into dir and returns its path.
func (d *Document) WriteFile(dir string) (string, error) {
	if d.Name == "" || d.Name == "." || d.Name == ".." || filepath.Base(d.Name) != d.Name {
		return "", fmt.Errorf("invalid export name %q", d.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, d.Name)
	if err := os.WriteFile(path, []byte(d.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// Render lays the report out in pages. Channels follow the display priority
// of cat; competitors are listed unfiltered.
func Render(report *model.Report, cat *catalog.Catalog) *Document {
	return &Document{
		Name: Filename(report, "md"),
		Pages: []Page{
			{"Executive Summary", summaryPage(report)},
			{"Channel Audit", channelsPage(report, cat)},
			{"Unit Inventory", inventoryPage(report)},
			{"Network & Protocol", networkPage(report)},
			{"Market Position", marketPage(report)},
			{"Guest Sentiment", sentimentPage(report)},
			{"Scorecard & Risks", scorecardPage(report)},
			{"Sources", sourcesPage(report)},
		},
	}
}

func summaryPage(r *model.Report) string {
	var b strings.Builder
	es := r.ExecutiveSummary
	fmt.Fprintf(&b, "# Treebo Audit: %s\n\n", es.HotelName)
	fmt.Fprintf(&b, "- **City:** %s\n", es.City)
	fmt.Fprintf(&b, "- **Evaluation:** %s\n", es.EvaluationType)
	fmt.Fprintf(&b, "- **Verdict:** %s\n", es.FinalDecision)
	fmt.Fprintf(&b, "- **Average score:** %.1f / 10\n", es.AverageScore)
	if m := r.TargetHotelMetrics; m != nil {
		fmt.Fprintf(&b, "- **Average OTA rating:** %.1f / 5\n", m.AverageOTARating)
		fmt.Fprintf(&b, "- **Estimated ADR:** %s %.0f\n", m.ADRCurrency, m.EstimatedADR)
	}
	if r.Reference != "" {
		fmt.Fprintf(&b, "- **Reference:** %s\n", r.Reference)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	if r.HardStopFlagged {
		fmt.Fprintf(&b, "\n> **HARD STOP:** %s\n", orDash(r.HardStopReason))
	}
	if r.FinalRecommendation != "" {
		fmt.Fprintf(&b, "\n%s\n", r.FinalRecommendation)
	}
	return b.String()
}

func channelsPage(r *model.Report, cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("| Platform | Status | Rating | Blockers | Recovery plan |\n|---|---|---|---|---|\n")
	for _, ch := range views.SortChannels(r.OTAAudit, cat) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			cell(ch.Platform), ch.Status, cell(orDash(ch.CurrentRating)),
			cell(joinOrDash(ch.ChannelBlockers)), cell(joinOrDash(ch.RecoveryPlan)))
	}
	return b.String()
}

func inventoryPage(r *model.Report) string {
	if len(r.RoomTypeAudit) == 0 {
		return "No room types were identified."
	}
	var b strings.Builder
	b.WriteString("| Room | Size (sq ft) | Occupancy | Amenities | Description audit | Config risk |\n|---|---|---|---|---|---|\n")
	for _, room := range r.RoomTypeAudit {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(room.RoomName), cell(orDash(room.SizeSqFt)), cell(orDash(room.Occupancy)),
			cell(joinOrDash(room.Amenities)), cell(orDash(room.DescriptionAudit)), cell(orDash(room.ConfigRisk)))
	}
	return b.String()
}

func networkPage(r *model.Report) string {
	var b strings.Builder
	if p := r.TreeboPresence; p != nil {
		fmt.Fprintf(&b, "- **Treebo hotels in city:** %d\n", p.CityHotelCount)
		fmt.Fprintf(&b, "- **Nearest Treebo:** %s (%s)\n", orDash(p.NearestHotelName), orDash(p.NearestHotelDistance))
		fmt.Fprintf(&b, "- **Market share:** %s\n\n", orDash(p.MarketShareContext))
	} else {
		b.WriteString("Network presence was not returned.\n\n")
	}
	ps := r.ProtocolStatus
	fmt.Fprintf(&b, "| Check | Status |\n|---|---|\n| Duplication audit | %s |\n| Geo verification | %s |\n| Compliance audit | %s |\n",
		ps.DuplicationAudit, ps.GeoVerification, ps.ComplianceAudit)
	if ps.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", ps.Notes)
	}
	return b.String()
}

func marketPage(r *model.Report) string {
	var b strings.Builder
	if len(r.Competitors) == 0 {
		b.WriteString("No competitors were identified.\n")
	} else {
		b.WriteString("| Competitor | Category | OTA rating | Est. ADR | Distance |\n|---|---|---|---|---|\n")
		for _, c := range r.Competitors {
			fmt.Fprintf(&b, "| %s | %s | %.1f | %s | %s |\n",
				cell(c.Name), cell(orDash(c.Category)), c.OTARating, cell(orDash(c.EstimatedADR)), cell(orDash(c.Distance)))
		}
	}
	list(&b, "Top corporates", r.TopCorporates)
	list(&b, "Top travel agents", r.TopTravelAgents)
	return b.String()
}

func sentimentPage(r *model.Report) string {
	if len(r.GuestReviews) == 0 {
		return "No guest reviews were analysed."
	}
	var b strings.Builder
	for _, gr := range r.GuestReviews {
		fmt.Fprintf(&b, "### %s (sentiment %.0f/100)\n", orDash(gr.Platform), gr.SentimentScore)
		list(&b, "Positive", gr.Positive)
		list(&b, "Negative", gr.Negative)
		if len(gr.RecurringThemes) > 0 {
			themes := make([]string, len(gr.RecurringThemes))
			for i, t := range gr.RecurringThemes {
				themes[i] = fmt.Sprintf("%s (%s)", t.Theme, t.Impact)
			}
			list(&b, "Recurring themes", themes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func scorecardPage(r *model.Report) string {
	var b strings.Builder
	if len(r.Scorecard) > 0 {
		b.WriteString("| Parameter | Score | Reason |\n|---|---|---|\n")
		for _, s := range r.Scorecard {
			fmt.Fprintf(&b, "| %s | %.1f | %s |\n", cell(s.Parameter), s.Score, cell(orDash(s.Reason)))
		}
	}
	list(&b, "Key risks", r.KeyRisks)
	list(&b, "Commercial upside", r.CommercialUpside)
	list(&b, "Conditional action plan", r.ConditionalActionPlan)
	if b.Len() == 0 {
		return "No scorecard was returned."
	}
	return b.String()
}

func sourcesPage(r *model.Report) string {
	if len(r.GroundingSources) == 0 {
		return "No grounding sources were attached."
	}
	var b strings.Builder
	for _, s := range r.GroundingSources {
		if s.URI == "" {
			fmt.Fprintf(&b, "- %s\n", s.Title)
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", s.Title, s.URI)
	}
	return b.String()
}

func list(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s**\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string) string {
	return orDash(strings.Join(items, "; "))
}
