package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/views"
)

// Formats accepted by DisplayResults.
var Formats = []string{"human", "json", "yaml", "markdown"}

const chartWidth = 40

// DisplayResults writes the view in the given format. markdown is the
// export document, passed in already rendered.
func DisplayResults(w io.Writer, view *views.View, markdown, format string) error {
	switch format {
	case "json":
		return displayJSON(w, view)
	case "yaml":
		return displayYAML(w, view)
	case "markdown", "md":
		return displayMarkdown(w, markdown)
	case "human":
		fallthrough
	default:
		displayHuman(w, view)
	}
	return nil
}

func displayJSON(w io.Writer, view *views.View) error {
	output, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, view *views.View) error {
	output, err := yaml.Marshal(view)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

// displayMarkdown renders through glamour. Without color the plain
// document is written as is.
func displayMarkdown(w io.Writer, markdown string) error {
	if color.NoColor {
		_, err := io.WriteString(w, markdown)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func displayHuman(w io.Writer, view *views.View) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	r := view.Report
	es := r.ExecutiveSummary

	fmt.Fprintln(w)
	white.Fprintf(w, "🏨 TREEBO AUDIT: %s, %s\n", es.HotelName, es.City)
	fmt.Fprintf(w, "   %s\n\n", es.EvaluationType)

	getDecisionColor(es.FinalDecision).Fprintf(w, "📊 VERDICT: %s  (score %.1f/10)\n", es.FinalDecision, es.AverageScore)
	if r.HardStopFlagged {
		red.Fprintf(w, "⛔ HARD STOP: %s\n", fallback(r.HardStopReason, "flagged without a reason"))
	}
	if m := r.TargetHotelMetrics; m != nil {
		fmt.Fprintf(w, "   Avg OTA rating %.1f/5 · Est. ADR %s %.0f\n", m.AverageOTARating, m.ADRCurrency, m.EstimatedADR)
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "🛡️  PROTOCOL STATUS:")
	ps := r.ProtocolStatus
	fmt.Fprintf(w, "   %s Duplication audit   %s\n", getStatusIcon(ps.DuplicationAudit), ps.DuplicationAudit)
	fmt.Fprintf(w, "   %s Geo verification    %s\n", getStatusIcon(ps.GeoVerification), ps.GeoVerification)
	fmt.Fprintf(w, "   %s Compliance audit    %s\n", getStatusIcon(ps.ComplianceAudit), ps.ComplianceAudit)
	if ps.Notes != "" {
		fmt.Fprintln(w, wrapText(ps.Notes, 80, "      "))
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "🌐 CHANNEL AUDIT:")
	for i, ch := range view.Channels {
		fmt.Fprintf(w, "   %d. %s %s  %s", i+1, getStatusIcon(ch.Status), ch.Platform, ch.Status)
		if ch.CurrentRating != "" {
			fmt.Fprintf(w, "  (rating %s)", ch.CurrentRating)
		}
		fmt.Fprintln(w)
		for _, b := range ch.ChannelBlockers {
			fmt.Fprintf(w, "      Blocker: %s\n", color.YellowString(b))
		}
		for _, p := range ch.RecoveryPlan {
			fmt.Fprintf(w, "      Fix: %s\n", color.GreenString(p))
		}
	}
	fmt.Fprintln(w)

	if len(r.RoomTypeAudit) > 0 {
		cyan.Fprintln(w, "🛏️  UNIT INVENTORY:")
		for _, room := range r.RoomTypeAudit {
			fmt.Fprintf(w, "   • %s", room.RoomName)
			if room.SizeSqFt != "" {
				fmt.Fprintf(w, ", %s sq ft", room.SizeSqFt)
			}
			if room.Occupancy != "" {
				fmt.Fprintf(w, ", sleeps %s", room.Occupancy)
			}
			fmt.Fprintln(w)
			if len(room.Amenities) > 0 {
				fmt.Fprintf(w, "      Amenities: %s\n", strings.Join(room.Amenities, ", "))
			}
			if room.ConfigRisk != "" {
				fmt.Fprintf(w, "      Config risk: %s\n", color.YellowString(room.ConfigRisk))
			}
		}
		fmt.Fprintln(w)
	}

	if p := r.TreeboPresence; p != nil {
		cyan.Fprintln(w, "📍 NETWORK PRESENCE:")
		fmt.Fprintf(w, "   %d Treebo hotels in %s · nearest %s (%s)\n", p.CityHotelCount, es.City, fallback(p.NearestHotelName, "-"), fallback(p.NearestHotelDistance, "-"))
		if p.MarketShareContext != "" {
			fmt.Fprintln(w, wrapText(p.MarketShareContext, 80, "   "))
		}
		fmt.Fprintln(w)
	}

	cyan.Fprintf(w, "🏁 COMPETITIVE INDEX (%s):\n", strings.Join(view.Selected, ", "))
	for _, c := range view.Competitors {
		fmt.Fprintf(w, "   • %s [%s] rating %.1f · ADR %s · %s\n", c.Name, fallback(c.Category, "-"), c.OTARating, fallback(c.EstimatedADR, "-"), fallback(c.Distance, "-"))
	}
	displayChart(w, view.Chart)
	fmt.Fprintln(w)

	if len(r.GuestReviews) > 0 {
		cyan.Fprintln(w, "💬 GUEST SENTIMENT:")
		for _, gr := range r.GuestReviews {
			fmt.Fprintf(w, "   %s: %.0f/100\n", gr.Platform, gr.SentimentScore)
			for _, p := range gr.Positive {
				fmt.Fprintf(w, "      + %s\n", color.GreenString(p))
			}
			for _, n := range gr.Negative {
				fmt.Fprintf(w, "      - %s\n", color.RedString(n))
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Scorecard) > 0 {
		cyan.Fprintln(w, "🧮 SCORECARD:")
		for _, s := range r.Scorecard {
			fmt.Fprintf(w, "   %-28s %4.1f  %s\n", s.Parameter, s.Score, s.Reason)
		}
		fmt.Fprintln(w)
	}

	displayList(w, yellow, "⚠️  KEY RISKS:", r.KeyRisks)
	displayList(w, green, "🚀 COMMERCIAL UPSIDE:", r.CommercialUpside)
	displayList(w, cyan, "🏢 TOP CORPORATES:", r.TopCorporates)
	displayList(w, cyan, "🧳 TOP TRAVEL AGENTS:", r.TopTravelAgents)
	displayList(w, yellow, "📋 CONDITIONAL ACTION PLAN:", r.ConditionalActionPlan)

	if r.FinalRecommendation != "" {
		white.Fprintln(w, "📄 FINAL RECOMMENDATION:")
		fmt.Fprintln(w, wrapText(r.FinalRecommendation, 80, "   "))
		fmt.Fprintln(w)
	}

	if len(r.GroundingSources) > 0 {
		white.Fprintln(w, "🔎 SOURCES:")
		for _, s := range r.GroundingSources {
			fmt.Fprintf(w, "   • %s %s\n", s.Title, color.HiBlackString(s.URI))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	if r.Reference != "" {
		fmt.Fprintf(w, "Reference %s\n", color.HiBlackString(r.Reference))
	}
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json, -o yaml or -o markdown for other formats"))
}

func displayChart(w io.Writer, chart views.Chart) {
	fmt.Fprintf(w, "\n   %s comparison (axis max %s)\n", strings.ToUpper(string(chart.Metric)), formatValue(chart.AxisMax))
	for _, b := range chart.Bars {
		cells := int(math.Round(b.Width / 100 * chartWidth))
		if cells < 1 {
			cells = 1
		}
		bar := strings.Repeat("█", cells)
		if b.IsTarget {
			bar = color.CyanString(bar)
		}
		fmt.Fprintf(w, "   %-32s %s %s\n", truncate(b.Name, 32), bar, formatValue(b.Value))
	}
}

func displayList(w io.Writer, c *color.Color, title string, items []string) {
	if len(items) == 0 {
		return
	}
	c.Fprintln(w, title)
	for i, it := range items {
		fmt.Fprintf(w, "   %d. %s\n", i+1, it)
	}
	fmt.Fprintln(w)
}

func getDecisionColor(d model.Decision) *color.Color {
	switch d {
	case model.DecisionApprove:
		return color.New(color.FgGreen, color.Bold)
	case model.DecisionConditional:
		return color.New(color.FgYellow, color.Bold)
	case model.DecisionReject, model.DecisionAutoReject:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

func getStatusIcon(s model.Status) string {
	switch s.Level {
	case model.LevelPass:
		return "🟢"
	case model.LevelWarning:
		return "🟡"
	case model.LevelFail:
		return "🔴"
	default:
		return "⚪"
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
