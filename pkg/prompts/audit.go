package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

// Request is everything the AI service needs for one audit.
type Request struct {
	SystemInstruction string
	Prompt            string
	Schema            *Schema
	Location          *model.LocationHint
	// Grounding asks the provider to research with live search.
	Grounding bool
}

// directiveData is the data available to catalog directive templates.
type directiveData struct {
	Hotel          string
	City           string
	Brand          string
	BrandSite      string
	Platforms      []catalog.Platform
	PlatformNames  string
	Competitors    int
	ListingSources int
}

// BuildAuditRequest builds the instruction, prompt and output schema for an
// audit. It does not validate the input; callers run AuditInput.Validate first.
func BuildAuditRequest(input model.AuditInput, cat *catalog.Catalog) *Request {
	in := input.Normalized()
	data := directiveData{
		Hotel:          in.HotelName,
		City:           in.City,
		Brand:          cat.Brand,
		BrandSite:      cat.BrandSite,
		Platforms:      cat.Platforms,
		PlatformNames:  joinNames(cat.PlatformNames()),
		Competitors:    cat.Competitors,
		ListingSources: cat.ListingSources,
	}

	return &Request{
		SystemInstruction: buildSystemInstruction(cat, data),
		Prompt:            buildTaskPrompt(in, cat),
		Schema:            ReportSchema(cat),
		Location:          in.Location,
		Grounding:         true,
	}
}

func buildSystemInstruction(cat *catalog.Catalog, data directiveData) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a Senior Commercial & Strategy Leader at %s Hotels.
Conduct a high-fidelity commercial audit using live Google Search grounding.

MANDATORY RESEARCH DIRECTIVES:
`, cat.Brand)

	for i, d := range cat.Directives {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, d.Name, renderDirective(d, data))
	}

	b.WriteString(`
PROTOCOL AUDIT: duplicationAudit, geoVerification and complianceAudit must be strictly "PASS", "FAIL" or "WARNING".
SCORECARD: score each parameter from 0 to 10: ` + joinNames(cat.ScoreParameters) + `.

Output ONLY valid JSON matching the provided schema.`)
	return b.String()
}

// renderDirective expands the directive template. A directive that fails to
// parse or execute is sent verbatim.
func renderDirective(d catalog.Directive, data directiveData) string {
	tmpl, err := template.New(d.Name).Parse(d.Text)
	if err != nil {
		return d.Text
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return d.Text
	}
	return out.String()
}

func buildTaskPrompt(in model.AuditInput, cat *catalog.Catalog) string {
	location := ""
	if in.Location != nil {
		location = fmt.Sprintf("\nRequester location: %.5f, %.5f (use it to resolve the property on maps)", in.Location.Latitude, in.Location.Longitude)
	}

	return fmt.Sprintf(`PROPERTY STRATEGY AUDIT:
Asset: %q
City: %q
Mode: %s%s

EXECUTION PROTOCOL:
1. INVENTORY SCRAPE: Find actual room types for %s %s and compare them across listings.
2. SYNERGY AUDIT: Count %s properties in %s via "site:%s".
3. CHANNEL AUDIT: Verify presence on the %d mandatory platforms: %s.
4. COMPETITIVE INDEX: Fetch ADR and ratings for %d local peers.

Populate roomTypeAudit with specific room names and identified risks.
Catalog version: %s.
Return as valid JSON.`,
		in.HotelName, in.City, in.EvaluationType, location,
		in.HotelName, in.City,
		cat.Brand, in.City, cat.BrandSite,
		len(cat.Platforms), joinNames(cat.PlatformNames()),
		cat.Competitors,
		cat.Version)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
