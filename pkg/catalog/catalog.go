// Package catalog holds the versioned data that drives an audit: the
// canonical distribution platforms, their display priority, the research
// directives sent to the model and the scorecard parameters. Adding a
// platform or a score parameter is a change here, not in the code that
// builds requests or repairs reports.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version of the built-in catalog.
const Version = "2025.1"

// Platform is one channel that must always appear in a report's OTA audit.
type Platform struct {
	// ID is matched as a case-insensitive substring of a channel's platform name.
	ID string `yaml:"id"`
	// Name is used for synthetic entries and display.
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Directive is one mandatory research instruction. Text may use the
// template fields documented in the prompts package.
type Directive struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

type Catalog struct {
	Version         string      `yaml:"version"`
	Brand           string      `yaml:"brand"`
	BrandSite       string      `yaml:"brand_site"`
	Platforms       []Platform  `yaml:"platforms"`
	Priority        []string    `yaml:"priority"`
	Directives      []Directive `yaml:"directives"`
	ScoreParameters []string    `yaml:"score_parameters"`
	Competitors     int         `yaml:"competitors"`
	ListingSources  int         `yaml:"listing_sources"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Version:   Version,
		Brand:     "Treebo",
		BrandSite: "treebo.com",
		Platforms: []Platform{
			{ID: "treebo", Name: "treebo.com", Kind: "brand"},
			{ID: "makemytrip", Name: "MakeMyTrip", Kind: "major-ota"},
			{ID: "booking", Name: "Booking.com", Kind: "major-ota"},
			{ID: "agoda", Name: "Agoda", Kind: "secondary-ota"},
			{ID: "goibibo", Name: "Goibibo", Kind: "secondary-ota"},
			{ID: "google", Name: "Google Maps", Kind: "maps"},
		},
		Priority: []string{
			"treebo.com", "treebo",
			"makemytrip", "mmt",
			"booking.com", "booking",
			"agoda",
			"goibibo",
			"google maps", "google",
		},
		Directives: []Directive{
			{
				Name: "NETWORK SYNERGY",
				Text: `Run a live search for "site:{{.BrandSite}} hotels in {{.City}}" and extract the total count of {{.Brand}} properties in {{.City}} as an integer. ` +
					`Report the nearest {{.Brand}} property and its distance. If the target hotel is itself a {{.Brand}} property, report the next closest one instead.`,
			},
			{
				Name: "UNIT INVENTORY INTEGRITY",
				Text: `Search for "{{.Hotel}} {{.City}} room types" and compare the room names, sizes, occupancy and amenities listed on at least {{.ListingSources}} third-party listing sources. ` +
					`Flag naming mismatches (e.g. Premium on one platform, Standard on another) and configuration risks (size mismatch, missing AC in description).`,
			},
			{
				Name: "CHANNEL AUDIT",
				Text: `Check listing presence, current rating and blockers (outdated photos, no available rooms, wrong address) on exactly these {{len .Platforms}} platforms: {{.PlatformNames}}. ` +
					`Return one otaAudit entry per platform with status PASS, WARNING or FAIL and a recovery plan for every blocker.`,
			},
			{
				Name: "COMPETITIVE INDEX",
				Text: `Benchmark {{.Competitors}} nearby properties of the same category as the target, with their OTA rating, estimated ADR in local currency, distance and category.`,
			},
		},
		ScoreParameters: []string{
			"OTA Visibility",
			"Guest Sentiment",
			"Room Inventory Integrity",
			"Pricing Power",
			"Location & Demand",
			"Network Synergy",
		},
		Competitors:    4,
		ListingSources: 2,
	}
}

// Load reads a YAML catalog from path. Fields left out of the file keep
// their built-in values.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog over the built-in defaults.
func Parse(data []byte) (*Catalog, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants the rest of the program relies on.
func (c *Catalog) Validate() error {
	if len(c.Platforms) == 0 {
		return fmt.Errorf("catalog %s: at least one platform is required", c.Version)
	}
	seen := make(map[string]bool, len(c.Platforms))
	for i, p := range c.Platforms {
		id := strings.ToLower(strings.TrimSpace(p.ID))
		if id == "" {
			return fmt.Errorf("catalog %s: platform %d has no id", c.Version, i)
		}
		if seen[id] {
			return fmt.Errorf("catalog %s: duplicate platform id %q", c.Version, id)
		}
		seen[id] = true
		if !strings.Contains(strings.ToLower(p.Name), id) {
			return fmt.Errorf("catalog %s: platform name %q must contain its id %q", c.Version, p.Name, id)
		}
	}
	if c.Competitors < 3 || c.Competitors > 5 {
		return fmt.Errorf("catalog %s: competitors must be between 3 and 5, got %d", c.Version, c.Competitors)
	}
	if c.ListingSources < 2 {
		return fmt.Errorf("catalog %s: at least 2 listing sources are required, got %d", c.Version, c.ListingSources)
	}
	return nil
}

// PlatformNames returns the display names of the canonical platforms.
func (c *Catalog) PlatformNames() []string {
	names := make([]string, len(c.Platforms))
	for i, p := range c.Platforms {
		names[i] = p.Name
	}
	return names
}

// MatchPlatform returns the canonical platform whose id is contained in name.
func (c *Catalog) MatchPlatform(name string) (Platform, bool) {
	n := strings.ToLower(name)
	for _, p := range c.Platforms {
		if strings.Contains(n, strings.ToLower(p.ID)) {
			return p, true
		}
	}
	return Platform{}, false
}

// PriorityIndex returns the position of the first priority entry contained
// in name, or -1 when none matches.
func (c *Catalog) PriorityIndex(name string) int {
	n := strings.ToLower(name)
	for i, key := range c.Priority {
		if strings.Contains(n, strings.ToLower(key)) {
			return i
		}
	}
	return -1
}
