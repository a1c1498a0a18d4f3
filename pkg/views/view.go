package views

import (
	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/model"
)

// View is the report as displayed: channels in priority order, competitors
// filtered by the selected categories and the comparison chart.
type View struct {
	Report      *model.Report      `json:"report" yaml:"report"`
	Channels    []model.Channel    `json:"channels" yaml:"channels"`
	Categories  []string           `json:"categories" yaml:"categories"`
	Selected    []string           `json:"selected" yaml:"selected"`
	Competitors []model.Competitor `json:"competitors" yaml:"competitors"`
	Chart       Chart              `json:"chart" yaml:"chart"`
}

func Build(report *model.Report, cat *catalog.Catalog, filter CategoryFilter, metric Metric) *View {
	competitors := filter.Apply(report.Competitors)
	return &View{
		Report:      report,
		Channels:    SortChannels(report.OTAAudit, cat),
		Categories:  append([]string{AllCategories}, AvailableCategories(report.Competitors)...),
		Selected:    filter.Selected(),
		Competitors: competitors,
		Chart:       BuildComparison(report, competitors, metric),
	}
}
