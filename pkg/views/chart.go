package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/helmcode/hotel-audit/pkg/model"
)

// Metric selects what the comparison chart plots.
type Metric string

const (
	MetricRating Metric = "rating"
	MetricADR    Metric = "adr"
)

const (
	RatingAxisMax = 5.0
	// MinBarWidth keeps zero-value bars visible, in percent.
	MinBarWidth = 2.0

	TargetPrefix = "[TARGET] "
)

// ParseMetric accepts "rating" and "adr" in any case. Empty means rating.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MetricRating:
		return MetricRating, nil
	case MetricADR:
		return MetricADR, nil
	default:
		return "", fmt.Errorf("unknown metric %q (expected rating or adr)", s)
	}
}

type Bar struct {
	Name     string  `json:"name" yaml:"name"`
	Value    float64 `json:"value" yaml:"value"`
	Percent  float64 `json:"percent" yaml:"percent"`
	Width    float64 `json:"width" yaml:"width"`
	IsTarget bool    `json:"isTarget" yaml:"isTarget"`
}

type Chart struct {
	Metric  Metric  `json:"metric" yaml:"metric"`
	AxisMax float64 `json:"axisMax" yaml:"axisMax"`
	Bars    []Bar   `json:"bars" yaml:"bars"`
}

// BuildComparison puts the audited hotel in front of the given competitors
// and scales every value against the axis maximum. Ratings use a fixed axis
// of 5; ADR uses the largest observed value, at least 1.
func BuildComparison(report *model.Report, competitors []model.Competitor, metric Metric) Chart {
	var target float64
	if m := report.TargetHotelMetrics; m != nil {
		if metric == MetricADR {
			target = m.EstimatedADR
		} else {
			target = m.AverageOTARating
		}
	}

	bars := make([]Bar, 0, len(competitors)+1)
	bars = append(bars, Bar{
		Name:     TargetPrefix + report.ExecutiveSummary.HotelName,
		Value:    target,
		IsTarget: true,
	})
	for _, c := range competitors {
		v := c.OTARating
		if metric == MetricADR {
			v = ParseADR(c.EstimatedADR)
		}
		bars = append(bars, Bar{Name: c.Name, Value: v})
	}

	axis := RatingAxisMax
	if metric == MetricADR {
		axis = 1
		for _, b := range bars {
			axis = math.Max(axis, b.Value)
		}
	} else {
		metric = MetricRating
	}

	for i := range bars {
		pct := math.Max(0, math.Min(100, bars[i].Value*100/axis))
		bars[i].Percent = pct
		bars[i].Width = math.Max(pct, MinBarWidth)
	}
	return Chart{Metric: metric, AxisMax: axis, Bars: bars}
}

// ParseADR reads a display price such as "₹2,400 / night" by keeping only
// digits and dots and parsing the leading number they form. Leading dots
// ("Rs. 2400") are ignored, anything after a second dot is dropped ("1.2.3"
// is 1.2) and text without digits is 0.
func ParseADR(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), ".")
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		if j := strings.IndexByte(digits[i+1:], '.'); j >= 0 {
			digits = digits[:i+1+j]
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(digits, "."), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
