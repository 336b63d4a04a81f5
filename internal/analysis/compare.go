package analysis

import "strconv"

// Metric names the fixed set of numeric comparison metrics. The main
// profile and competitor records keep these values in different fields, so
// each metric has an explicit accessor per variant instead of structural
// lookup.
type Metric string

const (
	MetricPrice  Metric = "price"
	MetricEnergy Metric = "energy"
	MetricSugar  Metric = "sugar"
	MetricFat    Metric = "fat"
)

// Metrics is the display order of the comparison table.
var Metrics = []Metric{MetricPrice, MetricEnergy, MetricSugar, MetricFat}

// ComparisonRow is one product's derived value for one metric. Width is the
// relative bar width in percent against the metric's maximum.
type ComparisonRow struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Width float64 `json:"width"`
}

// MetricComparison is the derived comparison table for one metric.
type MetricComparison struct {
	Metric Metric          `json:"metric"`
	Rows   []ComparisonRow `json:"rows"`
}

// LeadingNumber extracts the first run of digits/decimal point from a
// free-text field ("12.50 USD" -> 12.5). Non-numeric or empty text yields 0.
func LeadingNumber(s string) float64 {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	end := start
	dot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			end++
		case c == '.' && !dot:
			dot = true
			end++
		default:
			goto done
		}
	}
done:
	run := s[start:end]
	if run[len(run)-1] == '.' {
		run = run[:len(run)-1]
	}
	v, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return v
}

func profileMetric(p ProductProfile, m Metric) string {
	// The profile carries no nutrition facts; only price is comparable.
	if m == MetricPrice {
		return p.Price
	}
	return ""
}

func competitorMetric(c Competitor, m Metric) string {
	switch m {
	case MetricPrice:
		return c.Price
	case MetricEnergy:
		return c.Nutrition.Energy
	case MetricSugar:
		return c.Nutrition.Sugar
	case MetricFat:
		return c.Nutrition.Fat
	}
	return ""
}

// Compare derives the comparison table: one row per product (main profile
// first), bar widths scaled to each metric's maximum. If a metric's maximum
// is 0, every bar renders at 0% rather than dividing by zero.
func Compare(profile ProductProfile, competitors []Competitor) []MetricComparison {
	out := make([]MetricComparison, 0, len(Metrics))
	for _, m := range Metrics {
		rows := make([]ComparisonRow, 0, 1+len(competitors))
		rows = append(rows, ComparisonRow{Name: profile.Name, Value: LeadingNumber(profileMetric(profile, m))})
		for _, c := range competitors {
			rows = append(rows, ComparisonRow{Name: c.Name, Value: LeadingNumber(competitorMetric(c, m))})
		}

		max := 0.0
		for _, r := range rows {
			if r.Value > max {
				max = r.Value
			}
		}
		if max > 0 {
			for i := range rows {
				rows[i].Width = rows[i].Value / max * 100
			}
		}
		out = append(out, MetricComparison{Metric: m, Rows: rows})
	}
	return out
}
