// Package crash computes aggregate statistics over cleaned crash records.
package crash

import (
	"sort"
	"time"

	"github.com/sells-group/bikesafety-cli/internal/model"
)

// topFactors caps the contributing-factor ranking.
const topFactors = 5

// MonthCount is the number of crashes in one calendar month.
type MonthCount struct {
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// LabelCount is a generic label/count pair used for boroughs and factors.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Analysis aggregates casualty, seasonal, borough, and contributing-factor
// statistics for a cleaned crash set.
type Analysis struct {
	Crashes         int          `json:"crashes"`
	CyclistsInjured int          `json:"cyclists_injured"`
	CyclistsKilled  int          `json:"cyclists_killed"`
	TotalCasualties int          `json:"total_casualties"`
	ByMonth         []MonthCount `json:"by_month,omitempty"`
	ByBorough       []LabelCount `json:"by_borough,omitempty"`
	TopFactors      []LabelCount `json:"top_factors,omitempty"`
}

// Analyze computes crash statistics. Monthly counts cover only records whose
// date parsed; borough and factor counts skip empty values.
func Analyze(crashes []model.CrashRecord) Analysis {
	a := Analysis{Crashes: len(crashes)}

	months := make(map[time.Month]int)
	boroughs := make(map[string]int)
	factors := make(map[string]int)
	for _, c := range crashes {
		a.CyclistsInjured += c.CyclistsInjured
		a.CyclistsKilled += c.CyclistsKilled
		if !c.OccurredAt.IsZero() {
			months[c.OccurredAt.Month()]++
		}
		if c.Borough != "" {
			boroughs[c.Borough]++
		}
		if c.ContributingFactor != "" {
			factors[c.ContributingFactor]++
		}
	}
	a.TotalCasualties = a.CyclistsInjured + a.CyclistsKilled

	for m := time.January; m <= time.December; m++ {
		if count, ok := months[m]; ok {
			a.ByMonth = append(a.ByMonth, MonthCount{Month: m, Count: count})
		}
	}
	a.ByBorough = rank(boroughs, 0)
	a.TopFactors = rank(factors, topFactors)
	return a
}

// rank sorts label counts descending, ties broken by label, optionally capped.
func rank(counts map[string]int, limit int) []LabelCount {
	ranked := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		ranked = append(ranked, LabelCount{Label: label, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Label < ranked[j].Label
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
