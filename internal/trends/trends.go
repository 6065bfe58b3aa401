// Package trends aggregates pain entries into per-day statistics.
package trends

import (
	"slices"

	. "painlog/internal/models"

	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

type DayStat struct {
	Date             string  `json:"date"`
	AverageIntensity float64 `json:"average_intensity"`
	MaxIntensity     int     `json:"max_intensity"`
	MinIntensity     int     `json:"min_intensity"`
	EntriesCount     int     `json:"entries_count"`
}

type Summary struct {
	TotalEntries int     `json:"total_entries"`
	AveragePain  float64 `json:"average_pain"`
	DaysAnalyzed int     `json:"days_analyzed"`
}

type Trends struct {
	PerDay  []DayStat `json:"per_day"`
	Summary Summary   `json:"summary"`
}

// Compute groups entries by the UTC calendar date of their timestamp. PerDay
// is sorted by date ascending and never nil. Entries are only read.
func Compute(entries []PainEntry, windowDays int) Trends {
	byDate := lo.GroupBy(entries, func(e PainEntry) string {
		return e.Timestamp.UTC().Format(dateLayout)
	})

	dates := lo.Keys(byDate)
	slices.Sort(dates)

	perDay := lo.Map(dates, func(date string, _ int) DayStat {
		intensities := lo.Map(byDate[date], func(e PainEntry, _ int) int { return e.Intensity })
		return DayStat{
			Date:             date,
			AverageIntensity: mean(intensities),
			MaxIntensity:     lo.Max(intensities),
			MinIntensity:     lo.Min(intensities),
			EntriesCount:     len(intensities),
		}
	})

	all := lo.Map(entries, func(e PainEntry, _ int) int { return e.Intensity })

	return Trends{
		PerDay: perDay,
		Summary: Summary{
			TotalEntries: len(entries),
			AveragePain:  mean(all),
			DaysAnalyzed: windowDays,
		},
	}
}

// mean divides the exact integer sum once so grouping order cannot change the
// result.
func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(lo.Sum(values)) / float64(len(values))
}
