package batch

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFermentationDays is the planning horizon used when a batch has not finished.
const DefaultFermentationDays = 14

// Statistics summarises a set of batches for the production dashboard.
type Statistics struct {
	TotalBatches        int
	ActiveBatches       int
	FinishedBatches     int
	CancelledBatches    int
	TotalVolumeProduced float64
	AverageABV          *float64 // nil when no batch has an ABV
	StatusBreakdown     map[Status]int
}

// ComputeStatistics aggregates batches.
// Rules:
// - Active means BREWING through PACKAGING
// - Volume produced sums the actual volume of FINISHED batches
// - Average ABV covers batches with a derived ABV, rounded to two decimals
func ComputeStatistics(batches []Batch) Statistics {
	stats := Statistics{StatusBreakdown: make(map[Status]int)}

	abvSum := decimal.Zero
	abvCount := 0
	for _, b := range batches {
		stats.TotalBatches++
		stats.StatusBreakdown[b.Status]++

		switch {
		case b.Status.IsActive():
			stats.ActiveBatches++
		case b.Status == StatusFinished:
			stats.FinishedBatches++
			if b.ActualVolume != nil {
				stats.TotalVolumeProduced += *b.ActualVolume
			}
		case b.Status == StatusCancelled:
			stats.CancelledBatches++
		}

		if b.ABV != nil {
			abvSum = abvSum.Add(decimal.NewFromFloat(*b.ABV))
			abvCount++
		}
	}

	if abvCount > 0 {
		avg := abvSum.Div(decimal.NewFromInt(int64(abvCount))).Round(2).InexactFloat64()
		stats.AverageABV = &avg
	}

	return stats
}

// Span is the calendar extent of a batch.
type Span struct {
	Start     time.Time
	End       time.Time
	Estimated bool // End is a projection, not a recorded date
}

// CalendarSpan returns the calendar extent of b.
// Rules:
// - Start is the brew date
// - End is the finished or cancelled date when recorded
// - Otherwise End is projected defaultDays after the brew date (DefaultFermentationDays if <= 0)
func CalendarSpan(b Batch, defaultDays int) Span {
	if defaultDays <= 0 {
		defaultDays = DefaultFermentationDays
	}

	span := Span{Start: b.BrewDate}
	switch {
	case b.FinishedDate != nil:
		span.End = *b.FinishedDate
	case b.CancelledDate != nil:
		span.End = *b.CancelledDate
	default:
		span.End = b.BrewDate.AddDate(0, 0, defaultDays)
		span.Estimated = true
	}
	return span
}
