// Package fermentation contains the pure analytics over fermentation readings.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Readings may arrive in any order. Every aggregate is computed over the
// readings sorted by MeasuredAt, with insertion order (Seq, then ID) breaking
// ties between readings taken at the same instant.
package fermentation

import (
	"iter"
	"slices"
	"strings"
	"time"
)

// Reading is a single timestamped fermentation measurement.
type Reading struct {
	ID          string
	BatchID     string
	Seq         int64 // insertion order, used to break timestamp ties
	MeasuredAt  time.Time
	Temperature float64  // °C, always present
	Gravity     *float64 // SG
	PH          *float64
	Pressure    *float64 // PSI
	Notes       string
}

// Window bounds the readings considered by Summarize. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

// All is the window covering the whole batch history.
var All = Window{}

// Contains reports whether t falls inside the window (bounds inclusive).
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// Point is one chart sample.
type Point struct {
	At    time.Time
	Value float64
}

// Series holds one chart-ready sequence per metric. Each sequence only
// contains the readings where that metric is present, so lengths may differ.
type Series struct {
	Temperature []Point
	Gravity     []Point
	PH          []Point
	Pressure    []Point
}

// Summary is the result of Summarize. Absent aggregates are nil, never zero.
type Summary struct {
	BatchID            string
	ReadingCount       int
	AverageTemperature *float64
	MinTemperature     *float64
	MaxTemperature     *float64
	GravityDrop        *float64
	CurrentPH          *float64
	FirstReadingAt     *time.Time
	LastReadingAt      *time.Time
	Series             Series
}

// NoData reports whether the summary was computed over no readings.
func (s Summary) NoData() bool {
	return s.ReadingCount == 0
}

// Sort orders readings by MeasuredAt ascending, breaking ties by Seq then ID.
// The input slice is not modified.
func Sort(readings []Reading) []Reading {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, compareReadings)
	return sorted
}

func compareReadings(a, b Reading) int {
	if c := a.MeasuredAt.Compare(b.MeasuredAt); c != 0 {
		return c
	}
	if a.Seq != b.Seq {
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// Summarize computes statistics and chart series for a batch's readings.
// Rules:
// - readings are re-sorted by MeasuredAt; arrival order is never trusted
// - AverageTemperature is the mean over every reading in the window
// - GravityDrop is first minus last gravity, absent with fewer than two gravity readings
// - CurrentPH is the pH of the latest reading that carries one
// - an empty window yields ReadingCount 0 with every aggregate absent
func Summarize(batchID string, readings []Reading, window Window) Summary {
	summary := Summary{BatchID: batchID}

	var inWindow []Reading
	for _, r := range readings {
		if window.Contains(r.MeasuredAt) {
			inWindow = append(inWindow, r)
		}
	}
	if len(inWindow) == 0 {
		return summary
	}

	sorted := Sort(inWindow)
	summary.ReadingCount = len(sorted)

	first := sorted[0].MeasuredAt
	last := sorted[len(sorted)-1].MeasuredAt
	summary.FirstReadingAt = &first
	summary.LastReadingAt = &last

	minTemp, maxTemp := sorted[0].Temperature, sorted[0].Temperature
	var tempSum float64
	var gravities []float64
	var currentPH *float64
	var series Series

	for _, r := range sorted {
		tempSum += r.Temperature
		minTemp = min(minTemp, r.Temperature)
		maxTemp = max(maxTemp, r.Temperature)
		series.Temperature = append(series.Temperature, Point{At: r.MeasuredAt, Value: r.Temperature})

		if r.Gravity != nil {
			gravities = append(gravities, *r.Gravity)
			series.Gravity = append(series.Gravity, Point{At: r.MeasuredAt, Value: *r.Gravity})
		}
		if r.PH != nil {
			ph := *r.PH
			currentPH = &ph
			series.PH = append(series.PH, Point{At: r.MeasuredAt, Value: ph})
		}
		if r.Pressure != nil {
			series.Pressure = append(series.Pressure, Point{At: r.MeasuredAt, Value: *r.Pressure})
		}
	}

	avg := tempSum / float64(len(sorted))
	summary.AverageTemperature = &avg
	summary.MinTemperature = &minTemp
	summary.MaxTemperature = &maxTemp
	summary.CurrentPH = currentPH

	if len(gravities) >= 2 {
		drop := gravities[0] - gravities[len(gravities)-1]
		summary.GravityDrop = &drop
	}

	summary.Series = series
	return summary
}

// SummarizeSeq is Summarize over a lazy source, such as a paginated
// repository cursor. The sequence must be finite; it is consumed once.
func SummarizeSeq(batchID string, readings iter.Seq[Reading], window Window) Summary {
	var collected []Reading
	for r := range readings {
		if window.Contains(r.MeasuredAt) {
			collected = append(collected, r)
		}
	}
	return Summarize(batchID, collected, All)
}
