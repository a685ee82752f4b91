package app

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/ports/secondary"
)

type fermentationFixture struct {
	svc      *FermentationServiceImpl
	batches  *mockBatchRepository
	logs     *mockFermentationLogRepository
	exporter *mockSeriesExporter
}

func newTestFermentationService() fermentationFixture {
	logger, _ := newTestLogger()
	f := fermentationFixture{
		batches:  newMockBatchRepository(),
		logs:     newMockFermentationLogRepository(),
		exporter: &mockSeriesExporter{},
	}
	f.svc = NewFermentationService(f.batches, f.logs, f.exporter, logger)
	f.svc.now = fixedClock
	seedBatch(f.batches, "b-1", "BATCH-001", "FERMENTING")
	return f
}

// logSample records the three readings of a typical primary fermentation,
// deliberately out of time order.
func (f fermentationFixture) logSample(t *testing.T) time.Time {
	t.Helper()
	t0 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	reqs := []primary.LogReadingRequest{
		{BatchRef: "b-1", MeasuredAt: t0.AddDate(0, 0, 7), Temperature: 18.0, Gravity: ptr(1.012), PH: ptr(4.1)},
		{BatchRef: "b-1", MeasuredAt: t0, Temperature: 20.0, Gravity: ptr(1.050)},
		{BatchRef: "b-1", MeasuredAt: t0.AddDate(0, 0, 3), Temperature: 19.5, Gravity: ptr(1.020), PH: ptr(4.3)},
	}
	for _, req := range reqs {
		if _, err := f.svc.LogReading(context.Background(), req); err != nil {
			t.Fatalf("LogReading failed: %v", err)
		}
	}
	return t0
}

func TestLogReading(t *testing.T) {
	f := newTestFermentationService()

	r, err := f.svc.LogReading(context.Background(), primary.LogReadingRequest{
		BatchRef:    "BATCH-001",
		Temperature: 19.0,
		PH:          ptr(4.4),
		Notes:       "airlock active",
	})
	if err != nil {
		t.Fatalf("LogReading failed: %v", err)
	}
	if r.ID == "" || r.BatchID != "b-1" {
		t.Errorf("reading = %+v", r)
	}
	if !r.MeasuredAt.Equal(testNow) {
		t.Errorf("MeasuredAt = %v, want default of now %v", r.MeasuredAt, testNow)
	}
	if len(f.logs.logs) != 1 || f.logs.logs[0].Seq != 1 {
		t.Errorf("stored logs = %+v", f.logs.logs)
	}
}

func TestLogReading_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  primary.LogReadingRequest
	}{
		{"temperature too high", primary.LogReadingRequest{BatchRef: "b-1", Temperature: 150}},
		{"temperature too low", primary.LogReadingRequest{BatchRef: "b-1", Temperature: -20}},
		{"gravity out of range", primary.LogReadingRequest{BatchRef: "b-1", Temperature: 20, Gravity: ptr(1.5)}},
		{"pH out of range", primary.LogReadingRequest{BatchRef: "b-1", Temperature: 20, PH: ptr(15)}},
		{"negative pressure", primary.LogReadingRequest{BatchRef: "b-1", Temperature: 20, Pressure: ptr(-1)}},
		{"missing batch", primary.LogReadingRequest{Temperature: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFermentationService()
			_, err := f.svc.LogReading(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %v", err)
			}
			if len(f.logs.logs) != 0 {
				t.Error("invalid reading was stored")
			}
		})
	}
}

func TestLogReading_UnknownBatch(t *testing.T) {
	f := newTestFermentationService()

	_, err := f.svc.LogReading(context.Background(), primary.LogReadingRequest{BatchRef: "BATCH-999", Temperature: 20})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListReadings_SortedByTime(t *testing.T) {
	f := newTestFermentationService()
	t0 := f.logSample(t)

	readings, err := f.svc.ListReadings(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("ListReadings failed: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("got %d readings, want 3", len(readings))
	}
	want := []time.Time{t0, t0.AddDate(0, 0, 3), t0.AddDate(0, 0, 7)}
	for i, r := range readings {
		if !r.MeasuredAt.Equal(want[i]) {
			t.Errorf("readings[%d].MeasuredAt = %v, want %v", i, r.MeasuredAt, want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	f := newTestFermentationService()
	f.svc.pageSize = 2
	f.logSample(t)

	s, err := f.svc.Summarize(context.Background(), primary.SummaryRequest{BatchRef: "BATCH-001"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.BatchNumber != "BATCH-001" || s.ReadingCount != 3 {
		t.Errorf("summary = %+v", s)
	}
	if s.GravityDrop == nil || !approx(*s.GravityDrop, 0.038) {
		t.Errorf("GravityDrop = %v, want 0.038", s.GravityDrop)
	}
	if s.CurrentPH == nil || *s.CurrentPH != 4.1 {
		t.Errorf("CurrentPH = %v, want 4.1", s.CurrentPH)
	}
	if s.AverageTemperature == nil || math.Abs(*s.AverageTemperature-19.1667) > 0.001 {
		t.Errorf("AverageTemperature = %v, want ~19.17", s.AverageTemperature)
	}
	if len(s.Temperature) != 3 || len(s.Gravity) != 3 || len(s.PH) != 2 || len(s.Pressure) != 0 {
		t.Errorf("series lengths = %d/%d/%d/%d", len(s.Temperature), len(s.Gravity), len(s.PH), len(s.Pressure))
	}
	// One full page, one partial page, then the empty page that ends paging.
	if f.logs.pages != 3 {
		t.Errorf("ListPage called %d times, want 3", f.logs.pages)
	}
}

func TestSummarize_Window(t *testing.T) {
	f := newTestFermentationService()
	t0 := f.logSample(t)

	s, err := f.svc.Summarize(context.Background(), primary.SummaryRequest{
		BatchRef: "b-1",
		From:     t0.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.ReadingCount != 2 {
		t.Errorf("ReadingCount = %d, want 2", s.ReadingCount)
	}
	if s.GravityDrop == nil || !approx(*s.GravityDrop, 0.008) {
		t.Errorf("GravityDrop = %v, want 0.008", s.GravityDrop)
	}

	_, err = f.svc.Summarize(context.Background(), primary.SummaryRequest{
		BatchRef: "b-1",
		From:     t0.AddDate(0, 0, 5),
		To:       t0,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("inverted window: expected *ValidationError, got %v", err)
	}
}

func TestSummarize_NoData(t *testing.T) {
	f := newTestFermentationService()

	s, err := f.svc.Summarize(context.Background(), primary.SummaryRequest{BatchRef: "b-1"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.ReadingCount != 0 {
		t.Errorf("ReadingCount = %d, want 0", s.ReadingCount)
	}
	if s.AverageTemperature != nil || s.GravityDrop != nil || s.CurrentPH != nil || s.FirstReadingAt != nil {
		t.Errorf("expected absent aggregates, got %+v", s)
	}
}

func TestSummarize_PageError(t *testing.T) {
	f := newTestFermentationService()
	f.logSample(t)
	f.logs.pageErr = errors.New("disk I/O error")

	if _, err := f.svc.Summarize(context.Background(), primary.SummaryRequest{BatchRef: "b-1"}); err == nil {
		t.Error("expected error when a page fails to load")
	}
}

func TestDeleteReading(t *testing.T) {
	f := newTestFermentationService()
	r, err := f.svc.LogReading(context.Background(), primary.LogReadingRequest{BatchRef: "b-1", Temperature: 19})
	if err != nil {
		t.Fatalf("LogReading failed: %v", err)
	}
	seedBatch(f.batches, "b-2", "BATCH-002", "BREWING")

	if err := f.svc.DeleteReading(context.Background(), "b-2", r.ID); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("delete via wrong batch: error = %v, want ErrNotFound", err)
	}
	if err := f.svc.DeleteReading(context.Background(), "b-1", r.ID); err != nil {
		t.Fatalf("DeleteReading failed: %v", err)
	}
	if len(f.logs.logs) != 0 {
		t.Error("reading not deleted")
	}
}

func TestExportSeries(t *testing.T) {
	f := newTestFermentationService()
	t0 := f.logSample(t)

	var buf bytes.Buffer
	if err := f.svc.ExportSeries(context.Background(), "b-1", &buf); err != nil {
		t.Fatalf("ExportSeries failed: %v", err)
	}

	sheet := f.exporter.sheet
	if sheet == nil || sheet.BatchNumber != "BATCH-001" {
		t.Fatalf("sheet = %+v", sheet)
	}
	if len(sheet.Rows) != 3 || !sheet.Rows[0].At.Equal(t0) {
		t.Errorf("rows not in time order: %+v", sheet.Rows)
	}
	if sheet.GravityDrop == nil || !approx(*sheet.GravityDrop, 0.038) {
		t.Errorf("GravityDrop = %v, want 0.038", sheet.GravityDrop)
	}
	if buf.String() != "workbook:BATCH-001" {
		t.Errorf("output = %q", buf.String())
	}

	f.exporter.err = errors.New("write failed")
	if err := f.svc.ExportSeries(context.Background(), "b-1", &buf); err == nil {
		t.Error("expected exporter error to surface")
	}
}
