package app

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/brewctl/internal/core/fermentation"
	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/ports/secondary"
)

// defaultPageSize is how many readings are fetched per repository page when summarizing.
const defaultPageSize = 500

// FermentationServiceImpl implements the FermentationService interface.
type FermentationServiceImpl struct {
	batchRepo secondary.BatchRepository
	logRepo   secondary.FermentationLogRepository
	exporter  secondary.SeriesExporter
	log       logrus.FieldLogger
	now       func() time.Time
	pageSize  int
}

// NewFermentationService creates a new FermentationService with injected dependencies.
func NewFermentationService(
	batchRepo secondary.BatchRepository,
	logRepo secondary.FermentationLogRepository,
	exporter secondary.SeriesExporter,
	log logrus.FieldLogger,
) *FermentationServiceImpl {
	return &FermentationServiceImpl{
		batchRepo: batchRepo,
		logRepo:   logRepo,
		exporter:  exporter,
		log:       log.WithField("module", "fermentation"),
		now:       time.Now,
		pageSize:  defaultPageSize,
	}
}

// LogReading records a fermentation reading for a batch.
func (s *FermentationServiceImpl) LogReading(ctx context.Context, req primary.LogReadingRequest) (*primary.Reading, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	b, err := resolveBatch(ctx, s.batchRepo, req.BatchRef)
	if err != nil {
		return nil, err
	}

	measuredAt := req.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = s.now()
	}

	record := &secondary.FermentationLogRecord{
		ID:          uuid.NewString(),
		BatchID:     b.ID,
		MeasuredAt:  measuredAt.UTC(),
		Temperature: req.Temperature,
		Gravity:     req.Gravity,
		PH:          req.PH,
		Pressure:    req.Pressure,
		Notes:       req.Notes,
	}
	if err := s.logRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to log reading: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id":    b.ID,
		"reading_id":  record.ID,
		"measured_at": record.MeasuredAt,
	}).Debug("fermentation reading logged")

	return recordToReading(record), nil
}

// ListReadings returns a batch's readings ordered by measurement time.
func (s *FermentationServiceImpl) ListReadings(ctx context.Context, batchRef string) ([]*primary.Reading, error) {
	b, err := resolveBatch(ctx, s.batchRepo, batchRef)
	if err != nil {
		return nil, err
	}

	sorted, err := s.sortedReadings(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	readings := make([]*primary.Reading, len(sorted))
	for i, r := range sorted {
		readings[i] = coreToReading(r)
	}
	return readings, nil
}

// DeleteReading removes one reading from a batch.
func (s *FermentationServiceImpl) DeleteReading(ctx context.Context, batchRef, readingID string) error {
	b, err := resolveBatch(ctx, s.batchRepo, batchRef)
	if err != nil {
		return err
	}

	if err := s.logRepo.Delete(ctx, b.ID, readingID); err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}
	return nil
}

// Summarize computes fermentation aggregates and chart series.
func (s *FermentationServiceImpl) Summarize(ctx context.Context, req primary.SummaryRequest) (*primary.FermentationSummary, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, invalidField("To", "gtefield", "From")
	}

	b, err := resolveBatch(ctx, s.batchRepo, req.BatchRef)
	if err != nil {
		return nil, err
	}

	readings, errp := s.pages(ctx, b.ID)
	summary := fermentation.SummarizeSeq(b.ID, readings, fermentation.Window{From: req.From, To: req.To})
	if err := *errp; err != nil {
		return nil, fmt.Errorf("failed to read fermentation logs: %w", err)
	}

	out := summaryToPrimary(summary)
	out.BatchNumber = b.BatchNumber
	return out, nil
}

// ExportSeries writes the batch's fermentation series as a workbook to w.
func (s *FermentationServiceImpl) ExportSeries(ctx context.Context, batchRef string, w io.Writer) error {
	b, err := resolveBatch(ctx, s.batchRepo, batchRef)
	if err != nil {
		return err
	}

	sorted, err := s.sortedReadings(ctx, b.ID)
	if err != nil {
		return err
	}
	summary := fermentation.Summarize(b.ID, sorted, fermentation.All)

	sheet := &secondary.SeriesSheet{
		BatchNumber:        b.BatchNumber,
		Rows:               make([]secondary.SeriesRow, len(sorted)),
		AverageTemperature: summary.AverageTemperature,
		GravityDrop:        summary.GravityDrop,
		CurrentPH:          summary.CurrentPH,
	}
	for i, r := range sorted {
		sheet.Rows[i] = secondary.SeriesRow{
			At:          r.MeasuredAt,
			Temperature: r.Temperature,
			Gravity:     r.Gravity,
			PH:          r.PH,
			Pressure:    r.Pressure,
		}
	}

	if err := s.exporter.Export(w, sheet); err != nil {
		return fmt.Errorf("failed to export series: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id": b.ID,
		"rows":     len(sheet.Rows),
	}).Info("fermentation series exported")
	return nil
}

func (s *FermentationServiceImpl) sortedReadings(ctx context.Context, batchID string) ([]fermentation.Reading, error) {
	records, err := s.logRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}

	readings := make([]fermentation.Reading, len(records))
	for i, r := range records {
		readings[i] = recordToCoreReading(r)
	}
	return fermentation.Sort(readings), nil
}

// pages streams a batch's readings page by page. The returned error pointer
// is set if a page fails to load; check it once the sequence is consumed.
func (s *FermentationServiceImpl) pages(ctx context.Context, batchID string) (iter.Seq[fermentation.Reading], *error) {
	var pageErr error
	seq := func(yield func(fermentation.Reading) bool) {
		var after int64
		for {
			page, err := s.logRepo.ListPage(ctx, batchID, after, s.pageSize)
			if err != nil {
				pageErr = err
				return
			}
			if len(page) == 0 {
				return
			}
			for _, r := range page {
				if !yield(recordToCoreReading(r)) {
					return
				}
				after = r.Seq
			}
		}
	}
	return seq, &pageErr
}

// Helper methods

func recordToCoreReading(r *secondary.FermentationLogRecord) fermentation.Reading {
	return fermentation.Reading{
		ID:          r.ID,
		BatchID:     r.BatchID,
		Seq:         r.Seq,
		MeasuredAt:  r.MeasuredAt,
		Temperature: r.Temperature,
		Gravity:     r.Gravity,
		PH:          r.PH,
		Pressure:    r.Pressure,
		Notes:       r.Notes,
	}
}

func recordToReading(r *secondary.FermentationLogRecord) *primary.Reading {
	return coreToReading(recordToCoreReading(r))
}

func coreToReading(r fermentation.Reading) *primary.Reading {
	return &primary.Reading{
		ID:          r.ID,
		BatchID:     r.BatchID,
		MeasuredAt:  r.MeasuredAt,
		Temperature: r.Temperature,
		Gravity:     r.Gravity,
		PH:          r.PH,
		Pressure:    r.Pressure,
		Notes:       r.Notes,
	}
}

func summaryToPrimary(s fermentation.Summary) *primary.FermentationSummary {
	return &primary.FermentationSummary{
		BatchID:            s.BatchID,
		ReadingCount:       s.ReadingCount,
		AverageTemperature: s.AverageTemperature,
		MinTemperature:     s.MinTemperature,
		MaxTemperature:     s.MaxTemperature,
		GravityDrop:        s.GravityDrop,
		CurrentPH:          s.CurrentPH,
		FirstReadingAt:     s.FirstReadingAt,
		LastReadingAt:      s.LastReadingAt,
		Temperature:        pointsToPrimary(s.Series.Temperature),
		Gravity:            pointsToPrimary(s.Series.Gravity),
		PH:                 pointsToPrimary(s.Series.PH),
		Pressure:           pointsToPrimary(s.Series.Pressure),
	}
}

func pointsToPrimary(points []fermentation.Point) []primary.SeriesPoint {
	out := make([]primary.SeriesPoint, len(points))
	for i, p := range points {
		out[i] = primary.SeriesPoint{At: p.At, Value: p.Value}
	}
	return out
}

// Ensure FermentationServiceImpl implements the interface
var _ primary.FermentationService = (*FermentationServiceImpl)(nil)
