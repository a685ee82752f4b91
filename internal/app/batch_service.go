package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/brewctl/internal/core/batch"
	"github.com/example/brewctl/internal/core/gravity"
	coreqc "github.com/example/brewctl/internal/core/qc"
	"github.com/example/brewctl/internal/ctxutil"
	"github.com/example/brewctl/internal/logging"
	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/ports/secondary"
)

// BatchOptions are the deployment settings the batch service applies.
type BatchOptions struct {
	Policy           coreqc.Policy
	FermentationDays int // calendar projection for unfinished batches
}

// BatchServiceImpl implements the BatchService interface.
type BatchServiceImpl struct {
	batchRepo secondary.BatchRepository
	qcRepo    secondary.QCRepository
	inventory secondary.InventoryTrigger
	opts      BatchOptions
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewBatchService creates a new BatchService with injected dependencies.
func NewBatchService(
	batchRepo secondary.BatchRepository,
	qcRepo secondary.QCRepository,
	inventory secondary.InventoryTrigger,
	opts BatchOptions,
	log logrus.FieldLogger,
) *BatchServiceImpl {
	return &BatchServiceImpl{
		batchRepo: batchRepo,
		qcRepo:    qcRepo,
		inventory: inventory,
		opts:      opts,
		log:       log.WithField("module", "batch"),
		now:       time.Now,
	}
}

// CreateBatch plans a new batch.
func (s *BatchServiceImpl) CreateBatch(ctx context.Context, req primary.CreateBatchRequest) (*primary.CreateBatchResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Generate batch number
	number, err := s.batchRepo.GetNextBatchNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch number: %w", err)
	}

	// 2. Build the PLANNED batch using core rules
	b, err := batch.NewBatch(batch.CreateParams{
		ID:             uuid.NewString(),
		BatchNumber:    number,
		RecipeID:       req.RecipeID,
		LocationID:     req.LocationID,
		BrewDate:       req.BrewDate,
		ExpectedVolume: req.ExpectedVolume,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}

	// 3. Persist
	record := coreToRecord(b)
	if err := s.batchRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id":     record.ID,
		"batch_number": record.BatchNumber,
		"recipe_id":    record.RecipeID,
	}).Info("batch planned")

	return &primary.CreateBatchResponse{
		BatchID: record.ID,
		Batch:   recordToBatch(record),
	}, nil
}

// GetBatch retrieves a batch by ID or batch number.
func (s *BatchServiceImpl) GetBatch(ctx context.Context, ref string) (*primary.Batch, error) {
	record, err := resolveBatch(ctx, s.batchRepo, ref)
	if err != nil {
		return nil, err
	}
	return recordToBatch(record), nil
}

// ListBatches lists batches with optional filters.
func (s *BatchServiceImpl) ListBatches(ctx context.Context, filters primary.BatchFilters) ([]*primary.Batch, error) {
	records, err := s.listRecords(ctx, filters)
	if err != nil {
		return nil, err
	}

	batches := make([]*primary.Batch, len(records))
	for i, r := range records {
		batches[i] = recordToBatch(r)
	}
	return batches, nil
}

// TransitionBatch moves a batch to a new status.
func (s *BatchServiceImpl) TransitionBatch(ctx context.Context, req primary.TransitionBatchRequest) (*primary.TransitionBatchResponse, error) {
	req.OG = normalizeGravityUnit(req.OG)
	req.FG = normalizeGravityUnit(req.FG)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Load current state
	record, err := resolveBatch(ctx, s.batchRepo, req.BatchRef)
	if err != nil {
		return nil, err
	}
	current := recordToCore(record)
	target := batch.Status(strings.ToUpper(strings.TrimSpace(req.TargetStatus)))

	// 2. Apply core lifecycle rules
	payload := batch.Payload{
		OG:           toMeasurement(req.OG),
		FG:           toMeasurement(req.FG),
		ActualVolume: req.ActualVolume,
		Notes:        req.Notes,
		Actor:        ctxutil.ActorFromContext(ctx),
	}
	result, err := batch.Transition(current, target, payload, s.now())
	if err != nil {
		return nil, err
	}
	if result.NoOp {
		return &primary.TransitionBatchResponse{Batch: recordToBatch(record), NoOp: true}, nil
	}

	// 3. Deployment QC policy, only for transitions the lifecycle allows
	if err := s.checkReadiness(ctx, record, target); err != nil {
		return nil, err
	}

	// 4. Persist batch and history together, guarded by version
	updated := coreToRecord(result.Batch)
	updated.CreatedAt = record.CreatedAt
	history := entryToRecord(result.Batch.ID, result.Entry)
	if err := s.batchRepo.ApplyTransition(ctx, updated, history); err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id": updated.ID,
		"from":     result.Entry.From,
		"to":       result.Entry.To,
		"changes":  len(result.Entry.Changes),
	}).Info("batch transitioned")

	// 5. Notify inventory; the transition stands regardless
	s.notifyInventory(ctx, result.Batch)

	return &primary.TransitionBatchResponse{
		Batch: recordToBatch(updated),
		Entry: historyToEntry(history),
	}, nil
}

// CancelBatch cancels a non-terminal batch.
func (s *BatchServiceImpl) CancelBatch(ctx context.Context, ref, notes string) (*primary.TransitionBatchResponse, error) {
	return s.TransitionBatch(ctx, primary.TransitionBatchRequest{
		BatchRef:     ref,
		TargetStatus: string(batch.StatusCancelled),
		Notes:        notes,
	})
}

// UpdateNotes replaces the free-text notes of a batch.
func (s *BatchServiceImpl) UpdateNotes(ctx context.Context, req primary.UpdateNotesRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	record, err := resolveBatch(ctx, s.batchRepo, req.BatchRef)
	if err != nil {
		return err
	}

	guard := batch.CanEditDetails(batch.EditContext{BatchID: record.ID, Status: batch.Status(record.Status)})
	if !guard.Allowed {
		return guard.Error()
	}

	if err := s.batchRepo.UpdateNotes(ctx, record.ID, req.Notes, record.Version); err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	return nil
}

// DeleteBatch deletes a batch with its history, fermentation logs and QC tests.
func (s *BatchServiceImpl) DeleteBatch(ctx context.Context, ref string) error {
	record, err := resolveBatch(ctx, s.batchRepo, ref)
	if err != nil {
		return err
	}

	if err := s.batchRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id":     record.ID,
		"batch_number": record.BatchNumber,
		"status":       record.Status,
	}).Info("batch deleted")
	return nil
}

// GetHistory returns the status history of a batch, oldest first.
func (s *BatchServiceImpl) GetHistory(ctx context.Context, ref string) ([]*primary.HistoryEntry, error) {
	record, err := resolveBatch(ctx, s.batchRepo, ref)
	if err != nil {
		return nil, err
	}

	records, err := s.batchRepo.ListHistory(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.HistoryEntry, len(records))
	for i, h := range records {
		entries[i] = historyToEntry(h)
	}
	return entries, nil
}

// VerifyHistory checks that the stored history is a legal lifecycle
// ending in the batch's current status.
func (s *BatchServiceImpl) VerifyHistory(ctx context.Context, ref string) error {
	record, err := resolveBatch(ctx, s.batchRepo, ref)
	if err != nil {
		return err
	}

	records, err := s.batchRepo.ListHistory(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]batch.HistoryEntry, len(records))
	for i, h := range records {
		entries[i] = batch.HistoryEntry{
			From: batch.Status(h.FromStatus),
			To:   batch.Status(h.ToStatus),
			At:   h.At,
		}
	}

	if err := batch.ValidateHistory(entries); err != nil {
		return fmt.Errorf("batch %s: %w", record.BatchNumber, err)
	}
	if replayed := batch.Replay(entries); replayed != batch.Status(record.Status) {
		return fmt.Errorf("batch %s: history replays to %s but status is %s", record.BatchNumber, replayed, record.Status)
	}
	return nil
}

// GetStatistics aggregates all batches.
func (s *BatchServiceImpl) GetStatistics(ctx context.Context) (*primary.BatchStatistics, error) {
	records, err := s.batchRepo.List(ctx, secondary.BatchFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	batches := make([]batch.Batch, len(records))
	for i, r := range records {
		batches[i] = recordToCore(r)
	}
	stats := batch.ComputeStatistics(batches)

	breakdown := make(map[string]int, len(stats.StatusBreakdown))
	for status, n := range stats.StatusBreakdown {
		breakdown[string(status)] = n
	}

	return &primary.BatchStatistics{
		TotalBatches:        stats.TotalBatches,
		ActiveBatches:       stats.ActiveBatches,
		FinishedBatches:     stats.FinishedBatches,
		CancelledBatches:    stats.CancelledBatches,
		TotalVolumeProduced: stats.TotalVolumeProduced,
		AverageABV:          stats.AverageABV,
		StatusBreakdown:     breakdown,
	}, nil
}

// GetCalendar returns the calendar span of each batch.
func (s *BatchServiceImpl) GetCalendar(ctx context.Context, filters primary.BatchFilters) ([]*primary.CalendarEntry, error) {
	records, err := s.listRecords(ctx, filters)
	if err != nil {
		return nil, err
	}

	entries := make([]*primary.CalendarEntry, len(records))
	for i, r := range records {
		span := batch.CalendarSpan(recordToCore(r), s.opts.FermentationDays)
		entries[i] = &primary.CalendarEntry{
			BatchID:     r.ID,
			BatchNumber: r.BatchNumber,
			RecipeID:    r.RecipeID,
			Status:      r.Status,
			Start:       span.Start,
			End:         span.End,
			Estimated:   span.Estimated,
		}
	}
	return entries, nil
}

func (s *BatchServiceImpl) listRecords(ctx context.Context, filters primary.BatchFilters) ([]*secondary.BatchRecord, error) {
	f := secondary.BatchFilters{Limit: filters.Limit}
	if filters.Status != "" {
		status, err := batch.ParseStatus(filters.Status)
		if err != nil {
			return nil, invalidField("Status", "oneof", strings.Join(statusNames(), " "))
		}
		f.Status = string(status)
	}

	records, err := s.batchRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return records, nil
}

// checkReadiness applies the configured QC policy to a transition into target.
func (s *BatchServiceImpl) checkReadiness(ctx context.Context, b *secondary.BatchRecord, target batch.Status) error {
	if !s.opts.Policy.Enabled() {
		return nil
	}

	records, err := s.qcRepo.ListTests(ctx, secondary.QCTestFilters{BatchID: b.ID})
	if err != nil {
		return fmt.Errorf("failed to load QC tests: %w", err)
	}

	guard := coreqc.CanEnterStatus(coreqc.ReadinessContext{
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		Target:      target,
		Stats:       coreqc.ComputeStats(recordsToTests(records)),
		Policy:      s.opts.Policy,
	})
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", ErrBlockedByQC, guard.Reason)
	}
	return nil
}

func (s *BatchServiceImpl) notifyInventory(ctx context.Context, b batch.Batch) {
	if s.inventory == nil {
		return
	}

	event := secondary.InventoryEvent{
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		RecipeID:    b.RecipeID,
		LocationID:  b.LocationID,
		Volume:      b.ExpectedVolume,
		At:          s.now().UTC(),
	}
	if b.ActualVolume != nil {
		event.Volume = *b.ActualVolume
	}

	var err error
	switch b.Status {
	case batch.StatusBrewing:
		err = s.inventory.BatchStarted(ctx, event)
	case batch.StatusPackaging:
		err = s.inventory.BatchPackaged(ctx, event)
	case batch.StatusFinished:
		err = s.inventory.BatchFinished(ctx, event)
	default:
		return
	}
	if err != nil {
		logging.LogError(s.log, "batch", "notifyInventory", logrus.Fields{
			"batch_id": b.ID,
			"status":   b.Status,
		}, err)
	}
}

// resolveBatch looks a batch up by ID, then by batch number.
func resolveBatch(ctx context.Context, repo secondary.BatchRepository, ref string) (*secondary.BatchRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalidField("BatchRef", "required", "")
	}

	record, err := repo.GetByID(ctx, ref)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	record, err = repo.GetByNumber(ctx, strings.ToUpper(ref))
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("batch %s %w", ref, secondary.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return record, nil
}

func statusNames() []string {
	names := make([]string, 0, len(batch.Progression)+1)
	for _, st := range batch.Progression {
		names = append(names, string(st))
	}
	return append(names, string(batch.StatusCancelled))
}

// normalizeGravityUnit returns a copy of in with accepted unit spellings
// ("p", "sg", "°P") rewritten to canonical names. Unknown units are kept
// for validation to reject.
func normalizeGravityUnit(in *primary.GravityInput) *primary.GravityInput {
	if in == nil {
		return nil
	}
	out := *in
	if unit, err := gravity.ParseUnit(in.Unit); err == nil {
		out.Unit = string(unit)
	}
	return &out
}

func toMeasurement(in *primary.GravityInput) *gravity.Measurement {
	if in == nil {
		return nil
	}
	unit, _ := gravity.ParseUnit(in.Unit)
	return &gravity.Measurement{Value: in.Value, Unit: unit}
}

// Helper methods

func recordToCore(r *secondary.BatchRecord) batch.Batch {
	return batch.Batch{
		ID:                    r.ID,
		BatchNumber:           r.BatchNumber,
		RecipeID:              r.RecipeID,
		LocationID:            r.LocationID,
		Status:                batch.Status(r.Status),
		BrewDate:              r.BrewDate,
		FermentationStartDate: r.FermentationStartDate,
		PackagedDate:          r.PackagedDate,
		FinishedDate:          r.FinishedDate,
		CancelledDate:         r.CancelledDate,
		ExpectedVolume:        r.ExpectedVolume,
		ActualVolume:          r.ActualVolume,
		OG:                    r.OG,
		FG:                    r.FG,
		ABV:                   r.ABV,
		Notes:                 r.Notes,
		Version:               r.Version,
	}
}

func coreToRecord(b batch.Batch) *secondary.BatchRecord {
	return &secondary.BatchRecord{
		ID:                    b.ID,
		BatchNumber:           b.BatchNumber,
		RecipeID:              b.RecipeID,
		LocationID:            b.LocationID,
		Status:                string(b.Status),
		BrewDate:              b.BrewDate,
		FermentationStartDate: b.FermentationStartDate,
		PackagedDate:          b.PackagedDate,
		FinishedDate:          b.FinishedDate,
		CancelledDate:         b.CancelledDate,
		ExpectedVolume:        b.ExpectedVolume,
		ActualVolume:          b.ActualVolume,
		OG:                    b.OG,
		FG:                    b.FG,
		ABV:                   b.ABV,
		Notes:                 b.Notes,
		Version:               b.Version,
	}
}

func recordToBatch(r *secondary.BatchRecord) *primary.Batch {
	return &primary.Batch{
		ID:                    r.ID,
		BatchNumber:           r.BatchNumber,
		RecipeID:              r.RecipeID,
		LocationID:            r.LocationID,
		Status:                r.Status,
		BrewDate:              r.BrewDate,
		FermentationStartDate: r.FermentationStartDate,
		PackagedDate:          r.PackagedDate,
		FinishedDate:          r.FinishedDate,
		CancelledDate:         r.CancelledDate,
		ExpectedVolume:        r.ExpectedVolume,
		ActualVolume:          r.ActualVolume,
		OG:                    r.OG,
		FG:                    r.FG,
		ABV:                   r.ABV,
		Notes:                 r.Notes,
		Version:               r.Version,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func entryToRecord(batchID string, e *batch.HistoryEntry) *secondary.HistoryRecord {
	changes := make([]secondary.FieldChangeRecord, len(e.Changes))
	for i, c := range e.Changes {
		changes[i] = secondary.FieldChangeRecord{Field: c.Field, Old: c.Old, New: c.New}
	}
	return &secondary.HistoryRecord{
		ID:         uuid.NewString(),
		BatchID:    batchID,
		FromStatus: string(e.From),
		ToStatus:   string(e.To),
		At:         e.At,
		Changes:    changes,
		Notes:      e.Notes,
		Actor:      e.Actor,
	}
}

func historyToEntry(h *secondary.HistoryRecord) *primary.HistoryEntry {
	changes := make([]primary.FieldChange, len(h.Changes))
	for i, c := range h.Changes {
		changes[i] = primary.FieldChange{Field: c.Field, Old: c.Old, New: c.New}
	}
	return &primary.HistoryEntry{
		ID:      h.ID,
		From:    h.FromStatus,
		To:      h.ToStatus,
		At:      h.At,
		Changes: changes,
		Notes:   h.Notes,
		Actor:   h.Actor,
	}
}

// Ensure BatchServiceImpl implements the interface
var _ primary.BatchService = (*BatchServiceImpl)(nil)
