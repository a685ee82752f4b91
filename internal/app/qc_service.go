package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	coreqc "github.com/example/brewctl/internal/core/qc"
	"github.com/example/brewctl/internal/ports/primary"
	"github.com/example/brewctl/internal/ports/secondary"
)

// QCServiceImpl implements the QCService interface.
type QCServiceImpl struct {
	qcRepo    secondary.QCRepository
	batchRepo secondary.BatchRepository
	catalog   secondary.TestTypeCatalog
	log       logrus.FieldLogger
}

// NewQCService creates a new QCService with injected dependencies.
func NewQCService(
	qcRepo secondary.QCRepository,
	batchRepo secondary.BatchRepository,
	catalog secondary.TestTypeCatalog,
	log logrus.FieldLogger,
) *QCServiceImpl {
	return &QCServiceImpl{
		qcRepo:    qcRepo,
		batchRepo: batchRepo,
		catalog:   catalog,
		log:       log.WithField("module", "qc"),
	}
}

// CreateTestType defines a new kind of QC test.
func (s *QCServiceImpl) CreateTestType(ctx context.Context, req primary.CreateTestTypeRequest) (*primary.TestType, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.MinValue != nil && req.MaxValue != nil && *req.MinValue > *req.MaxValue {
		return nil, invalidField("MaxValue", "gtefield", "MinValue")
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.qcRepo.GetTestTypeByName(ctx, name); err == nil {
		return nil, fmt.Errorf("test type %q already exists", name)
	} else if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to check test type: %w", err)
	}

	record := &secondary.QCTestTypeRecord{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    req.Category,
		Unit:        req.Unit,
		MinValue:    req.MinValue,
		MaxValue:    req.MaxValue,
		Description: req.Description,
	}
	if err := s.qcRepo.CreateTestType(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create test type: %w", err)
	}

	return recordToTestType(record), nil
}

// ListTestTypes lists all test types ordered by category and name.
func (s *QCServiceImpl) ListTestTypes(ctx context.Context) ([]*primary.TestType, error) {
	records, err := s.qcRepo.ListTestTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list test types: %w", err)
	}

	types := make([]*primary.TestType, len(records))
	for i, r := range records {
		types[i] = recordToTestType(r)
	}
	return types, nil
}

// ImportTestTypes loads test types from a catalogue file. Types are matched
// by name; existing ones keep their ID and take the catalogue definition.
func (s *QCServiceImpl) ImportTestTypes(ctx context.Context, path string) (*primary.ImportResult, error) {
	defs, err := s.catalog.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &primary.ImportResult{}
	for _, def := range defs {
		existing, err := s.qcRepo.GetTestTypeByName(ctx, def.Name)
		switch {
		case errors.Is(err, secondary.ErrNotFound):
			def.ID = uuid.NewString()
			if err := s.qcRepo.CreateTestType(ctx, def); err != nil {
				return result, fmt.Errorf("failed to create test type %q: %w", def.Name, err)
			}
			result.Created++
		case err != nil:
			return result, fmt.Errorf("failed to check test type %q: %w", def.Name, err)
		default:
			def.ID = existing.ID
			if err := s.qcRepo.UpdateTestType(ctx, def); err != nil {
				return result, fmt.Errorf("failed to update test type %q: %w", def.Name, err)
			}
			result.Updated++
		}
	}

	s.log.WithFields(logrus.Fields{
		"path":    path,
		"created": result.Created,
		"updated": result.Updated,
	}).Info("test types imported")
	return result, nil
}

// RecordTest records a QC test result for a batch.
// Without an explicit result the test is PENDING, unless AutoResult asks for
// the type's band to decide.
func (s *QCServiceImpl) RecordTest(ctx context.Context, req primary.RecordTestRequest) (*primary.QCTest, error) {
	req.Result = strings.ToUpper(strings.TrimSpace(req.Result))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	b, err := resolveBatch(ctx, s.batchRepo, req.BatchRef)
	if err != nil {
		return nil, err
	}

	tt, err := s.resolveTestType(ctx, req.TestType)
	if err != nil {
		return nil, err
	}
	coreType := recordToCoreTestType(tt)

	result := coreqc.ResultPending
	switch {
	case req.Result != "":
		result = coreqc.Result(req.Result)
	case req.AutoResult:
		result = coreqc.SuggestResult(req.Value, coreType)
	}

	record := &secondary.QCTestRecord{
		ID:           uuid.NewString(),
		BatchID:      b.ID,
		TestTypeID:   tt.ID,
		TestTypeName: tt.Name,
		Result:       string(result),
		Value:        req.Value,
		Notes:        req.Notes,
	}
	if err := s.qcRepo.CreateTest(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record QC test: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"batch_id":  b.ID,
		"test_type": tt.Name,
		"result":    result,
	}).Info("QC test recorded")

	return recordToQCTest(record, &coreType), nil
}

// ListTests lists QC tests, optionally for one batch.
func (s *QCServiceImpl) ListTests(ctx context.Context, batchRef string) ([]*primary.QCTest, error) {
	records, _, err := s.listTestRecords(ctx, batchRef)
	if err != nil {
		return nil, err
	}

	typeRecords, err := s.qcRepo.ListTestTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list test types: %w", err)
	}
	types := make(map[string]coreqc.TestType, len(typeRecords))
	for _, r := range typeRecords {
		types[r.ID] = recordToCoreTestType(r)
	}

	tests := make([]*primary.QCTest, len(records))
	for i, r := range records {
		var tt *coreqc.TestType
		if t, ok := types[r.TestTypeID]; ok {
			tt = &t
		}
		tests[i] = recordToQCTest(r, tt)
	}
	return tests, nil
}

// Stats returns pass/fail/pending counts for one batch, or all batches when batchRef is empty.
func (s *QCServiceImpl) Stats(ctx context.Context, batchRef string) (*primary.QCStats, error) {
	records, batchID, err := s.listTestRecords(ctx, batchRef)
	if err != nil {
		return nil, err
	}

	stats := coreqc.ComputeStats(recordsToTests(records))
	out := &primary.QCStats{
		BatchID:  batchID,
		Total:    stats.Total,
		Passed:   stats.Passed,
		Failed:   stats.Failed,
		Pending:  stats.Pending,
		PassRate: stats.PassRate,
	}
	return out, nil
}

// listTestRecords returns the tests of one batch, or all tests when batchRef
// is empty, along with the resolved batch ID.
func (s *QCServiceImpl) listTestRecords(ctx context.Context, batchRef string) ([]*secondary.QCTestRecord, string, error) {
	var filters secondary.QCTestFilters
	if batchRef != "" {
		b, err := resolveBatch(ctx, s.batchRepo, batchRef)
		if err != nil {
			return nil, "", err
		}
		filters.BatchID = b.ID
	}

	records, err := s.qcRepo.ListTests(ctx, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list QC tests: %w", err)
	}
	return records, filters.BatchID, nil
}

// resolveTestType looks a test type up by ID, then by name.
func (s *QCServiceImpl) resolveTestType(ctx context.Context, ref string) (*secondary.QCTestTypeRecord, error) {
	tt, err := s.qcRepo.GetTestType(ctx, ref)
	if err == nil {
		return tt, nil
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to get test type: %w", err)
	}

	tt, err = s.qcRepo.GetTestTypeByName(ctx, ref)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("test type %s %w", ref, secondary.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test type: %w", err)
	}
	return tt, nil
}

// Helper methods

func recordsToTests(records []*secondary.QCTestRecord) []coreqc.Test {
	tests := make([]coreqc.Test, len(records))
	for i, r := range records {
		tests[i] = coreqc.Test{
			ID:         r.ID,
			BatchID:    r.BatchID,
			TestTypeID: r.TestTypeID,
			Result:     coreqc.Result(r.Result),
			Value:      r.Value,
			Notes:      r.Notes,
		}
	}
	return tests
}

func recordToCoreTestType(r *secondary.QCTestTypeRecord) coreqc.TestType {
	return coreqc.TestType{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Unit:        r.Unit,
		MinValue:    r.MinValue,
		MaxValue:    r.MaxValue,
		Description: r.Description,
	}
}

func recordToTestType(r *secondary.QCTestTypeRecord) *primary.TestType {
	return &primary.TestType{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Unit:        r.Unit,
		MinValue:    r.MinValue,
		MaxValue:    r.MaxValue,
		Description: r.Description,
	}
}

// recordToQCTest converts a test record; tt supplies the band when the value is set.
func recordToQCTest(r *secondary.QCTestRecord, tt *coreqc.TestType) *primary.QCTest {
	out := &primary.QCTest{
		ID:           r.ID,
		BatchID:      r.BatchID,
		TestTypeID:   r.TestTypeID,
		TestTypeName: r.TestTypeName,
		Result:       r.Result,
		Value:        r.Value,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
	if r.Value != nil && tt != nil {
		out.Band = string(coreqc.EvaluateBand(*r.Value, *tt))
	}
	return out
}

// Ensure QCServiceImpl implements the interface
var _ primary.QCService = (*QCServiceImpl)(nil)
