package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	corebatch "github.com/example/brewctl/internal/core/batch"
	"github.com/example/brewctl/internal/ports/secondary"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func fixedClock() time.Time { return testNow }

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// ============================================================================
// Mock BatchRepository
// ============================================================================

// Ensure mockBatchRepository implements the interface
var _ secondary.BatchRepository = (*mockBatchRepository)(nil)

// mockBatchRepository is an in-memory BatchRepository. Records are copied on
// the way in and out so services cannot mutate stored state by accident.
type mockBatchRepository struct {
	batches map[string]*secondary.BatchRecord
	history map[string][]*secondary.HistoryRecord
	nextNum int

	getErr   error
	listErr  error
	applyErr error
	// bumpBeforeApply simulates a concurrent writer touching the batch
	// between the service's read and its write.
	bumpBeforeApply bool
}

func newMockBatchRepository() *mockBatchRepository {
	return &mockBatchRepository{
		batches: make(map[string]*secondary.BatchRecord),
		history: make(map[string][]*secondary.HistoryRecord),
	}
}

func copyBatch(r *secondary.BatchRecord) *secondary.BatchRecord {
	c := *r
	return &c
}

func (m *mockBatchRepository) Create(ctx context.Context, batch *secondary.BatchRecord) error {
	if _, ok := m.batches[batch.ID]; ok {
		return fmt.Errorf("batch %s already exists", batch.ID)
	}
	stored := copyBatch(batch)
	stored.CreatedAt = testNow.Format(time.RFC3339)
	stored.UpdatedAt = stored.CreatedAt
	m.batches[batch.ID] = stored
	m.nextNum = max(m.nextNum, corebatch.ParseBatchNumber(batch.BatchNumber))
	return nil
}

func (m *mockBatchRepository) GetByID(ctx context.Context, id string) (*secondary.BatchRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if b, ok := m.batches[id]; ok {
		return copyBatch(b), nil
	}
	return nil, fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
}

func (m *mockBatchRepository) GetByNumber(ctx context.Context, number string) (*secondary.BatchRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, b := range m.batches {
		if b.BatchNumber == number {
			return copyBatch(b), nil
		}
	}
	return nil, fmt.Errorf("batch %s %w", number, secondary.ErrNotFound)
}

func (m *mockBatchRepository) List(ctx context.Context, filters secondary.BatchFilters) ([]*secondary.BatchRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.BatchRecord
	for _, b := range m.batches {
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}
		out = append(out, copyBatch(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BrewDate.Equal(out[j].BrewDate) {
			return out[i].BrewDate.After(out[j].BrewDate)
		}
		return out[i].BatchNumber > out[j].BatchNumber
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockBatchRepository) ApplyTransition(ctx context.Context, batch *secondary.BatchRecord, entry *secondary.HistoryRecord) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	stored, ok := m.batches[batch.ID]
	if !ok {
		return fmt.Errorf("batch %s %w", batch.ID, secondary.ErrNotFound)
	}
	if m.bumpBeforeApply {
		stored.Version++
	}
	if stored.Version != batch.Version {
		return secondary.ErrVersionConflict
	}

	batch.Version++
	next := copyBatch(batch)
	next.CreatedAt = stored.CreatedAt
	m.batches[batch.ID] = next

	h := *entry
	m.history[batch.ID] = append(m.history[batch.ID], &h)
	return nil
}

func (m *mockBatchRepository) UpdateNotes(ctx context.Context, id, notes string, version int) error {
	stored, ok := m.batches[id]
	if !ok {
		return fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}
	if stored.Version != version {
		return secondary.ErrVersionConflict
	}
	stored.Notes = notes
	stored.Version++
	return nil
}

func (m *mockBatchRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.batches[id]; !ok {
		return fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}
	delete(m.batches, id)
	delete(m.history, id)
	return nil
}

func (m *mockBatchRepository) ListHistory(ctx context.Context, batchID string) ([]*secondary.HistoryRecord, error) {
	return m.history[batchID], nil
}

func (m *mockBatchRepository) GetNextBatchNumber(ctx context.Context) (string, error) {
	return corebatch.GenerateBatchNumber(m.nextNum), nil
}

// ============================================================================
// Mock FermentationLogRepository
// ============================================================================

// Ensure mockFermentationLogRepository implements the interface
var _ secondary.FermentationLogRepository = (*mockFermentationLogRepository)(nil)

type mockFermentationLogRepository struct {
	logs    []*secondary.FermentationLogRecord
	seq     int64
	pageErr error
	pages   int // ListPage calls, including the final empty page
}

func newMockFermentationLogRepository() *mockFermentationLogRepository {
	return &mockFermentationLogRepository{}
}

func (m *mockFermentationLogRepository) Create(ctx context.Context, log *secondary.FermentationLogRecord) error {
	m.seq++
	log.Seq = m.seq
	c := *log
	m.logs = append(m.logs, &c)
	return nil
}

func (m *mockFermentationLogRepository) GetByID(ctx context.Context, id string) (*secondary.FermentationLogRecord, error) {
	for _, l := range m.logs {
		if l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, fmt.Errorf("fermentation log %s %w", id, secondary.ErrNotFound)
}

func (m *mockFermentationLogRepository) ListByBatch(ctx context.Context, batchID string) ([]*secondary.FermentationLogRecord, error) {
	var out []*secondary.FermentationLogRecord
	for _, l := range m.logs {
		if l.BatchID == batchID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *mockFermentationLogRepository) ListPage(ctx context.Context, batchID string, afterSeq int64, limit int) ([]*secondary.FermentationLogRecord, error) {
	m.pages++
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	var out []*secondary.FermentationLogRecord
	for _, l := range m.logs {
		if l.BatchID == batchID && l.Seq > afterSeq {
			c := *l
			out = append(out, &c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *mockFermentationLogRepository) Delete(ctx context.Context, batchID, id string) error {
	for i, l := range m.logs {
		if l.ID == id && l.BatchID == batchID {
			m.logs = append(m.logs[:i], m.logs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fermentation log %s %w", id, secondary.ErrNotFound)
}

// ============================================================================
// Mock QCRepository
// ============================================================================

// Ensure mockQCRepository implements the interface
var _ secondary.QCRepository = (*mockQCRepository)(nil)

type mockQCRepository struct {
	types   map[string]*secondary.QCTestTypeRecord
	tests   []*secondary.QCTestRecord
	listErr error
}

func newMockQCRepository() *mockQCRepository {
	return &mockQCRepository{types: make(map[string]*secondary.QCTestTypeRecord)}
}

func (m *mockQCRepository) CreateTestType(ctx context.Context, tt *secondary.QCTestTypeRecord) error {
	for _, existing := range m.types {
		if strings.EqualFold(existing.Name, tt.Name) {
			return fmt.Errorf("UNIQUE constraint failed: qc_test_types.name")
		}
	}
	c := *tt
	m.types[tt.ID] = &c
	return nil
}

func (m *mockQCRepository) UpdateTestType(ctx context.Context, tt *secondary.QCTestTypeRecord) error {
	if _, ok := m.types[tt.ID]; !ok {
		return fmt.Errorf("test type %s %w", tt.ID, secondary.ErrNotFound)
	}
	c := *tt
	m.types[tt.ID] = &c
	return nil
}

func (m *mockQCRepository) GetTestType(ctx context.Context, id string) (*secondary.QCTestTypeRecord, error) {
	if tt, ok := m.types[id]; ok {
		c := *tt
		return &c, nil
	}
	return nil, fmt.Errorf("test type %s %w", id, secondary.ErrNotFound)
}

func (m *mockQCRepository) GetTestTypeByName(ctx context.Context, name string) (*secondary.QCTestTypeRecord, error) {
	for _, tt := range m.types {
		if strings.EqualFold(tt.Name, name) {
			c := *tt
			return &c, nil
		}
	}
	return nil, fmt.Errorf("test type %s %w", name, secondary.ErrNotFound)
}

func (m *mockQCRepository) ListTestTypes(ctx context.Context) ([]*secondary.QCTestTypeRecord, error) {
	var out []*secondary.QCTestTypeRecord
	for _, tt := range m.types {
		c := *tt
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *mockQCRepository) CreateTest(ctx context.Context, t *secondary.QCTestRecord) error {
	c := *t
	c.CreatedAt = testNow.Format(time.RFC3339)
	m.tests = append(m.tests, &c)
	return nil
}

func (m *mockQCRepository) ListTests(ctx context.Context, filters secondary.QCTestFilters) ([]*secondary.QCTestRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.QCTestRecord
	for _, t := range m.tests {
		if filters.BatchID != "" && t.BatchID != filters.BatchID {
			continue
		}
		c := *t
		if tt, ok := m.types[t.TestTypeID]; ok {
			c.TestTypeName = tt.Name
		}
		out = append(out, &c)
	}
	return out, nil
}

// addTest records a test directly, bypassing the service.
func (m *mockQCRepository) addTest(batchID, result string) {
	m.tests = append(m.tests, &secondary.QCTestRecord{
		ID:      fmt.Sprintf("qc-%d", len(m.tests)+1),
		BatchID: batchID,
		Result:  result,
	})
}

// ============================================================================
// Mock collaborators
// ============================================================================

// Ensure mockInventoryTrigger implements the interface
var _ secondary.InventoryTrigger = (*mockInventoryTrigger)(nil)

type inventoryCall struct {
	Action string
	Event  secondary.InventoryEvent
}

type mockInventoryTrigger struct {
	calls []inventoryCall
	err   error
}

func (m *mockInventoryTrigger) record(action string, event secondary.InventoryEvent) error {
	m.calls = append(m.calls, inventoryCall{Action: action, Event: event})
	return m.err
}

func (m *mockInventoryTrigger) BatchStarted(ctx context.Context, event secondary.InventoryEvent) error {
	return m.record("started", event)
}

func (m *mockInventoryTrigger) BatchPackaged(ctx context.Context, event secondary.InventoryEvent) error {
	return m.record("packaged", event)
}

func (m *mockInventoryTrigger) BatchFinished(ctx context.Context, event secondary.InventoryEvent) error {
	return m.record("finished", event)
}

// Ensure mockSeriesExporter implements the interface
var _ secondary.SeriesExporter = (*mockSeriesExporter)(nil)

type mockSeriesExporter struct {
	sheet *secondary.SeriesSheet
	err   error
}

func (m *mockSeriesExporter) Export(w io.Writer, sheet *secondary.SeriesSheet) error {
	if m.err != nil {
		return m.err
	}
	m.sheet = sheet
	_, err := io.WriteString(w, "workbook:"+sheet.BatchNumber)
	return err
}

// Ensure mockTestTypeCatalog implements the interface
var _ secondary.TestTypeCatalog = (*mockTestTypeCatalog)(nil)

type mockTestTypeCatalog struct {
	types []*secondary.QCTestTypeRecord
	err   error
}

func (m *mockTestTypeCatalog) Load(ctx context.Context, path string) ([]*secondary.QCTestTypeRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*secondary.QCTestTypeRecord, len(m.types))
	for i, tt := range m.types {
		c := *tt
		out[i] = &c
	}
	return out, nil
}

// ============================================================================
// Fixtures
// ============================================================================

// seedBatch stores a batch in status with the given number.
func seedBatch(repo *mockBatchRepository, id, number, status string) *secondary.BatchRecord {
	r := &secondary.BatchRecord{
		ID:             id,
		BatchNumber:    number,
		RecipeID:       "recipe-ipa",
		LocationID:     "tank-1",
		Status:         status,
		BrewDate:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		ExpectedVolume: 100,
	}
	_ = repo.Create(context.Background(), r)
	return r
}
