package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/brewctl/internal/ports/primary"
)

// mockQCService implements primary.QCService for testing
type mockQCService struct {
	createTestTypeFn  func(ctx context.Context, req primary.CreateTestTypeRequest) (*primary.TestType, error)
	listTestTypesFn   func(ctx context.Context) ([]*primary.TestType, error)
	importTestTypesFn func(ctx context.Context, path string) (*primary.ImportResult, error)
	recordTestFn      func(ctx context.Context, req primary.RecordTestRequest) (*primary.QCTest, error)
	listTestsFn       func(ctx context.Context, batchRef string) ([]*primary.QCTest, error)
	statsFn           func(ctx context.Context, batchRef string) (*primary.QCStats, error)

	// Track calls for verification
	lastRecordReq primary.RecordTestRequest
}

func (m *mockQCService) CreateTestType(ctx context.Context, req primary.CreateTestTypeRequest) (*primary.TestType, error) {
	if m.createTestTypeFn != nil {
		return m.createTestTypeFn(ctx, req)
	}
	return &primary.TestType{ID: "tt-1", Name: req.Name, Category: req.Category}, nil
}

func (m *mockQCService) ListTestTypes(ctx context.Context) ([]*primary.TestType, error) {
	if m.listTestTypesFn != nil {
		return m.listTestTypesFn(ctx)
	}
	return nil, nil
}

func (m *mockQCService) ImportTestTypes(ctx context.Context, path string) (*primary.ImportResult, error) {
	if m.importTestTypesFn != nil {
		return m.importTestTypesFn(ctx, path)
	}
	return &primary.ImportResult{}, nil
}

func (m *mockQCService) RecordTest(ctx context.Context, req primary.RecordTestRequest) (*primary.QCTest, error) {
	m.lastRecordReq = req
	if m.recordTestFn != nil {
		return m.recordTestFn(ctx, req)
	}
	return &primary.QCTest{ID: "t-1", TestTypeName: req.TestType, Result: "PENDING"}, nil
}

func (m *mockQCService) ListTests(ctx context.Context, batchRef string) ([]*primary.QCTest, error) {
	if m.listTestsFn != nil {
		return m.listTestsFn(ctx, batchRef)
	}
	return nil, nil
}

func (m *mockQCService) Stats(ctx context.Context, batchRef string) (*primary.QCStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, batchRef)
	}
	return &primary.QCStats{}, nil
}

func TestQCAdapter_AddType(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewQCAdapter(&mockQCService{}, &buf)

	if err := adapter.AddType(context.Background(), primary.CreateTestTypeRequest{Name: "pH", Category: "chemical"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "✓ Created test type pH (tt-1) in chemical") {
		t.Errorf("expected success message, got: %s", buf.String())
	}
}

func TestQCAdapter_ListTypes(t *testing.T) {
	mock := &mockQCService{
		listTestTypesFn: func(ctx context.Context) ([]*primary.TestType, error) {
			return []*primary.TestType{
				{Name: "pH", Category: "chemical", MinValue: fptr(4), MaxValue: fptr(4.6)},
				{Name: "Clarity", Category: "visual"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	if err := adapter.ListTypes(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := buf.String()
	for _, want := range []string{"pH", "4.6", "Clarity", "visual"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestQCAdapter_Import(t *testing.T) {
	mock := &mockQCService{
		importTestTypesFn: func(ctx context.Context, path string) (*primary.ImportResult, error) {
			return &primary.ImportResult{Created: 2, Updated: 1}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	if err := adapter.Import(context.Background(), "catalog.yaml"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "2 created, 1 updated") {
		t.Errorf("expected counts, got: %s", buf.String())
	}
}

func TestQCAdapter_AddTest(t *testing.T) {
	mock := &mockQCService{
		recordTestFn: func(ctx context.Context, req primary.RecordTestRequest) (*primary.QCTest, error) {
			return &primary.QCTest{ID: "t-1", TestTypeName: "pH", Result: "FAIL", Value: fptr(4.9), Band: "ABOVE"}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	req := primary.RecordTestRequest{BatchRef: "BATCH-001", TestType: "pH", Value: fptr(4.9), AutoResult: true}
	if err := adapter.AddTest(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "✓ Recorded pH test t-1: FAIL (value 4.9, ABOVE)") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if !mock.lastRecordReq.AutoResult {
		t.Error("expected AutoResult to be passed through")
	}
}

func TestQCAdapter_ListTests(t *testing.T) {
	mock := &mockQCService{
		listTestsFn: func(ctx context.Context, batchRef string) ([]*primary.QCTest, error) {
			return []*primary.QCTest{
				{TestTypeName: "pH", Result: "PASS", Value: fptr(4.2), Band: "WITHIN"},
				{TestTypeName: "Clarity", Result: "PENDING"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	if err := adapter.ListTests(context.Background(), "b-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := buf.String()
	for _, want := range []string{"PASS", "WITHIN", "Clarity", "PENDING"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestQCAdapter_Stats(t *testing.T) {
	rate := 67
	mock := &mockQCService{
		statsFn: func(ctx context.Context, batchRef string) (*primary.QCStats, error) {
			if batchRef == "" {
				return &primary.QCStats{}, nil
			}
			return &primary.QCStats{BatchID: "b-1", Total: 3, Passed: 2, Failed: 1, PassRate: &rate}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	if err := adapter.Stats(context.Background(), "BATCH-001"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "QC results for BATCH-001") || !strings.Contains(buf.String(), "Pass rate: 67%") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	if err := adapter.Stats(context.Background(), ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "all batches") || !strings.Contains(buf.String(), "Pass rate: n/a") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestQCAdapter_Stats_Error(t *testing.T) {
	mock := &mockQCService{
		statsFn: func(ctx context.Context, batchRef string) (*primary.QCStats, error) {
			return nil, errors.New("database error")
		},
	}
	var buf bytes.Buffer
	adapter := NewQCAdapter(mock, &buf)

	err := adapter.Stats(context.Background(), "b-1")
	if err == nil || !strings.Contains(err.Error(), "failed to get QC stats") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
