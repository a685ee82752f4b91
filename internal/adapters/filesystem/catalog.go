// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/brewctl/internal/ports/secondary"
)

// catalogFile is the on-disk layout of a QC test type catalogue:
//
//	test_types:
//	  - name: pH
//	    category: chemistry
//	    unit: pH
//	    min: 4.0
//	    max: 4.6
type catalogFile struct {
	TestTypes []catalogEntry `yaml:"test_types"`
}

type catalogEntry struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Unit        string   `yaml:"unit,omitempty"`
	Min         *float64 `yaml:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// TestTypeCatalog implements secondary.TestTypeCatalog for YAML files.
type TestTypeCatalog struct{}

// NewTestTypeCatalog creates a new YAML test type catalogue loader.
func NewTestTypeCatalog() *TestTypeCatalog {
	return &TestTypeCatalog{}
}

// Load reads and validates the catalogue at path. Returned records carry no ID.
func (c *TestTypeCatalog) Load(ctx context.Context, path string) ([]*secondary.QCTestTypeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalogue YAML.
func ParseCatalog(data []byte) ([]*secondary.QCTestTypeRecord, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	seen := make(map[string]bool, len(file.TestTypes))
	records := make([]*secondary.QCTestTypeRecord, 0, len(file.TestTypes))
	for i, e := range file.TestTypes {
		name := strings.TrimSpace(e.Name)
		if name == "" || strings.TrimSpace(e.Category) == "" {
			return nil, fmt.Errorf("catalogue entry %d: name and category are required", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("catalogue entry %d: duplicate test type %q", i+1, name)
		}
		seen[key] = true
		if e.Min != nil && e.Max != nil && *e.Min > *e.Max {
			return nil, fmt.Errorf("catalogue entry %d (%s): min %v is above max %v", i+1, name, *e.Min, *e.Max)
		}

		records = append(records, &secondary.QCTestTypeRecord{
			Name:        name,
			Category:    strings.TrimSpace(e.Category),
			Unit:        e.Unit,
			MinValue:    e.Min,
			MaxValue:    e.Max,
			Description: e.Description,
		})
	}

	return records, nil
}

// Ensure TestTypeCatalog implements the interface
var _ secondary.TestTypeCatalog = (*TestTypeCatalog)(nil)
