// Package refdata loads reference thresholds, treatments and the disease
// catalog from a YAML document.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wargaair/water-safety-service/internal/domain"
)

// Document is the on-disk layout of a reference data file.
type Document struct {
	Standards  []domain.ParameterStandard       `yaml:"standards"`
	Treatments []domain.TreatmentRecommendation `yaml:"treatments"`
	Diseases   []domain.DiseaseRecord           `yaml:"diseases"`
}

// Parse decodes and validates a reference document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every entry is named and that every band has
// min <= max. A band with only one bound is allowed; it is never evaluated.
func (d *Document) Validate() error {
	var errs []error
	for i, s := range d.Standards {
		if strings.TrimSpace(s.Parameter) == "" {
			errs = append(errs, fmt.Errorf("standards[%d]: parameter is required", i))
			continue
		}
		if s.WarningMin != nil && s.WarningMax != nil && *s.WarningMin > *s.WarningMax {
			errs = append(errs, fmt.Errorf("standards[%d] %s: warning_min exceeds warning_max", i, s.Parameter))
		}
		if s.DangerMin != nil && s.DangerMax != nil && *s.DangerMin > *s.DangerMax {
			errs = append(errs, fmt.Errorf("standards[%d] %s: danger_min exceeds danger_max", i, s.Parameter))
		}
	}
	for i, t := range d.Treatments {
		if strings.TrimSpace(t.Method) == "" {
			errs = append(errs, fmt.Errorf("treatments[%d]: method is required", i))
		}
	}
	for i, dis := range d.Diseases {
		if strings.TrimSpace(dis.Name) == "" {
			errs = append(errs, fmt.Errorf("diseases[%d]: name is required", i))
		}
	}
	return errors.Join(errs...)
}

// Store serves a reference document from memory. It is safe for concurrent use
// and can be reloaded from its file without restarting the service.
type Store struct {
	path string

	mu  sync.RWMutex
	doc *Document
}

// NewStore wraps an already parsed document.
func NewStore(doc *Document) *Store {
	return &Store{doc: doc}
}

// Load reads and parses the reference file at path.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the backing file. On failure the previous document is kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return errors.New("reference store has no backing file")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read reference file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Document returns a copy of the current document.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Document{
		Standards:  append([]domain.ParameterStandard(nil), s.doc.Standards...),
		Treatments: append([]domain.TreatmentRecommendation(nil), s.doc.Treatments...),
		Diseases:   append([]domain.DiseaseRecord(nil), s.doc.Diseases...),
	}
}

func (s *Store) ParameterStandards(ctx context.Context) ([]domain.ParameterStandard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Document().Standards, nil
}

func (s *Store) TreatmentRecommendations(ctx context.Context) ([]domain.TreatmentRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Document().Treatments, nil
}

func (s *Store) Diseases(ctx context.Context) ([]domain.DiseaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Document().Diseases, nil
}
