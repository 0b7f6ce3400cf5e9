package domain

import "context"

// ParameterStandard is the reference band for one laboratory parameter.
// A band is only evaluated when both of its bounds are set.
type ParameterStandard struct {
	Parameter    string   `json:"parameter" yaml:"parameter"`
	Unit         string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	WarningMin   *float64 `json:"warning_min,omitempty" yaml:"warning_min,omitempty"`
	WarningMax   *float64 `json:"warning_max,omitempty" yaml:"warning_max,omitempty"`
	DangerMin    *float64 `json:"danger_min,omitempty" yaml:"danger_min,omitempty"`
	DangerMax    *float64 `json:"danger_max,omitempty" yaml:"danger_max,omitempty"`
	HealthImpact string   `json:"health_impact,omitempty" yaml:"health_impact,omitempty"`
}

// TreatmentRecommendation is a remediation method from the reference catalog.
type TreatmentRecommendation struct {
	Method      string `json:"method" yaml:"method"`
	Description string `json:"description" yaml:"description"`
}

// DiseaseRecord is a waterborne illness from the reference catalog.
type DiseaseRecord struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Pathogen string `json:"pathogen,omitempty" yaml:"pathogen,omitempty"`
}

// StandardsProvider supplies parameter thresholds. Implementations are read
// fresh on every lab classification.
type StandardsProvider interface {
	ParameterStandards(ctx context.Context) ([]ParameterStandard, error)
}

// TreatmentProvider supplies the treatment-method catalog.
type TreatmentProvider interface {
	TreatmentRecommendations(ctx context.Context) ([]TreatmentRecommendation, error)
}

// DiseaseCatalog supplies the waterborne-disease catalog.
type DiseaseCatalog interface {
	Diseases(ctx context.Context) ([]DiseaseRecord, error)
}

// ReferenceData bundles the three providers; both reference adapters implement it.
type ReferenceData interface {
	StandardsProvider
	TreatmentProvider
	DiseaseCatalog
}

// Float returns a pointer to v, for building standards in code.
func Float(v float64) *float64 { return &v }
