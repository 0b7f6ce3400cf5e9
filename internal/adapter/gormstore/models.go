package gormstore

import "github.com/wargaair/water-safety-service/internal/domain"

type standardRecord struct {
	ID           uint     `gorm:"column:id;primaryKey"`
	Parameter    string   `gorm:"column:parameter;type:varchar(64);not null"`
	Unit         string   `gorm:"column:unit;type:varchar(32)"`
	WarningMin   *float64 `gorm:"column:warning_min"`
	WarningMax   *float64 `gorm:"column:warning_max"`
	DangerMin    *float64 `gorm:"column:danger_min"`
	DangerMax    *float64 `gorm:"column:danger_max"`
	HealthImpact string   `gorm:"column:health_impact;type:text"`
}

func (standardRecord) TableName() string {
	return "parameter_standards"
}

func (r standardRecord) toDomain() domain.ParameterStandard {
	return domain.ParameterStandard{
		Parameter:    r.Parameter,
		Unit:         r.Unit,
		WarningMin:   r.WarningMin,
		WarningMax:   r.WarningMax,
		DangerMin:    r.DangerMin,
		DangerMax:    r.DangerMax,
		HealthImpact: r.HealthImpact,
	}
}

// treatmentRecord rows are served in id order; the lab classifier takes the first three.
type treatmentRecord struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Method      string `gorm:"column:method;type:varchar(128);not null"`
	Description string `gorm:"column:description;type:text"`
}

func (treatmentRecord) TableName() string {
	return "treatment_recommendations"
}

type diseaseRecord struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name;type:varchar(128);not null"`
	Category string `gorm:"column:category;type:varchar(64)"`
	Pathogen string `gorm:"column:pathogen;type:varchar(128)"`
}

func (diseaseRecord) TableName() string {
	return "waterborne_diseases"
}

func toStandardRecords(in []domain.ParameterStandard) []standardRecord {
	out := make([]standardRecord, 0, len(in))
	for _, s := range in {
		out = append(out, standardRecord{
			Parameter:    s.Parameter,
			Unit:         s.Unit,
			WarningMin:   s.WarningMin,
			WarningMax:   s.WarningMax,
			DangerMin:    s.DangerMin,
			DangerMax:    s.DangerMax,
			HealthImpact: s.HealthImpact,
		})
	}
	return out
}

func toTreatmentRecords(in []domain.TreatmentRecommendation) []treatmentRecord {
	out := make([]treatmentRecord, 0, len(in))
	for _, t := range in {
		out = append(out, treatmentRecord{Method: t.Method, Description: t.Description})
	}
	return out
}

func toDiseaseRecords(in []domain.DiseaseRecord) []diseaseRecord {
	out := make([]diseaseRecord, 0, len(in))
	for _, d := range in {
		out = append(out, diseaseRecord{Name: d.Name, Category: d.Category, Pathogen: d.Pathogen})
	}
	return out
}
