// Package gormstore serves reference data from MySQL through gorm.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wargaair/water-safety-service/internal/adapter/refdata"
	"github.com/wargaair/water-safety-service/internal/domain"
)

// Store implements domain.ReferenceData on top of three MySQL tables.
// Every call queries the database, so edits made by health-center staff are
// picked up on the next classification.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL using a go-sql-driver DSN.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an existing gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the reference tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&standardRecord{}, &treatmentRecord{}, &diseaseRecord{}); err != nil {
		return fmt.Errorf("migrate reference tables: %w", err)
	}
	return nil
}

// Seed replaces the contents of all three tables with doc in one transaction.
func (s *Store) Seed(ctx context.Context, doc refdata.Document) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		if err := all.Delete(&standardRecord{}).Error; err != nil {
			return fmt.Errorf("clear standards: %w", err)
		}
		if len(doc.Standards) > 0 {
			if err := tx.Create(toStandardRecords(doc.Standards)).Error; err != nil {
				return fmt.Errorf("insert standards: %w", err)
			}
		}

		if err := all.Delete(&treatmentRecord{}).Error; err != nil {
			return fmt.Errorf("clear treatments: %w", err)
		}
		if len(doc.Treatments) > 0 {
			if err := tx.Create(toTreatmentRecords(doc.Treatments)).Error; err != nil {
				return fmt.Errorf("insert treatments: %w", err)
			}
		}

		if err := all.Delete(&diseaseRecord{}).Error; err != nil {
			return fmt.Errorf("clear diseases: %w", err)
		}
		if len(doc.Diseases) > 0 {
			if err := tx.Create(toDiseaseRecords(doc.Diseases)).Error; err != nil {
				return fmt.Errorf("insert diseases: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	return nil
}

func (s *Store) ParameterStandards(ctx context.Context) ([]domain.ParameterStandard, error) {
	var records []standardRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query parameter standards: %w", err)
	}
	out := make([]domain.ParameterStandard, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) TreatmentRecommendations(ctx context.Context) ([]domain.TreatmentRecommendation, error) {
	var records []treatmentRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query treatment recommendations: %w", err)
	}
	out := make([]domain.TreatmentRecommendation, 0, len(records))
	for _, r := range records {
		out = append(out, domain.TreatmentRecommendation{Method: r.Method, Description: r.Description})
	}
	return out, nil
}

func (s *Store) Diseases(ctx context.Context) ([]domain.DiseaseRecord, error) {
	var records []diseaseRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query diseases: %w", err)
	}
	out := make([]domain.DiseaseRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.DiseaseRecord{Name: r.Name, Category: r.Category, Pathogen: r.Pathogen})
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
