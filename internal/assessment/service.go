// Package assessment connects the pure scoring functions in domain to the
// reference data providers, the verdict cache and the service's metrics.
package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/wargaair/water-safety-service/internal/domain"
	"github.com/wargaair/water-safety-service/internal/observability"
)

// Classifier method names, used as metric labels and cache key prefixes.
const (
	MethodSensory = "sensory"
	MethodLab     = "lab"
)

// VerdictCache stores verdicts keyed by an input fingerprint. A miss is
// reported as ok=false with a nil error.
type VerdictCache interface {
	Get(ctx context.Context, key string) (domain.Verdict, bool, error)
	Set(ctx context.Context, key string, v domain.Verdict) error
}

// Service scores readings. Reference data is fetched from the providers on
// every call; only finished verdicts are cached.
type Service struct {
	refs    domain.ReferenceData
	cache   VerdictCache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service. Pass a nil cache to disable verdict caching.
func NewService(refs domain.ReferenceData, cache VerdictCache, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		refs:    refs,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// ClassifySensory scores a resident's sensory report.
func (s *Service) ClassifySensory(ctx context.Context, in domain.SensoryInput) domain.Verdict {
	key := fingerprint(MethodSensory, in.Normalize())
	if v, ok := s.cached(ctx, MethodSensory, key); ok {
		return v
	}

	v := domain.ClassifySensory(in)
	s.record(MethodSensory, v)
	s.store(ctx, MethodSensory, key, v)
	return v
}

// ClassifyLab scores laboratory measurements against the current parameter
// standards. A failed or empty standards lookup is returned as a
// *domain.ConfigurationError. Treatment lookup failures only drop the
// treatment suggestions.
//
// With a cache configured, the key covers the measurements together with the
// standards and treatments in effect, so edited reference data is never
// answered from a stale entry. A verdict scored without treatments is not
// cached.
func (s *Service) ClassifyLab(ctx context.Context, in domain.LabInput) (domain.Verdict, error) {
	standards, err := s.ParameterStandards(ctx)
	if err != nil {
		s.metrics.ConfigurationErrors.Inc()
		return domain.Verdict{}, &domain.ConfigurationError{Reason: "load parameter standards", Err: err}
	}
	if len(standards) == 0 {
		s.metrics.ConfigurationErrors.Inc()
		return domain.Verdict{}, &domain.ConfigurationError{Reason: "cannot score lab results", Err: domain.ErrMissingStandards}
	}

	if s.cache == nil {
		return s.scoreLab(in, standards, s.treatmentSource(ctx))
	}

	treatments, ok := s.fetchTreatments(ctx)
	if !ok {
		return s.scoreLab(in, standards, func() []domain.TreatmentRecommendation { return nil })
	}

	key := fingerprint(MethodLab, labCacheKey{Values: in.Values(), Standards: standards, Treatments: treatments})
	if v, ok := s.cached(ctx, MethodLab, key); ok {
		return v, nil
	}

	v, err := s.scoreLab(in, standards, func() []domain.TreatmentRecommendation { return treatments })
	if err != nil {
		return domain.Verdict{}, err
	}
	s.store(ctx, MethodLab, key, v)
	return v, nil
}

// labCacheKey is the canonical form hashed into a lab cache key.
type labCacheKey struct {
	Values     map[string]float64               `json:"values"`
	Standards  []domain.ParameterStandard       `json:"standards"`
	Treatments []domain.TreatmentRecommendation `json:"treatments"`
}

func (s *Service) scoreLab(in domain.LabInput, standards []domain.ParameterStandard, treatments domain.TreatmentSource) (domain.Verdict, error) {
	v, err := domain.ClassifyLab(in, standards, treatments)
	if err != nil {
		if domain.IsConfigurationError(err) {
			s.metrics.ConfigurationErrors.Inc()
		}
		return domain.Verdict{}, err
	}
	s.record(MethodLab, v)
	return v, nil
}

// PredictDiseases lists candidate diseases for a lab result. When the disease
// catalog cannot be read the failure is logged and the result is empty.
func (s *Service) PredictDiseases(ctx context.Context, in domain.LabInput) []string {
	start := time.Now()
	catalog, err := s.refs.Diseases(ctx)
	s.observeFetch("diseases", start, err)
	if err != nil {
		s.logger.Warn("disease catalog lookup failed", "error", err)
		return []string{}
	}

	diseases := domain.PredictDiseases(in, catalog)
	s.metrics.DiseasePredictions.Add(float64(len(diseases)))
	return diseases
}

// FormatReport renders a verdict as plain text.
func (s *Service) FormatReport(v domain.Verdict) string {
	return domain.FormatReport(v)
}

// ParameterStandards returns the current standards. It is also used by the
// HTTP standards listing and readiness check.
func (s *Service) ParameterStandards(ctx context.Context) ([]domain.ParameterStandard, error) {
	start := time.Now()
	standards, err := s.refs.ParameterStandards(ctx)
	s.observeFetch("standards", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch parameter standards: %w", err)
	}
	return standards, nil
}

// Assess scores a reading end to end: verdict, disease candidates for lab
// readings, and the rendered report.
func (s *Service) Assess(ctx context.Context, r domain.Reading) (domain.Assessment, error) {
	if err := r.Validate(); err != nil {
		return domain.Assessment{}, err
	}

	var (
		v        domain.Verdict
		diseases []string
	)
	switch r.Kind {
	case domain.KindSensory:
		v = s.ClassifySensory(ctx, *r.Sensory)
	case domain.KindLab:
		var err error
		v, err = s.ClassifyLab(ctx, r.Lab)
		if err != nil {
			return domain.Assessment{}, fmt.Errorf("assess reading %s: %w", r.ID, err)
		}
		diseases = s.PredictDiseases(ctx, r.Lab)
	}

	a := domain.NewAssessment(r, v)
	a.Diseases = diseases
	a.Report = s.FormatReport(v)
	return a, nil
}

// CheckReadiness reports an error until the standards provider answers with
// at least one standard.
func (s *Service) CheckReadiness(ctx context.Context) error {
	standards, err := s.ParameterStandards(ctx)
	if err != nil {
		return err
	}
	if len(standards) == 0 {
		return domain.ErrMissingStandards
	}
	return nil
}

// treatmentSource defers the treatment lookup until the classifier asks for it.
func (s *Service) treatmentSource(ctx context.Context) domain.TreatmentSource {
	return func() []domain.TreatmentRecommendation {
		treatments, _ := s.fetchTreatments(ctx)
		return treatments
	}
}

// fetchTreatments reports ok=false when the provider failed.
func (s *Service) fetchTreatments(ctx context.Context) ([]domain.TreatmentRecommendation, bool) {
	start := time.Now()
	treatments, err := s.refs.TreatmentRecommendations(ctx)
	s.observeFetch("treatments", start, err)
	if err != nil {
		s.logger.Warn("treatment lookup failed, omitting suggestions", "error", err)
		return nil, false
	}
	return treatments, true
}

func (s *Service) cached(ctx context.Context, method, key string) (domain.Verdict, bool) {
	if s.cache == nil {
		return domain.Verdict{}, false
	}
	v, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("verdict cache read failed", "error", err, "method", method)
		s.metrics.VerdictCache.WithLabelValues(method, "error").Inc()
		return domain.Verdict{}, false
	case !ok:
		s.metrics.VerdictCache.WithLabelValues(method, "miss").Inc()
		return domain.Verdict{}, false
	}
	s.metrics.VerdictCache.WithLabelValues(method, "hit").Inc()
	s.record(method, v)
	return v, true
}

func (s *Service) store(ctx context.Context, method, key string, v domain.Verdict) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("verdict cache write failed", "error", err, "method", method)
	}
}

func (s *Service) record(method string, v domain.Verdict) {
	s.metrics.Classifications.WithLabelValues(method, string(v.SafetyLevel)).Inc()
}

func (s *Service) observeFetch(dataset string, start time.Time, err error) {
	s.metrics.ReferenceDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ReferenceFetches.WithLabelValues(dataset, outcome).Inc()
}

// fingerprint derives a cache key from the method and a JSON-encodable
// canonical form of the input. Map keys are sorted by encoding/json.
func fingerprint(method string, canonical any) string {
	data, _ := json.Marshal(canonical)
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write(data)
	return method + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}

