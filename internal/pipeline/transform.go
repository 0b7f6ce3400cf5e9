package pipeline

import (
	"context"
	"log/slog"

	"github.com/wargaair/water-safety-service/internal/domain"
)

// Assessor scores a single reading. It is satisfied by *assessment.Service.
type Assessor interface {
	Assess(ctx context.Context, r domain.Reading) (domain.Assessment, error)
}

// AssessmentTransformer implements Transformer by decoding the reading,
// running it through the assessor, and serializing the result.
type AssessmentTransformer struct {
	assessor Assessor
	logger   *slog.Logger
}

// NewTransformer creates an AssessmentTransformer.
func NewTransformer(assessor Assessor, logger *slog.Logger) *AssessmentTransformer {
	return &AssessmentTransformer{
		assessor: assessor,
		logger:   logger,
	}
}

func (t *AssessmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	reading, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a, err := t.assessor.Assess(ctx, reading)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	t.logger.Debug("reading assessed",
		"reading_id", reading.ID,
		"kind", reading.Kind,
		"safety_level", a.Verdict.SafetyLevel,
		"score", a.Verdict.Score,
	)

	return domain.SerializeAssessment(a)
}
