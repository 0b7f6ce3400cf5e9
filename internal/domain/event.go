package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReadingKind says which classifier a reading is routed to.
type ReadingKind string

const (
	KindSensory ReadingKind = "sensory"
	KindLab     ReadingKind = "lab"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Reading is a submitted observation: either a resident's sensory report or
// a lab-entry result. Source is the intake surface (http, kafka, mqtt, cli).
type Reading struct {
	ID          string        `json:"id,omitempty"`
	ReportID    string        `json:"report_id,omitempty"`
	StationID   string        `json:"station_id,omitempty"`
	Kind        ReadingKind   `json:"kind"`
	Sensory     *SensoryInput `json:"sensory,omitempty"`
	Lab         LabInput      `json:"lab,omitempty"`
	Source      string        `json:"source,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at,omitempty"`
}

// Assessment is the scored outcome of a Reading.
type Assessment struct {
	ID          string      `json:"id"`
	ReadingID   string      `json:"reading_id,omitempty"`
	ReportID    string      `json:"report_id,omitempty"`
	StationID   string      `json:"station_id,omitempty"`
	Kind        ReadingKind `json:"kind"`
	Verdict     Verdict     `json:"verdict"`
	Diseases    []string    `json:"diseases,omitempty"`
	Report      string      `json:"report,omitempty"`
	ProcessedAt time.Time   `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// DecodeReading parses a JSON reading, keeping numeric lab values as
// json.Number so coercion happens in one place.
func DecodeReading(data []byte) (Reading, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var r Reading
	if err := dec.Decode(&r); err != nil {
		return Reading{}, fmt.Errorf("decode reading: %w", err)
	}
	r.Kind = ReadingKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	if err := r.Validate(); err != nil {
		return Reading{}, err
	}
	return r, nil
}

// Validate checks that the reading carries the payload its kind requires.
func (r Reading) Validate() error {
	switch r.Kind {
	case KindSensory:
		if r.Sensory == nil {
			return fmt.Errorf("sensory reading has no sensory payload")
		}
		if missing := r.Sensory.Missing(); len(missing) > 0 {
			return fmt.Errorf("sensory reading missing %s", strings.Join(missing, ", "))
		}
	case KindLab:
		if len(r.Lab) == 0 {
			return fmt.Errorf("lab reading has no measurements")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReadingKind, r.Kind)
	}
	return nil
}

// ParseRawEvent decodes a message from the source topic into a Reading.
// The message key becomes the reading ID when the payload has none, and the
// message timestamp fills in a missing submission time.
func ParseRawEvent(raw RawEvent) (Reading, error) {
	r, err := DecodeReading(raw.Value)
	if err != nil {
		return Reading{}, fmt.Errorf("parse raw event: %w", err)
	}
	if r.ID == "" && len(raw.Key) > 0 {
		r.ID = string(raw.Key)
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = raw.Timestamp
	}
	if r.Source == "" {
		r.Source = "kafka"
	}
	return r, nil
}

// NewAssessment wraps a verdict for a reading, assigning a fresh ID and the
// current time.
func NewAssessment(r Reading, v Verdict) Assessment {
	return Assessment{
		ID:          uuid.NewString(),
		ReadingID:   r.ID,
		ReportID:    r.ReportID,
		StationID:   r.StationID,
		Kind:        r.Kind,
		Verdict:     v,
		ProcessedAt: clock.Now().UTC(),
	}
}

// SerializeAssessment marshals an assessment into an output event keyed by
// the originating report (or reading) so all verdicts for one report land on
// the same partition.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	key := a.ReportID
	if key == "" {
		key = a.ReadingID
	}
	if key == "" {
		key = a.ID
	}
	return OutputEvent{
		Key:   []byte(key),
		Value: data,
		Headers: map[string]string{
			"kind":         string(a.Kind),
			"safety_level": string(a.Verdict.SafetyLevel),
			"processed_at": a.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
