package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/wargaair/water-safety-service/internal/domain"
	"github.com/wargaair/water-safety-service/internal/observability"
)

const stationPlaceholder = "{station_id}"

// Message outcomes recorded in the mqtt_messages_total metric.
const (
	outcomeProcessed = "processed"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
)

var errNoStation = errors.New("no station id in payload or topic")

// Assessor scores a single reading.
type Assessor interface {
	Assess(ctx context.Context, r domain.Reading) (domain.Assessment, error)
}

// Transport is the part of *Client the station bridge needs.
type Transport interface {
	Subscribe(topic string, handler paho.MessageHandler) error
	Publish(topic string, payload []byte) error
}

// StationConfig names the topics. AssessmentsTopic may contain the
// {station_id} placeholder.
type StationConfig struct {
	ReadingsTopic    string // e.g. "stations/+/readings"
	AssessmentsTopic string // e.g. "stations/{station_id}/assessments"
}

// Station assesses every reading a station publishes and replies with the
// assessment.
type Station struct {
	transport Transport
	assessor  Assessor
	cfg       StationConfig
	logger    *slog.Logger
	metrics   *observability.Metrics
}

func NewStation(t Transport, cfg StationConfig, assessor Assessor, logger *slog.Logger, metrics *observability.Metrics) *Station {
	return &Station{
		transport: t,
		assessor:  assessor,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start subscribes to the readings topic. Messages are handled on paho's
// callback goroutine with ctx as their parent context.
func (s *Station) Start(ctx context.Context) error {
	err := s.transport.Subscribe(s.cfg.ReadingsTopic, func(_ paho.Client, msg paho.Message) {
		s.handleMessage(ctx, msg)
	})
	if err != nil {
		return err
	}
	s.logger.Info("subscribed to station readings", "topic", s.cfg.ReadingsTopic)
	return nil
}

func (s *Station) handleMessage(ctx context.Context, msg paho.Message) {
	outcome, err := s.process(ctx, msg.Topic(), msg.Payload())
	s.metrics.MQTTMessages.WithLabelValues(outcome).Inc()
	if err != nil {
		s.logger.Warn("station reading not assessed", "error", err, "topic", msg.Topic(), "outcome", outcome)
	}
}

func (s *Station) process(ctx context.Context, topic string, payload []byte) (string, error) {
	r, err := domain.DecodeReading(payload)
	if err != nil {
		return outcomeRejected, err
	}
	if r.StationID == "" {
		r.StationID = stationFromTopic(topic)
	}
	if r.StationID == "" {
		return outcomeRejected, errNoStation
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	r.Source = "mqtt"

	a, err := s.assessor.Assess(ctx, r)
	if err != nil {
		if domain.IsConfigurationError(err) {
			return outcomeError, err
		}
		return outcomeRejected, err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return outcomeError, fmt.Errorf("encode assessment: %w", err)
	}
	if err := s.transport.Publish(replyTopic(s.cfg.AssessmentsTopic, r.StationID), data); err != nil {
		return outcomeError, err
	}
	return outcomeProcessed, nil
}

// stationFromTopic returns the second topic level.
// Example: "stations/well-07/readings" -> "well-07"
func stationFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 3 {
		return parts[1]
	}
	return ""
}

func replyTopic(pattern, stationID string) string {
	return strings.ReplaceAll(pattern, stationPlaceholder, stationID)
}
