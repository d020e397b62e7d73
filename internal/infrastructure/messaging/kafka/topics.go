package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

const (
	TopicMoleculeProcessed = "molecule.processed"
	TopicMoleculeExported  = "molecule.exported"
)

const (
	EventTypeMoleculeProcessed = "MoleculeProcessed"
	EventTypePDBExported       = "PDBExported"

	eventSource   = "molx-apiserver"
	schemaVersion = "1.0"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// MoleculeProcessedPayload summarises one POST /molecule computation.
// Formula and the counts are empty on failure.
type MoleculeProcessedPayload struct {
	SMILES           string `json:"smiles"`
	Success          bool   `json:"success"`
	ErrorKind        string `json:"error_kind,omitempty"`
	Message          string `json:"message,omitempty"`
	Optimize3D       bool   `json:"optimize_3d"`
	IncludeHydrogens bool   `json:"include_hydrogens"`
	Formula          string `json:"formula,omitempty"`
	AtomCount        int    `json:"atom_count"`
	BondCount        int    `json:"bond_count"`
	CacheHit         bool   `json:"cache_hit"`
	DurationMs       int64  `json:"duration_ms"`
}

// PDBExportedPayload records a PDB export and, when uploaded, its object key.
type PDBExportedPayload struct {
	SMILES    string `json:"smiles"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	AtomCount int    `json:"atom_count"`
	ObjectKey string `json:"object_key,omitempty"`
}

func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       raw,
	}, nil
}

func (e *EventEnvelope) UnmarshalPayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event payload")
	}
	return nil
}

// ToMessage encodes the envelope for topic. key selects the partition.
func (e *EventEnvelope) ToMessage(topic string, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &Message{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

func MessageToEventEnvelope(msg kafka.Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// TopicConfig describes a topic to create.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates the service topics at startup.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "partitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "replication factor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries,
			kafka.ConfigEntry{ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs)})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create topic "+cfg.Name)
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

func (m *TopicManager) TopicExists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the topics the service publishes to.
func DefaultTopics(replication int) []TopicConfig {
	if replication <= 0 {
		replication = 1
	}
	week := int64(7 * 24 * time.Hour / time.Millisecond)
	return []TopicConfig{
		{Name: TopicMoleculeProcessed, NumPartitions: 6, ReplicationFactor: replication, RetentionMs: week},
		{Name: TopicMoleculeExported, NumPartitions: 3, ReplicationFactor: replication, RetentionMs: week},
	}
}

//Personal.AI order the ending
