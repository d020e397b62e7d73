package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
	closed     bool
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error {
	m.closed = true
	return nil
}

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics(0)
	require.Len(t, topics, 2)
	assert.Equal(t, TopicMoleculeProcessed, topics[0].Name)
	assert.Equal(t, 1, topics[0].ReplicationFactor)
	assert.Equal(t, int64(604800000), topics[0].RetentionMs)
	assert.Equal(t, 3, DefaultTopics(3)[1].ReplicationFactor)
}

func TestEnsureTopics(t *testing.T) {
	var created []kafka.TopicConfig
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			created = append(created, topics...)
			return nil
		},
	})
	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics(1)))
	require.Len(t, created, 2)
	assert.Equal(t, "retention.ms", created[0].ConfigEntries[0].ConfigName)
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return errors.New("create failed") },
		readFunc: func(...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: TopicMoleculeProcessed}}, nil
		},
	})
	assert.NoError(t, m.CreateTopic(context.Background(), DefaultTopics(1)[0]))
}

func TestCreateTopic_Invalid(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x"}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 1}))
}

func TestMessageToEventEnvelope(t *testing.T) {
	_, err := MessageToEventEnvelope(kafka.Message{})
	assert.Error(t, err)

	env, err := NewEventEnvelope(EventTypePDBExported, PDBExportedPayload{SMILES: "O", Success: true, AtomCount: 3})
	require.NoError(t, err)
	msg, err := env.ToMessage(TopicMoleculeExported, "O")
	require.NoError(t, err)
	assert.Equal(t, EventTypePDBExported, msg.Headers["event_type"])

	back, err := MessageToEventEnvelope(kafka.Message{Value: msg.Value})
	require.NoError(t, err)
	var p PDBExportedPayload
	require.NoError(t, back.UnmarshalPayload(&p))
	assert.Equal(t, 3, p.AtomCount)
}

//Personal.AI order the ending
