package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
)

// mockKafkaReader serves queued messages and then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

func envelopeMessage(t *testing.T, topic string, payload interface{}) kafka.Message {
	t.Helper()
	env, err := NewEventEnvelope(EventTypeMoleculeProcessed, payload)
	require.NoError(t, err)
	msg, err := env.ToMessage(topic, "k")
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Value: msg.Value}
}

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers:      []string{"localhost:9092"},
		GroupID:      "test-group",
		Topics:       []string{TopicMoleculeProcessed},
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	cfg := newTestConsumerConfig()
	cfg.GroupID = ""
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.Topics = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.SASLEnabled = true
	assert.Error(t, ValidateConsumerConfig(cfg))
}

func TestConsumerConfigFrom(t *testing.T) {
	cfg := ConsumerConfigFrom(ProducerConfig{Brokers: []string{"b:9092"}, TLSEnabled: true}, "g", TopicMoleculeProcessed)
	assert.Equal(t, []string{"b:9092"}, cfg.Brokers)
	assert.True(t, cfg.TLSEnabled)
	assert.Equal(t, []string{TopicMoleculeProcessed}, cfg.Topics)
}

func TestConsumer_DeliversAndCommits(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		envelopeMessage(t, TopicMoleculeProcessed, MoleculeProcessedPayload{SMILES: "C", Success: true}),
		{Topic: TopicMoleculeProcessed, Value: []byte("not json")},
		envelopeMessage(t, TopicMoleculeProcessed, MoleculeProcessedPayload{SMILES: "CC", Success: true}),
	}}

	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, topic string, env *EventEnvelope) error {
		var p MoleculeProcessedPayload
		assert.NoError(t, env.UnmarshalPayload(&p))
		mu.Lock()
		seen = append(seen, p.SMILES)
		mu.Unlock()
		return nil
	}

	c := NewConsumerWithReader(reader, newTestConsumerConfig(), handler, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, ErrAlreadyRunning, c.Start(context.Background()))

	assert.Eventually(t, func() bool { return reader.commits() == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())

	mu.Lock()
	assert.Equal(t, []string{"C", "CC"}, seen)
	mu.Unlock()
	assert.Equal(t, int64(3), c.Consumed())
	assert.True(t, reader.closed)
}

func TestConsumer_RetriesThenDrops(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		envelopeMessage(t, TopicMoleculeProcessed, MoleculeProcessedPayload{SMILES: "C"}),
	}}
	var calls int32
	handler := func(context.Context, string, *EventEnvelope) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("downstream unavailable")
	}

	c := NewConsumerWithReader(reader, newTestConsumerConfig(), handler, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	assert.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(1), c.Failed())
}

//Personal.AI order the ending
