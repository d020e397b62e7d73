//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/messaging/kafka"
)

func TestKafka_PublishConsumeEnvelope(t *testing.T) {
	requireIntegration(t)
	brokers := kafkaBrokers(t)
	ctx := testContext(t, 60*time.Second)
	logger := newLogger()
	topic := uniqueName("molx-it-")

	tm, err := kafka.NewTopicManager(brokers, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tm.Close() })
	require.NoError(t, tm.EnsureTopics(ctx, []kafka.TopicConfig{
		{Name: topic, NumPartitions: 1, ReplicationFactor: 1},
	}))

	pcfg := kafka.ProducerConfig{Enabled: true, Brokers: brokers, Acks: "all"}
	producer, err := kafka.NewProducer(pcfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	sent := kafka.MoleculeProcessedPayload{
		SMILES:           "CCO",
		Success:          true,
		Optimize3D:       true,
		IncludeHydrogens: true,
		Formula:          "C2H6O",
		AtomCount:        9,
		BondCount:        8,
	}
	require.NoError(t, producer.PublishEvent(ctx, topic, kafka.EventTypeMoleculeProcessed, sent.SMILES, sent))
	assert.Equal(t, int64(1), producer.Sent())

	received := make(chan *kafka.EventEnvelope, 1)
	ccfg := kafka.ConsumerConfigFrom(pcfg, uniqueName("molx-it-group-"), topic)
	ccfg.FromBeginning = true
	consumer, err := kafka.NewConsumer(ccfg, func(_ context.Context, _ string, env *kafka.EventEnvelope) error {
		select {
		case received <- env:
		default:
		}
		return nil
	}, logger)
	require.NoError(t, err)
	require.NoError(t, consumer.Start(ctx))
	t.Cleanup(func() { _ = consumer.Close() })

	select {
	case env := <-received:
		assert.Equal(t, kafka.EventTypeMoleculeProcessed, env.EventType)
		assert.NotEmpty(t, env.EventID)

		var got kafka.MoleculeProcessedPayload
		require.NoError(t, env.UnmarshalPayload(&got))
		assert.Equal(t, sent, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the published event")
	}
}

//Personal.AI order the ending
