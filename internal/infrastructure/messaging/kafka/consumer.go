package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeBadRequest, "consumer already running")

// EventHandler receives one decoded envelope. A returned error is retried
// with backoff and then dropped.
type EventHandler func(ctx context.Context, topic string, env *EventEnvelope) error

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topics          []string
	FromBeginning   bool
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	SASLEnabled     bool
	SASLMechanism   string
	SASLUsername    string
	SASLPassword    string
	TLSEnabled      bool
	TLSCertPath     string
}

// ConsumerConfigFrom reuses the broker and security settings of a producer.
func ConsumerConfigFrom(p ProducerConfig, groupID string, topics ...string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:       p.Brokers,
		GroupID:       groupID,
		Topics:        topics,
		SASLEnabled:   p.SASLEnabled,
		SASLMechanism: p.SASLMechanism,
		SASLUsername:  p.SASLUsername,
		SASLPassword:  p.SASLPassword,
		TLSEnabled:    p.TLSEnabled,
		TLSCertPath:   p.TLSCertPath,
	}
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads service events from a consumer group.
type Consumer struct {
	reader  ReaderInterface
	config  ConsumerConfig
	logger  logging.Logger
	handler EventHandler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed atomic.Int64
	failed   atomic.Int64
}

// NewConsumer creates a Consumer for cfg.Topics.
func NewConsumer(cfg ConsumerConfig, handler EventHandler, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}

	dialer := &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}
	if cfg.TLSEnabled {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.TLSCertPath != "" {
			caCert, err := os.ReadFile(cfg.TLSCertPath)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read kafka CA certificate")
			}
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM(caCert)
			tlsConfig.RootCAs = pool
		}
		dialer.TLS = tlsConfig
	}
	if cfg.SASLEnabled {
		mech, err := saslMechanism(ProducerConfig{
			SASLMechanism: cfg.SASLMechanism,
			SASLUsername:  cfg.SASLUsername,
			SASLPassword:  cfg.SASLPassword,
		})
		if err != nil {
			return nil, err
		}
		dialer.SASLMechanism = mech
	}

	start := kafka.LastOffset
	if cfg.FromBeginning {
		start = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		StartOffset: start,
		MaxWait:     time.Second,
		Dialer:      dialer,
	})
	return NewConsumerWithReader(reader, cfg, handler, logger), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, handler EventHandler, logger logging.Logger) *Consumer {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = 30 * time.Second
	}
	return &Consumer{reader: r, config: cfg, handler: handler, logger: logger}
}

// Start runs the consume loop in the background until Close.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeLoop(ctx)
	}()
	c.logger.Info("Kafka consumer started",
		logging.String("group", c.config.GroupID),
		logging.Any("topics", c.config.Topics))
	return nil
}

// Wait blocks until the consume loop exits.
func (c *Consumer) Wait() { c.wg.Wait() }

func (c *Consumer) consumeLoop(ctx context.Context) {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		c.consumed.Add(1)

		env, err := MessageToEventEnvelope(m)
		if err != nil {
			c.logger.Warn("Skipping undecodable message",
				logging.String("topic", m.Topic), logging.Int64("offset", m.Offset), logging.Err(err))
		} else if err := c.process(ctx, m.Topic, env); err != nil {
			c.failed.Add(1)
			c.logger.Error("Event handling failed after retries",
				logging.String("topic", m.Topic), logging.Int64("offset", m.Offset), logging.Err(err))
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err))
		}
	}
}

func (c *Consumer) process(ctx context.Context, topic string, env *EventEnvelope) error {
	err := c.handler(ctx, topic, env)
	backoff := c.config.RetryBackoff
	for i := 0; err != nil && i < c.config.MaxRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		err = c.handler(ctx, topic, env)
		backoff *= 2
		if backoff > c.config.MaxRetryBackoff {
			backoff = c.config.MaxRetryBackoff
		}
	}
	return err
}

// Consumed returns the number of fetched messages.
func (c *Consumer) Consumed() int64 { return c.consumed.Load() }

// Failed returns the number of events whose handler kept failing.
func (c *Consumer) Failed() int64 { return c.failed.Load() }

// Close stops the loop and closes the reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("Kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if len(cfg.Topics) == 0 {
		return errors.New(errors.ErrCodeValidation, "at least one topic required")
	}
	if cfg.SASLEnabled && (cfg.SASLUsername == "" || cfg.SASLPassword == "") {
		return errors.New(errors.ErrCodeValidation, "SASL credentials required")
	}
	if cfg.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max retries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
