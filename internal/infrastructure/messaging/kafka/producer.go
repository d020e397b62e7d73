package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// ProducerConfig holds configuration for the Producer.
type ProducerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Brokers          []string      `mapstructure:"brokers"`
	Acks             string        `mapstructure:"acks"` // none, one, all
	MaxRetries       int           `mapstructure:"max_retries"`
	BatchSize        int           `mapstructure:"batch_size"`
	BatchTimeout     time.Duration `mapstructure:"batch_timeout"`
	MaxMessageBytes  int           `mapstructure:"max_message_bytes"`
	CompressionCodec string        `mapstructure:"compression"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	SASLEnabled      bool          `mapstructure:"sasl_enabled"`
	SASLMechanism    string        `mapstructure:"sasl_mechanism"`
	SASLUsername     string        `mapstructure:"sasl_username"`
	SASLPassword     string        `mapstructure:"sasl_password"`
	TLSEnabled       bool          `mapstructure:"tls_enabled"`
	TLSCertPath      string        `mapstructure:"tls_cert_path"`

	AsyncErrorHandler func(err error, msg *Message) `mapstructure:"-"`
}

// Message is one record to publish.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMetrics holds producer counters.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.WriterStats
}

// Producer writes messages to Kafka.
type Producer struct {
	writer  WriterInterface
	config  ProducerConfig
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ProducerMetrics
}

// NewProducer creates a Producer backed by a kafka.Writer. The writer
// connects lazily, so an unreachable broker surfaces on the first Publish.
func NewProducer(cfg ProducerConfig, logger logging.Logger) (*Producer, error) {
	if err := ValidateProducerConfig(cfg); err != nil {
		return nil, err
	}
	applyProducerDefaults(&cfg)

	transport := &kafka.Transport{DialTimeout: 10 * time.Second}
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
		transport.TLS = tlsConfig
	}
	if cfg.SASLEnabled {
		mech, err := saslMechanism(cfg)
		if err != nil {
			return nil, err
		}
		transport.SASL = mech
	}

	var requiredAcks kafka.RequiredAcks
	switch cfg.Acks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "all":
		requiredAcks = kafka.RequireAll
	default:
		requiredAcks = kafka.RequireOne
	}

	var compression kafka.Compression
	switch cfg.CompressionCodec {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: requiredAcks,
		Compression:  compression,
		Transport:    transport,
	}

	return NewProducerWithWriter(writer, cfg, logger), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, cfg ProducerConfig, logger logging.Logger) *Producer {
	applyProducerDefaults(&cfg)
	return &Producer{
		writer:  w,
		config:  cfg,
		logger:  logger,
		metrics: &ProducerMetrics{},
	}
}

func applyProducerDefaults(cfg *ProducerConfig) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = 1024 * 1024
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
}

func saslMechanism(cfg ProducerConfig) (sasl.Mechanism, error) {
	var (
		mech sasl.Mechanism
		err  error
	)
	switch cfg.SASLMechanism {
	case "PLAIN":
		mech = plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword}
	case "SCRAM-SHA-256":
		mech, err = scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
	case "SCRAM-SHA-512":
		mech, err = scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unsupported SASL mechanism %q", cfg.SASLMechanism)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create SASL mechanism")
	}
	return mech, nil
}

// Publish writes a single message and waits for the configured acks.
func (p *Producer) Publish(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "value required")
	}
	if len(msg.Value) > p.config.MaxMessageBytes {
		return errors.Newf(errors.ErrCodeValidation, "message of %d bytes exceeds limit %d",
			len(msg.Value), p.config.MaxMessageBytes)
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "publish failed")
	}
	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(msg.Value)))

	p.logger.Debug("Message published",
		logging.String("topic", msg.Topic),
		logging.Int64("latency_ms", time.Since(start).Milliseconds()))
	return nil
}

// PublishEvent wraps payload in an envelope of eventType and publishes it
// to topic keyed by key.
func (p *Producer) PublishEvent(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	return p.Publish(ctx, msg)
}

// PublishAsync publishes in the background. Failures go to the configured
// AsyncErrorHandler, or the log when none is set.
func (p *Producer) PublishAsync(ctx context.Context, msg *Message) {
	go func() {
		err := p.Publish(ctx, msg)
		if err == nil {
			return
		}
		if p.config.AsyncErrorHandler != nil {
			p.config.AsyncErrorHandler(err, msg)
			return
		}
		p.logger.Warn("Async publish failed", logging.String("topic", msg.Topic), logging.Err(err))
	}()
}

// Sent returns the number of messages written successfully.
func (p *Producer) Sent() int64 { return p.metrics.MessagesSent.Load() }

// Failed returns the number of failed writes.
func (p *Producer) Failed() int64 { return p.metrics.MessagesFailed.Load() }

// Close flushes pending batches and closes the writer. Safe to call twice.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

func toKafkaMessage(msg *Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
		Time:    ts,
	}
}

func ValidateProducerConfig(cfg ProducerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "max_retries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
