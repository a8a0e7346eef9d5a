package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/protocol"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/plugins"
	"github.com/gekatateam/loggate/plugins/common/tls"
)

type Kafka struct {
	*core.BaseSink    `mapstructure:"-"`
	Brokers           []string      `mapstructure:"brokers"`
	Topic             string        `mapstructure:"topic"`
	ClientId          string        `mapstructure:"client_id"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	TopicsAutocreate  bool          `mapstructure:"topics_autocreate"`
	Compression       string        `mapstructure:"compression"`
	RequiredAcks      string        `mapstructure:"required_acks"`
	PartitionBalancer string        `mapstructure:"partition_balancer"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetryAfter        time.Duration `mapstructure:"retry_after"`
	SASL              SASL          `mapstructure:"sasl"`

	tls.TLSClientConfig `mapstructure:",squash"`

	writer *kafka.Writer
	enc    core.Encoder
}

type SASL struct {
	Mechanism string `mapstructure:"mechanism"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

func (s *Kafka) Init() error {
	if len(s.Brokers) == 0 {
		return errors.New("at least one broker address required")
	}

	if len(s.Topic) == 0 {
		return errors.New("topic required")
	}

	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 5 * time.Second
	}

	if s.MaxAttempts < 1 {
		s.MaxAttempts = 1
	}

	writer, err := s.newWriter()
	if err != nil {
		return err
	}

	s.writer = writer
	return nil
}

func (s *Kafka) SetEncoder(e core.Encoder) {
	s.enc = e
}

// Send writes one message synchronously, so delivery error
// reaches the gate that owns this sink
func (s *Kafka) Send(e *core.Event) error {
	now := time.Now()
	event, err := s.enc.Encode(e)
	if err != nil {
		s.Log.Error("encoding failed",
			"error", err,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
			),
		)
		s.Observe(metrics.EventFailed, time.Since(now))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(e.Category),
		Value: event,
		Time:  e.Timestamp,
		Headers: []protocol.Header{
			{Key: "id", Value: []byte(e.Id.String())},
			{Key: "level", Value: []byte(e.Level.String())},
		},
	}

	for attempt := 1; ; attempt++ {
		err = s.write(msg)
		if err == nil {
			break
		}

		var kafkaErr kafka.Error
		if attempt >= s.MaxAttempts || !errors.As(err, &kafkaErr) || !kafkaErr.Temporary() {
			break
		}

		s.Log.Warn(fmt.Sprintf("write %v of %v failed", attempt, s.MaxAttempts),
			"error", err,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
			),
		)
		time.Sleep(s.RetryAfter)
	}

	if err != nil {
		s.Log.Error("event produce failed",
			"error", err,
			"topic", s.Topic,
			slog.Group("event",
				"id", e.Id,
				"category", e.Category,
			),
		)
		s.Observe(metrics.EventFailed, time.Since(now))
		return err
	}

	s.Log.Debug("event produced",
		"topic", s.Topic,
		slog.Group("event",
			"id", e.Id,
			"category", e.Category,
		),
	)
	s.Observe(metrics.EventAccepted, time.Since(now))
	return nil
}

func (s *Kafka) write(msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.WriteTimeout)
	defer cancel()

	err := s.writer.WriteMessages(ctx, msg)

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) && len(writeErrs) == 1 {
		return writeErrs[0]
	}
	return err
}

func (s *Kafka) Close() error {
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}

func (s *Kafka) newWriter() (*kafka.Writer, error) {
	writer := &kafka.Writer{
		Topic:                  s.Topic,
		Addr:                   kafka.TCP(s.Brokers...),
		BatchSize:              1,
		AllowAutoTopicCreation: s.TopicsAutocreate,
		WriteTimeout:           s.WriteTimeout,
		BatchBytes:             s.MaxMessageSize,
		MaxAttempts:            1,
		Logger:                 newLogger(s.Log, slog.LevelDebug),
		ErrorLogger:            newLogger(s.Log, slog.LevelError),
	}

	transport := &kafka.Transport{
		DialTimeout: s.DialTimeout,
		ClientID:    s.ClientId,
	}

	tlsConfig, err := s.TLSClientConfig.Config()
	if err != nil {
		return nil, err
	}
	transport.TLS = tlsConfig

	switch s.RequiredAcks {
	case "none":
		writer.RequiredAcks = kafka.RequireNone
	case "one":
		writer.RequiredAcks = kafka.RequireOne
	case "all":
		writer.RequiredAcks = kafka.RequireAll
	default:
		return nil, fmt.Errorf("unknown ack mode: %v; expected one of: none, one, all", s.RequiredAcks)
	}

	switch s.Compression {
	case "none":
		writer.Compression = compress.None
	case "gzip":
		writer.Compression = compress.Gzip
	case "snappy":
		writer.Compression = compress.Snappy
	case "lz4":
		writer.Compression = compress.Lz4
	case "zstd":
		writer.Compression = compress.Zstd
	default:
		return nil, fmt.Errorf("unknown compression algorithm: %v; expected one of: none, gzip, snappy, lz4, zstd", s.Compression)
	}

	switch s.SASL.Mechanism {
	case "none":
	case "plain":
		transport.SASL = &plain.Mechanism{
			Username: s.SASL.Username,
			Password: s.SASL.Password,
		}
	case "scram-sha-256":
		m, err := scram.Mechanism(scram.SHA256, s.SASL.Username, s.SASL.Password)
		if err != nil {
			return nil, err
		}
		transport.SASL = m
	case "scram-sha-512":
		m, err := scram.Mechanism(scram.SHA512, s.SASL.Username, s.SASL.Password)
		if err != nil {
			return nil, err
		}
		transport.SASL = m
	default:
		return nil, fmt.Errorf("unknown SASL mechanism: %v; expected one of: none, plain, scram-sha-256, scram-sha-512", s.SASL.Mechanism)
	}

	// category is a message key, so key-aware balancers keep per-category order
	switch s.PartitionBalancer {
	case "round-robin":
		writer.Balancer = &kafka.RoundRobin{}
	case "least-bytes":
		writer.Balancer = &kafka.LeastBytes{}
	case "fnv-1a":
		writer.Balancer = &kafka.Hash{}
	case "consistent":
		writer.Balancer = &kafka.CRC32Balancer{Consistent: true}
	case "murmur2":
		writer.Balancer = &kafka.Murmur2Balancer{Consistent: true}
	default:
		return nil, fmt.Errorf("unknown balancer: %v", s.PartitionBalancer)
	}

	writer.Transport = transport
	return writer, nil
}

func init() {
	plugins.AddSink("kafka", func() core.Sink {
		return &Kafka{
			ClientId:          "loggate.kafka",
			DialTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			MaxMessageSize:    1_048_576,
			Compression:       "none",
			RequiredAcks:      "one",
			PartitionBalancer: "fnv-1a",
			MaxAttempts:       1,
			RetryAfter:        time.Second,
			SASL: SASL{
				Mechanism: "none",
			},
		}
	})
}
