package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/relay"
)

// Message is a control command published to redis channel, e.g.
//
//	{"gate": "kafka-debug", "action": "start", "config": {"category": "app.db", "level": "debug", "force_level": true}}
type Message struct {
	Gate   string         `json:"gate"`
	Action string         `json:"action"`
	Config map[string]any `json:"config"`
}

type redisListener struct {
	cfg     config.Redis
	timeout time.Duration
	c       relay.Controller
	log     *slog.Logger

	client redis.UniversalClient
}

func Redis(cfg config.Redis, c relay.Controller, log *slog.Logger) *redisListener {
	return &redisListener{
		cfg: cfg,
		c:   c,
		log: log,
	}
}

func (l *redisListener) Init() error {
	if len(l.cfg.Servers) == 0 {
		return errors.New("at least one Redis server address required")
	}

	timeout, err := time.ParseDuration(l.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	l.timeout = timeout

	tlsConfig, err := l.cfg.TLSClientConfig.Config()
	if err != nil {
		return err
	}

	l.client = redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:                 l.cfg.Servers,
		Username:              l.cfg.Username,
		Password:              l.cfg.Password,
		DialTimeout:           l.timeout,
		WriteTimeout:          l.timeout,
		ContextTimeoutEnabled: true,
		TLSConfig:             tlsConfig,
	})

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.client.Ping(ctx).Err(); err != nil {
		defer l.client.Close()
		return err
	}

	return nil
}

// Serve consumes control messages until ctx is done
func (l *redisListener) Serve(ctx context.Context) error {
	pubsub := l.client.Subscribe(ctx, l.cfg.Channel)
	defer pubsub.Close()

	subCtx, cancel := context.WithTimeout(ctx, l.timeout)
	_, err := pubsub.Receive(subCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("subscription to %v failed: %w", l.cfg.Channel, err)
	}

	l.log.Info("control channel subscribed",
		"channel", l.cfg.Channel,
	)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			if err := l.handle([]byte(msg.Payload)); err != nil {
				l.log.Error("control message rejected",
					"error", err,
					"channel", msg.Channel,
				)
			}
		}
	}
}

func (l *redisListener) handle(payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return &relay.ValidationError{Err: err}
	}

	if len(msg.Gate) == 0 {
		return &relay.ValidationError{Err: errors.New("gate name required")}
	}

	switch msg.Action {
	case "start":
		if msg.Config == nil {
			msg.Config = make(map[string]any)
		}

		cfg, err := gate.DecodeConfig(msg.Config)
		if err != nil {
			return &relay.ValidationError{Err: err}
		}

		if err := l.c.Start(msg.Gate, cfg); err != nil {
			return err
		}
	case "stop":
		if err := l.c.Stop(msg.Gate); err != nil {
			return err
		}
	default:
		return &relay.ValidationError{Err: fmt.Errorf("unknown action: %v; expected one of: start, stop", msg.Action)}
	}

	l.log.Info("control message applied",
		slog.Group("message",
			"gate", msg.Gate,
			"action", msg.Action,
		),
	)
	return nil
}

func (l *redisListener) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
