package listener

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/flowkit/pkg/config"
	"github.com/dmitrymomot/flowkit/pkg/logger"
	redisconn "github.com/dmitrymomot/flowkit/pkg/redis"
	"github.com/dmitrymomot/flowkit/pkg/workflow"
)

// RedisConfig configures RedisPublisher.
type RedisConfig struct {
	ChannelPrefix string `env:"WORKFLOW_EVENTS_CHANNEL_PREFIX" envDefault:"workflow"`
}

// LoadRedisConfig reads RedisConfig from the environment.
func LoadRedisConfig() (RedisConfig, error) {
	var cfg RedisConfig
	if err := config.Load(&cfg); err != nil {
		return RedisConfig{}, err
	}
	return cfg, nil
}

// RedisPublisher publishes a JSON Record of every global event delivery to the
// channel "<prefix>:<workflow>:<phase>".
type RedisPublisher struct {
	client redis.UniversalClient
	owned  bool
	prefix string
	opts   options
}

// NewRedisPublisher publishes through client. The caller keeps ownership of it.
func NewRedisPublisher(client redis.UniversalClient, cfg RedisConfig, opts ...Option) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		prefix: strings.TrimSuffix(cfg.ChannelPrefix, ":"),
		opts:   newOptions("redis_publisher", opts),
	}
}

// DialRedisPublisher connects with conn, retrying as configured, and returns a
// publisher owning the client. Close releases it.
func DialRedisPublisher(ctx context.Context, conn redisconn.Config, cfg RedisConfig, opts ...Option) (*RedisPublisher, error) {
	p := NewRedisPublisher(nil, cfg, opts...)
	client, err := redisconn.Connect(ctx, conn, redisconn.WithLogger(p.opts.log))
	if err != nil {
		return nil, err
	}
	p.client = client
	p.owned = true
	return p, nil
}

// NewRedisPublisherFromEnv reads REDIS_* and WORKFLOW_EVENTS_CHANNEL_PREFIX and
// dials the server.
func NewRedisPublisherFromEnv(ctx context.Context, opts ...Option) (*RedisPublisher, error) {
	conn, err := redisconn.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}
	return DialRedisPublisher(ctx, conn, cfg, opts...)
}

// Healthcheck pings the server the publisher writes to.
func (p *RedisPublisher) Healthcheck(ctx context.Context) error {
	return redisconn.Healthcheck(p.client, 0)(ctx)
}

// Close closes the client if the publisher opened it.
func (p *RedisPublisher) Close() error {
	if !p.owned || p.client == nil {
		return nil
	}
	return p.client.Close()
}

// Channel returns the channel events of a workflow phase are published on.
func (p *RedisPublisher) Channel(workflowName string, phase workflow.Phase) string {
	parts := []string{workflowName, string(phase)}
	if p.prefix != "" {
		parts = append([]string{p.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

// Subscriptions implements workflow.Subscriber with one global topic per configured phase.
func (p *RedisPublisher) Subscriptions() []workflow.Subscription {
	subs := make([]workflow.Subscription, 0, len(p.opts.phases))
	for _, ph := range p.opts.phases {
		subs = append(subs, workflow.Subscription{Topic: workflow.OnPhase(ph), Listener: p})
	}
	return subs
}

// Handle publishes the event. Failures are logged; they never affect the transition.
func (p *RedisPublisher) Handle(ctx context.Context, e *workflow.Event) {
	payload, err := json.Marshal(NewRecord(e))
	if err != nil {
		p.opts.log.ErrorContext(ctx, "failed to encode event record",
			logger.Workflow(e.Workflow),
			logger.Phase(e.Phase),
			logger.Error(err),
		)
		return
	}

	channel := p.Channel(e.Workflow, e.Phase)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.opts.log.WarnContext(ctx, "failed to publish event",
			logger.Workflow(e.Workflow),
			logger.Phase(e.Phase),
			slog.String("channel", channel),
			logger.Error(err),
		)
	}
}
