package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

var _ qa.Notifier = (*RedisPublisher)(nil)

// NewRedisClient crea el cliente desde REDIS_URL y valida la conexión.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválido: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisPublisher publica los eventos en un canal pub/sub para que todas las instancias los reciban.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher construye el publicador.
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish codifica el evento y hace PUBLISH.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	msg, err := Encode(eventType, payload, time.Now())
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// RedisRelay reenvía al hub local lo que llega por el canal de Redis.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
	log     *logger.Logger
}

// NewRedisRelay construye el relé.
func NewRedisRelay(client redis.UniversalClient, channel string, hub *Hub, log *logger.Logger) *RedisRelay {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisRelay{client: client, channel: channel, hub: hub, log: log.Named("redis_relay")}
}

// Run se suscribe y reenvía mensajes hasta que ctx termina.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}
	r.log.Info().Str("channel", r.channel).Msg("relé de notificaciones suscrito")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.hub.Broadcast(ctx, []byte(msg.Payload)); err != nil {
				r.log.Warn().Err(err).Msg("no se pudo reenviar al hub")
			}
		}
	}
}
