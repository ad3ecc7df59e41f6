package notifyinfra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/hireflow/pkg/notify"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher publica eventos de transición en un canal pub/sub de
// Redis. Los suscriptores (servicio de emails, webhooks) viven fuera
// de este proceso
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher crea un publisher sobre el canal dado
func NewRedisPublisher(client *redis.Client, channel string) notify.Dispatcher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

// Dispatch serializa el evento y lo publica. Fire-and-forget desde la
// perspectiva del engine: el error solo se propaga para loguearlo
func (p *RedisPublisher) Dispatch(ctx context.Context, event notify.TransitionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transition event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish transition event: %w", err)
	}
	return nil
}
