// Package mq carries order events between tracker and websocket hub, either
// directly in-process or over redis pub/sub.
package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"freshcart/models"
)

// OrderEventsChannel is the redis channel order events are published on.
const OrderEventsChannel = "order-events"

// Handler consumes an order event.
type Handler func(models.OrderEvent)

// Direct hands events straight to a handler in the same process.
type Direct struct {
	Handle Handler
}

func (d Direct) Publish(_ context.Context, ev models.OrderEvent) error {
	d.Handle(ev)
	return nil
}

// RedisPublisher publishes events as JSON on OrderEventsChannel.
type RedisPublisher struct {
	Client redis.Cmdable
	Logger *zap.Logger
}

func (p *RedisPublisher) Publish(ctx context.Context, ev models.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if err := p.Client.Publish(ctx, OrderEventsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	p.Logger.Debug("order event published", zap.String("order", ev.OrderID), zap.Int("step", ev.StepID))
	return nil
}

// StartOrderWorker subscribes to order events and passes each one to handle
// until ctx is done. The subscription is confirmed before it returns.
func StartOrderWorker(ctx context.Context, client *redis.Client, handle Handler, logger *zap.Logger) (<-chan struct{}, error) {
	sub := client.Subscribe(ctx, OrderEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", OrderEventsChannel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()

		ch := sub.Channel()
		logger.Info("listening for order events")
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.OrderEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("bad order event", zap.Error(err))
					continue
				}
				handle(ev)
			}
		}
	}()
	return done, nil
}
