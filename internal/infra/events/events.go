package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Типы событий бронирований
const (
	TypeBookingCreated     = "booking.created"
	TypeBookingCancelled   = "booking.cancelled"
	TypeBookingRescheduled = "booking.rescheduled"
	TypeBookingCompleted   = "booking.completed"
	TypeResourceOpened     = "resource.availability_opened"
)

// Event сообщение о изменении бронирований ресурса
type Event struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	BookingID  int64  `json:"booking_id,omitempty"`
	ResourceID int64  `json:"resource_id"`
	TsUnix     int64  `json:"ts_unix"`
}

// NewEvent создает событие с уникальным ID
func NewEvent(eventType string, resourceID, bookingID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		ResourceID: resourceID,
		TsUnix:     time.Now().Unix(),
	}
}

// RedisPublisher публикует события в Redis pub/sub
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher создает publisher
func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Publish публикует событие
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", ev.Type, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", ev.Type, err)
	}
	return nil
}

// Subscribe читает события канала до отмены контекста
func (p *RedisPublisher) Subscribe(ctx context.Context, handler func(ctx context.Context, ev Event)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.Type != "" {
				handler(ctx, ev)
			}
		}
	}
}

// Noop publisher без доставки
type Noop struct{}

// Publish ничего не делает
func (Noop) Publish(context.Context, Event) error {
	return nil
}
