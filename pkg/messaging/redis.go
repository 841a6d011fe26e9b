// Package messaging은 Redis Pub/Sub 기반 이벤트 발행을 제공합니다.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Publisher 이벤트 발행 인터페이스
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Envelope는 채널로 나가는 모든 메시지의 공통 포맷입니다.
type Envelope struct {
	Type       string      `json:"type"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type redisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher는 Redis에 연결하고 Ping으로 확인한 뒤 발행자를 반환합니다.
// prefix가 있으면 모든 채널 이름 앞에 붙습니다. (예: "accounting:invoice.upserted")
func NewRedisPublisher(addr, password string, db int, prefix string) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	return NewRedisPublisherFromClient(client, prefix), nil
}

// NewRedisPublisherFromClient는 이미 생성된 클라이언트로 발행자를 만듭니다.
func NewRedisPublisherFromClient(client *redis.Client, prefix string) Publisher {
	return &redisPublisher{client: client, prefix: prefix}
}

// Publish는 메시지를 Envelope로 감싸 JSON으로 발행합니다.
func (r *redisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(Envelope{
		Type:       channel,
		Data:       message,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	return r.client.Publish(ctx, r.channel(channel), payload).Err()
}

func (r *redisPublisher) channel(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

func (r *redisPublisher) Close() error {
	return r.client.Close()
}
