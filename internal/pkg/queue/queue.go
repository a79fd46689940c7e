package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/metrics"
)

// ErrMalformedMessage 队列中的消息无法解析，原文已转入死信队列
var ErrMalformedMessage = errors.New("malformed queue message")

// Queue 基于 Redis List 的通知队列
type Queue struct {
	client    *redis.Client
	queueName string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将通知加入队列
func (q *Queue) Push(ctx context.Context, msg *dto.NotificationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取通知（阻塞），超时返回 nil
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*dto.NotificationMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg dto.NotificationMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		metrics.NotificationFailures.Inc()
		// BRPOP 已经取走，原文保留到死信队列
		if dlErr := q.client.LPush(context.WithoutCancel(ctx), q.deadLetterName(), result[1]).Err(); dlErr != nil {
			return nil, fmt.Errorf("%w: %v (dead letter failed: %v)", ErrMalformedMessage, err, dlErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}

// DeadLetter 投递失败的通知放入死信队列
func (q *Queue) DeadLetter(ctx context.Context, msg *dto.NotificationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.deadLetterName(), data).Err()
}

// DeadLetterLength 死信队列长度
func (q *Queue) DeadLetterLength(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.deadLetterName()).Result()
}

func (q *Queue) deadLetterName() string {
	return q.queueName + ":dead"
}
