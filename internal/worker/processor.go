package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/metrics"
)

const (
	defaultMaxRetries = 2
	defaultBackoff    = time.Second
)

// Inbox 通知最终落地的位置
type Inbox interface {
	Push(ctx context.Context, msg *dto.NotificationMessage) error
}

// DeadLetterer 接收重试后仍失败的通知
type DeadLetterer interface {
	DeadLetter(ctx context.Context, msg *dto.NotificationMessage) error
}

// Processor 把队列中的通知写入收件箱
type Processor struct {
	inbox       Inbox
	deadLetters DeadLetterer
	maxRetries  int
	backoff     time.Duration
}

func NewProcessor(inbox Inbox, deadLetters DeadLetterer) *Processor {
	return &Processor{
		inbox:       inbox,
		deadLetters: deadLetters,
		maxRetries:  defaultMaxRetries,
		backoff:     defaultBackoff,
	}
}

// Process 投递单条通知，指数退避重试，最终失败转入死信队列
func (p *Processor) Process(ctx context.Context, msg *dto.NotificationMessage) error {
	if msg.RecipientUserID <= 0 {
		return p.fail(ctx, msg, fmt.Errorf("invalid recipient %d", msg.RecipientUserID))
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * p.backoff
			select {
			case <-ctx.Done():
				return p.fail(context.WithoutCancel(ctx), msg, ctx.Err())
			case <-time.After(wait):
			}
		}

		lastErr = p.inbox.Push(ctx, msg)
		if lastErr == nil {
			metrics.NotificationsDelivered.Inc()
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return p.fail(context.WithoutCancel(ctx), msg, lastErr)
		}

		logrus.WithFields(logrus.Fields{
			"recipient": msg.RecipientUserID,
			"type":      msg.Type,
			"attempt":   attempt + 1,
		}).WithError(lastErr).Warn("Notification delivery failed")
	}

	return p.fail(ctx, msg, lastErr)
}

func (p *Processor) fail(ctx context.Context, msg *dto.NotificationMessage, cause error) error {
	metrics.NotificationFailures.Inc()

	if p.deadLetters != nil {
		if err := p.deadLetters.DeadLetter(ctx, msg); err != nil {
			logrus.WithError(err).WithField("recipient", msg.RecipientUserID).Error("Failed to dead-letter notification")
		}
	}
	return fmt.Errorf("deliver notification to user %d: %w", msg.RecipientUserID, cause)
}
