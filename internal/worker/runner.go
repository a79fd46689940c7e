package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/queue"
)

const popTimeout = 5 * time.Second

// Source 阻塞式读取通知，超时返回 nil
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (*dto.NotificationMessage, error)
}

// Runner 多个 goroutine 并发消费队列
type Runner struct {
	source     Source
	processor  *Processor
	workers    int
	popTimeout time.Duration
}

func NewRunner(source Source, processor *Processor, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		source:     source,
		processor:  processor,
		workers:    workers,
		popTimeout: popTimeout,
	}
}

// Run 阻塞直到 ctx 取消且所有 worker 退出
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.loop(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, workerID int) {
	log := logrus.WithField("worker", workerID)
	for {
		if ctx.Err() != nil {
			log.Info("Worker shutting down")
			return
		}

		msg, err := r.source.Pop(ctx, r.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, queue.ErrMalformedMessage) {
				log.WithError(err).Error("Malformed notification moved to dead letter queue")
				continue
			}
			log.WithError(err).Warn("Failed to pop notification")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if msg == nil {
			continue
		}

		if err := r.processor.Process(ctx, msg); err != nil {
			log.WithError(err).Error("Notification dropped to dead letter queue")
		}
	}
}
