package cron

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RatingReconciler 根据投票记录修正评分
type RatingReconciler interface {
	ReconcileRatings() (int64, error)
}

// NotificationPurger 清理已读通知
type NotificationPurger interface {
	DeleteReadBefore(before time.Time) (int64, error)
}

type Service struct {
	ratings           RatingReconciler
	notifications     NotificationPurger
	reconcileInterval time.Duration
	retention         time.Duration
	stopChan          chan struct{}
	stopOnce          sync.Once
	startOnce         sync.Once
	now               func() time.Time
}

func NewService(
	ratings RatingReconciler,
	notifications NotificationPurger,
	reconcileIntervalMinutes int,
	retentionDays int,
) *Service {
	if reconcileIntervalMinutes <= 0 {
		reconcileIntervalMinutes = 60
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Service{
		ratings:           ratings,
		notifications:     notifications,
		reconcileInterval: time.Duration(reconcileIntervalMinutes) * time.Minute,
		retention:         time.Duration(retentionDays) * 24 * time.Hour,
		stopChan:          make(chan struct{}),
		now:               time.Now,
	}
}

// Start 启动定时任务，重复调用只启动一次
func (s *Service) Start() {
	s.startOnce.Do(func() {
		go s.runReconcile()
		go s.runDailyPurge()
		logrus.Info("Cron service started (rating reconcile + notification purge)")
	})
}

// Stop 停止定时任务
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		logrus.Info("Cron service stopped")
	})
}

func (s *Service) runReconcile() {
	ticker := time.NewTicker(s.reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.ReconcileRatings()
		}
	}
}

// runDailyPurge 每天 UTC 零点清理一次
func (s *Service) runDailyPurge() {
	now := s.now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.PurgeNotifications()
			timer.Reset(24 * time.Hour)
		}
	}
}

// ReconcileRatings 执行一次评分修正，返回修正的评论数
func (s *Service) ReconcileRatings() int64 {
	if s.ratings == nil {
		return 0
	}

	fixed, err := s.ratings.ReconcileRatings()
	if err != nil {
		logrus.WithError(err).Error("Failed to reconcile comment ratings")
		return 0
	}
	if fixed > 0 {
		logrus.WithField("fixed", fixed).Warn("Comment ratings drifted from votes and were reconciled")
	}
	return fixed
}

// PurgeNotifications 删除超过保留期的已读通知
func (s *Service) PurgeNotifications() int64 {
	if s.notifications == nil {
		return 0
	}

	before := s.now().Add(-s.retention)
	deleted, err := s.notifications.DeleteReadBefore(before)
	if err != nil {
		logrus.WithError(err).Error("Failed to purge read notifications")
		return 0
	}
	logrus.WithFields(logrus.Fields{
		"deleted": deleted,
		"before":  before.Format(time.RFC3339),
	}).Info("Purged read notifications")
	return deleted
}
