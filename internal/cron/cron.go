package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"analyticsbot/internal/worker"
)

type Scheduler struct {
	cron   *cron.Cron
	worker *worker.Worker
	spec   string
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger, w *worker.Worker, spec string) *Scheduler {
	c := cron.New(cron.WithSeconds()) // включаем секунды для гибкости
	return &Scheduler{
		cron:   c,
		worker: w,
		spec:   spec,
		logger: logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	// Первый прогон сразу при старте
	s.logger.Info("Initial run of analytics summary")
	go s.worker.RunSummary(ctx)

	_, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("Scheduled analytics summary")
		s.worker.RunSummary(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Cron scheduler stopped")
}
