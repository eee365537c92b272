package report

import (
	"context"

	"go.uber.org/zap"

	"analyticsbot/internal/client/google"
)

// Sink — получатель готового отчёта.
type Sink interface {
	Publish(ctx context.Context, res *google.ReportResult) error
}

type Service struct {
	logger *zap.Logger
	sinks  []Sink
}

func NewService(logger *zap.Logger, sinks ...Sink) *Service {
	return &Service{logger: logger, sinks: sinks}
}

// Publish отдаёт отчёт во все sinks. Отказ одного не останавливает
// остальные, возвращается последняя ошибка.
func (s *Service) Publish(ctx context.Context, res *google.ReportResult) error {
	s.logger.Debug("publishing report", zap.String("report", res.Title))

	var lastErr error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, res); err != nil {
			s.logger.Error("failed to publish report", zap.String("report", res.Title), zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
