package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"analyticsbot/internal/client/google"
	"analyticsbot/internal/report"
)

type Worker struct {
	logger  *zap.Logger
	reports *google.ReportClient
	service *report.Service
}

func NewWorker(logger *zap.Logger, reports *google.ReportClient, service *report.Service) *Worker {
	return &Worker{
		logger:  logger,
		reports: reports,
		service: service,
	}
}

// RunSummary собирает все отчёты параллельно (каждый — независимый запрос
// со своим токеном) и публикует их в исходном порядке. Упавший отчёт
// логируется и пропускается, остальные не страдают.
func (w *Worker) RunSummary(ctx context.Context) {
	type job struct {
		name string
		run  func(context.Context) (*google.ReportResult, error)
	}

	jobs := []job{
		{"users by country", w.reports.UsersByCountry},
		{"sessions by device", w.reports.SessionsByDevice},
		{"top pages", w.reports.TopPages},
		{"conversions by source", w.reports.ConversionsBySource},
		{"today vs yesterday", func(ctx context.Context) (*google.ReportResult, error) {
			return w.reports.CompareTodayVsYesterday(ctx, "sessions")
		}},
		{"week over week", func(ctx context.Context) (*google.ReportResult, error) {
			return w.reports.CompareWeekOverWeek(ctx, "totalUsers")
		}},
	}

	results := make([]*google.ReportResult, len(jobs))

	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			res, err := j.run(ctx)
			if err != nil {
				w.logger.Error("failed to fetch report", zap.String("report", j.name), zap.Error(err))
				return
			}
			results[i] = res
		}(i, j)
	}
	wg.Wait()

	for _, res := range results {
		if res == nil {
			continue
		}
		if err := w.service.Publish(ctx, res); err != nil {
			w.logger.Error("failed to publish report", zap.String("report", res.Title), zap.Error(err))
		}
	}

	w.logger.Info("summary run finished")
}
