package report

import (
	"context"

	"go.uber.org/zap"

	"analyticsbot/internal/client/google"
)

type Messenger interface {
	SendMessage(ctx context.Context, text string) error
}

type TelegramSink struct {
	logger    *zap.Logger
	messenger Messenger
}

func NewTelegramSink(logger *zap.Logger, messenger Messenger) *TelegramSink {
	return &TelegramSink{logger: logger, messenger: messenger}
}

func (t *TelegramSink) Publish(ctx context.Context, res *google.ReportResult) error {
	return t.messenger.SendMessage(ctx, FormatMessage(res))
}
