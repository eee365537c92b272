package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"analyticsbot/internal/client/google"
)

type stubSink struct {
	published []*google.ReportResult
	err       error
}

func (s *stubSink) Publish(ctx context.Context, res *google.ReportResult) error {
	s.published = append(s.published, res)
	return s.err
}

type stubMessenger struct {
	sent []string
}

func (m *stubMessenger) SendMessage(ctx context.Context, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

func TestServicePublishesToAllSinks(t *testing.T) {
	first := &stubSink{}
	second := &stubSink{}
	svc := NewService(zap.NewNop(), first, second)

	res := &google.ReportResult{Title: "Sessions by Device"}
	require.NoError(t, svc.Publish(context.Background(), res))

	assert.Equal(t, []*google.ReportResult{res}, first.published)
	assert.Equal(t, []*google.ReportResult{res}, second.published)
}

func TestServiceContinuesAfterSinkFailure(t *testing.T) {
	failing := &stubSink{err: errors.New("sheet unavailable")}
	healthy := &stubSink{}
	svc := NewService(zap.NewNop(), failing, healthy)

	res := &google.ReportResult{Title: "Top Pages"}
	err := svc.Publish(context.Background(), res)

	require.Error(t, err)
	assert.Len(t, healthy.published, 1)
}

func TestTelegramSinkSendsFormattedMessage(t *testing.T) {
	messenger := &stubMessenger{}
	sink := NewTelegramSink(zap.NewNop(), messenger)

	res := &google.ReportResult{
		Title:   "Users by Country",
		Headers: []string{"Country", "Total Users"},
		Rows:    [][]string{{"US", "120"}},
	}
	require.NoError(t, sink.Publish(context.Background(), res))

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, FormatMessage(res), messenger.sent[0])
}
