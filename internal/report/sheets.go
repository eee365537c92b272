package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"analyticsbot/internal/client/google"
)

// SheetsSink дописывает отчёты в таблицу Google Sheets. Источником токена
// служит тот же issuer, что и для отчётов, но со scope spreadsheets.
type SheetsSink struct {
	logger        *zap.Logger
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
}

func NewSheetsSink(ctx context.Context, logger *zap.Logger, ts oauth2.TokenSource, spreadsheetID, writeRange string) (*SheetsSink, error) {
	srv, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return &SheetsSink{
		logger:        logger,
		service:       srv,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
	}, nil
}

func (s *SheetsSink) Publish(ctx context.Context, res *google.ReportResult) error {
	values := [][]interface{}{{res.Title}}

	if len(res.Rows) == 0 {
		values = append(values, []interface{}{res.Message})
	} else {
		header := make([]interface{}, len(res.Headers))
		for i, h := range res.Headers {
			header[i] = h
		}
		values = append(values, header)

		for _, row := range res.Rows {
			cells := make([]interface{}, len(row))
			for i, c := range row {
				cells[i] = c
			}
			values = append(values, cells)
		}
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.writeRange, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to append report to sheet: %w", err)
	}

	s.logger.Debug("report appended to sheet", zap.String("report", res.Title))
	return nil
}
