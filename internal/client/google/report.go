package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHost    = "https://analyticsdata.googleapis.com"
	defaultLimit   = 10
	detailedLimit  = 50
	reportTimeout  = 20 * time.Second
	noDataFallback = "No data available"
)

// ReportClient ходит в Analytics Data API. Токен берётся свежий на каждый
// запрос, состояния между вызовами нет.
type ReportClient struct {
	logger     *zap.Logger
	issuer     *TokenIssuer
	propertyID string
	http       *http.Client

	host string // переопределяется в тестах
}

func NewReportClient(logger *zap.Logger, issuer *TokenIssuer, propertyID string) *ReportClient {
	return &ReportClient{
		logger:     logger,
		issuer:     issuer,
		propertyID: propertyID,
		http:       &http.Client{Timeout: reportTimeout},
		host:       defaultHost,
	}
}

func (c *ReportClient) runReport(ctx context.Context, payload runReportRequest) (*runReportResponse, error) {
	token, err := c.issuer.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1beta/properties/%s:runReport", c.host, c.propertyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindReportRequest, 0, "failed to fetch report", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("report request failed", zap.Error(err))
		return nil, newError(KindReportRequest, 0, "failed to fetch report", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)

		// классификация только для логов, наружу уходит общая ошибка
		switch resp.StatusCode {
		case http.StatusForbidden:
			c.logger.Error("report request denied",
				zap.String("propertyId", c.propertyID),
				zap.ByteString("response", respBody))
		case http.StatusBadRequest:
			c.logger.Error("malformed report payload",
				zap.ByteString("payload", body),
				zap.ByteString("response", respBody))
		case http.StatusUnauthorized:
			c.logger.Error("report authentication failed",
				zap.ByteString("response", respBody))
		default:
			c.logger.Error("report request returned bad status",
				zap.String("status", resp.Status),
				zap.ByteString("response", respBody))
		}

		return nil, newError(KindReportRequest, resp.StatusCode, "failed to fetch report",
			fmt.Errorf("bad status: %s", resp.Status))
	}

	var report runReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		c.logger.Error("failed to decode report response", zap.Error(err))
		return nil, newError(KindReportRequest, 0, "failed to fetch report", err)
	}

	return &report, nil
}

// tabulate гоняет запрос и раскладывает ответ в таблицу с фиксированными
// заголовками операции. Пустой ответ — пустые Rows и текст в Message.
func (c *ReportClient) tabulate(ctx context.Context, title string, headers []string, emptyMessage string, q ReportQuery) (*ReportResult, error) {
	resp, err := c.runReport(ctx, q.payload())
	if err != nil {
		return nil, err
	}

	result := &ReportResult{Title: title, Headers: headers}
	if len(resp.Rows) == 0 {
		result.Message = emptyMessage
		return result, nil
	}

	dims := len(q.Dimensions)
	mets := len(q.Metrics)
	for _, row := range resp.Rows {
		out := make([]string, 0, dims+mets)
		for i := 0; i < dims; i++ {
			out = append(out, dimensionValue(row.DimensionValues, i))
		}
		for i := 0; i < mets; i++ {
			out = append(out, metricValue(row.MetricValues, i))
		}
		result.Rows = append(result.Rows, out)
	}
	return result, nil
}

func dimensionValue(values []reportValue, i int) string {
	if i >= len(values) || values[i].Value == "" {
		return "Unknown"
	}
	return values[i].Value
}

func metricValue(values []reportValue, i int) string {
	if i >= len(values) || values[i].Value == "" {
		return "0"
	}
	return values[i].Value
}
