package google

import "context"

// Готовые отчёты с фиксированными наборами dimensions/metrics.
// Каждый вызов — независимый поход в API со своим токеном.

func (c *ReportClient) UsersByCountry(ctx context.Context) (*ReportResult, error) {
	return c.tabulate(ctx,
		"Users by Country",
		[]string{"Country", "Total Users", "New Users", "Sessions"},
		"No data available for the selected period",
		ReportQuery{
			DateRanges: []DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
			Dimensions: []string{"country"},
			Metrics:    []string{"totalUsers", "newUsers", "sessions"},
			OrderBys:   []OrderBy{{Metric: "totalUsers", Desc: true}},
			Limit:      defaultLimit,
		})
}

func (c *ReportClient) SessionsByDevice(ctx context.Context) (*ReportResult, error) {
	return c.tabulate(ctx,
		"Sessions by Device",
		[]string{"Device", "Sessions", "Total Users", "Page Views"},
		"No data available for the selected period",
		ReportQuery{
			DateRanges: []DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
			Dimensions: []string{"deviceCategory"},
			Metrics:    []string{"sessions", "totalUsers", "screenPageViews"},
			OrderBys:   []OrderBy{{Metric: "sessions", Desc: true}},
			Limit:      defaultLimit,
		})
}

func (c *ReportClient) TopPages(ctx context.Context) (*ReportResult, error) {
	return c.tabulate(ctx,
		"Top Pages",
		[]string{"Page", "Views", "Active Users", "Avg. Duration"},
		"No page data available",
		ReportQuery{
			DateRanges: []DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
			Dimensions: []string{"pagePath"},
			Metrics:    []string{"screenPageViews", "activeUsers", "averageSessionDuration"},
			OrderBys:   []OrderBy{{Metric: "screenPageViews", Desc: true}},
			Limit:      defaultLimit,
		})
}

func (c *ReportClient) ConversionsBySource(ctx context.Context) (*ReportResult, error) {
	return c.tabulate(ctx,
		"Conversions by Source",
		[]string{"Source", "Conversions", "Sessions", "Total Users"},
		"No conversion data available",
		ReportQuery{
			DateRanges: []DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
			Dimensions: []string{"sessionSource"},
			Metrics:    []string{"conversions", "sessions", "totalUsers"},
			OrderBys:   []OrderBy{{Metric: "conversions", Desc: true}},
			Limit:      defaultLimit,
		})
}

// CompareTodayVsYesterday сравнивает одну метрику за сегодня и вчера.
// API возвращает значения обоих диапазонов в одной строке, по одному
// metricValue на диапазон.
func (c *ReportClient) CompareTodayVsYesterday(ctx context.Context, metric string) (*ReportResult, error) {
	return c.comparePeriods(ctx,
		"Today vs Yesterday: "+metric,
		metric,
		[]DateRange{
			{StartDate: "today", EndDate: "today"},
			{StartDate: "yesterday", EndDate: "yesterday"},
		},
		[2]string{"Today", "Yesterday"})
}

func (c *ReportClient) CompareWeekOverWeek(ctx context.Context, metric string) (*ReportResult, error) {
	return c.comparePeriods(ctx,
		"Week over Week: "+metric,
		metric,
		[]DateRange{
			{StartDate: "7daysAgo", EndDate: "today"},
			{StartDate: "14daysAgo", EndDate: "8daysAgo"},
		},
		[2]string{"This Week", "Last Week"})
}

func (c *ReportClient) comparePeriods(ctx context.Context, title, metric string, ranges []DateRange, labels [2]string) (*ReportResult, error) {
	resp, err := c.runReport(ctx, ReportQuery{
		DateRanges: ranges,
		Metrics:    []string{metric},
	}.payload())
	if err != nil {
		return nil, err
	}

	result := &ReportResult{Title: title, Headers: []string{"Period", metric}}
	if len(resp.Rows) == 0 {
		result.Message = "No data available for comparison"
		return result, nil
	}

	values := resp.Rows[0].MetricValues
	result.Rows = [][]string{
		{labels[0], metricValue(values, 0)},
		{labels[1], metricValue(values, 1)},
	}
	return result, nil
}

// DetailedReport — общий путь для произвольного запроса. Заголовки берутся
// из имён полей запроса.
func (c *ReportClient) DetailedReport(ctx context.Context, q ReportQuery) (*ReportResult, error) {
	if q.Limit == 0 {
		q.Limit = detailedLimit
	}

	headers := make([]string, 0, len(q.Dimensions)+len(q.Metrics))
	headers = append(headers, q.Dimensions...)
	headers = append(headers, q.Metrics...)

	return c.tabulate(ctx, "Detailed Report", headers, noDataFallback, q)
}
