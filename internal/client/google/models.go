package google

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type MatchType string

const (
	MatchExact    MatchType = "EXACT"
	MatchContains MatchType = "CONTAINS"
	MatchInList   MatchType = "IN_LIST"
)

// DimensionFilter — предикат по одному полю. Values: одно значение для
// EXACT/CONTAINS, список для IN_LIST.
type DimensionFilter struct {
	Field  string
	Match  MatchType
	Values []string
	Negate bool
}

type OrderBy struct {
	Metric    string
	Dimension string
	Desc      bool
}

// ReportQuery описывает запрос runReport. Имена dimensions/metrics —
// непрозрачные строки, их проверяет только удалённое API.
type ReportQuery struct {
	DateRanges []DateRange
	Dimensions []string
	Metrics    []string
	Filter     *DimensionFilter
	OrderBys   []OrderBy
	Limit      int64
}

// ReportResult — табличный результат. Rows выровнены по Headers,
// форма задаётся операцией, которая его построила.
type ReportResult struct {
	Title   string
	Headers []string
	Rows    [][]string
	Message string // заполняется только при пустом результате
}

// --- формат запроса/ответа analyticsdata v1beta ---

type runReportRequest struct {
	DateRanges      []DateRange       `json:"dateRanges"`
	Dimensions      []dimensionSpec   `json:"dimensions,omitempty"`
	Metrics         []metricSpec      `json:"metrics"`
	DimensionFilter *filterExpression `json:"dimensionFilter,omitempty"`
	OrderBys        []orderBySpec     `json:"orderBys,omitempty"`
	Limit           int64             `json:"limit,omitempty"`
}

type dimensionSpec struct {
	Name string `json:"name"`
}

type metricSpec struct {
	Name string `json:"name"`
}

type filterExpression struct {
	Filter        *fieldFilter      `json:"filter,omitempty"`
	NotExpression *filterExpression `json:"notExpression,omitempty"`
}

type fieldFilter struct {
	FieldName    string        `json:"fieldName"`
	StringFilter *stringFilter `json:"stringFilter,omitempty"`
	InListFilter *inListFilter `json:"inListFilter,omitempty"`
}

type stringFilter struct {
	MatchType string `json:"matchType"`
	Value     string `json:"value"`
}

type inListFilter struct {
	Values []string `json:"values"`
}

type orderBySpec struct {
	Metric    *metricOrderBy    `json:"metric,omitempty"`
	Dimension *dimensionOrderBy `json:"dimension,omitempty"`
	Desc      bool              `json:"desc,omitempty"`
}

type metricOrderBy struct {
	MetricName string `json:"metricName"`
}

type dimensionOrderBy struct {
	DimensionName string `json:"dimensionName"`
}

type runReportResponse struct {
	DimensionHeaders []fieldHeader `json:"dimensionHeaders"`
	MetricHeaders    []fieldHeader `json:"metricHeaders"`
	Rows             []reportRow   `json:"rows"`
	RowCount         int           `json:"rowCount"`
}

type fieldHeader struct {
	Name string `json:"name"`
}

type reportRow struct {
	DimensionValues []reportValue `json:"dimensionValues"`
	MetricValues    []reportValue `json:"metricValues"`
}

type reportValue struct {
	Value string `json:"value"`
}

func (f *DimensionFilter) expression() *filterExpression {
	ff := &fieldFilter{FieldName: f.Field}
	if f.Match == MatchInList {
		ff.InListFilter = &inListFilter{Values: f.Values}
	} else {
		value := ""
		if len(f.Values) > 0 {
			value = f.Values[0]
		}
		ff.StringFilter = &stringFilter{MatchType: string(f.Match), Value: value}
	}

	expr := &filterExpression{Filter: ff}
	if f.Negate {
		expr = &filterExpression{NotExpression: expr}
	}
	return expr
}

func (q ReportQuery) payload() runReportRequest {
	req := runReportRequest{
		DateRanges: q.DateRanges,
		Limit:      q.Limit,
	}
	for _, d := range q.Dimensions {
		req.Dimensions = append(req.Dimensions, dimensionSpec{Name: d})
	}
	for _, m := range q.Metrics {
		req.Metrics = append(req.Metrics, metricSpec{Name: m})
	}
	if q.Filter != nil {
		req.DimensionFilter = q.Filter.expression()
	}
	for _, o := range q.OrderBys {
		spec := orderBySpec{Desc: o.Desc}
		if o.Metric != "" {
			spec.Metric = &metricOrderBy{MetricName: o.Metric}
		} else {
			spec.Dimension = &dimensionOrderBy{DimensionName: o.Dimension}
		}
		req.OrderBys = append(req.OrderBys, spec)
	}
	return req
}
