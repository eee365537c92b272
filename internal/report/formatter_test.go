package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"analyticsbot/internal/client/google"
)

func TestFormatMessageTable(t *testing.T) {
	res := &google.ReportResult{
		Title:   "Users by Country",
		Headers: []string{"Country", "Total Users", "New Users", "Sessions"},
		Rows: [][]string{
			{"US", "120", "80", "200"},
			{"Germany", "64", "30", "91"},
		},
	}

	out := FormatMessage(res)

	assert.True(t, strings.HasPrefix(out, "*Users by Country*\n"))
	assert.Contains(t, out, "```")
	assert.Contains(t, out, "Country | Total Users | New Users | Sessions")
	assert.Contains(t, out, "US      | 120")
	assert.Contains(t, out, "Germany | 64")
}

func TestFormatMessageEmpty(t *testing.T) {
	res := &google.ReportResult{
		Title:   "Top Pages",
		Headers: []string{"Page", "Views"},
		Message: "No page data available",
	}

	out := FormatMessage(res)

	assert.Equal(t, "*Top Pages*\nNo page data available", out)
	assert.NotContains(t, out, "```")
}

func TestFormatMessageEmptyWithoutMessage(t *testing.T) {
	res := &google.ReportResult{Title: "Top Pages"}
	assert.Contains(t, FormatMessage(res), "No data available")
}
