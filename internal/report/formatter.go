package report

import (
	"strings"

	"analyticsbot/internal/client/google"
)

// FormatMessage рендерит результат в текст для Telegram: жирный заголовок
// и моноширинная таблица, колонки выровнены по самой широкой ячейке.
func FormatMessage(res *google.ReportResult) string {
	var b strings.Builder
	b.WriteString("*" + res.Title + "*\n")

	if len(res.Rows) == 0 {
		msg := res.Message
		if msg == "" {
			msg = "No data available"
		}
		b.WriteString(msg)
		return b.String()
	}

	widths := make([]int, len(res.Headers))
	for i, h := range res.Headers {
		widths[i] = len(h)
	}
	for _, row := range res.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	b.WriteString("```\n")
	writeLine(&b, res.Headers, widths)
	for _, row := range res.Rows {
		writeLine(&b, row, widths)
	}
	b.WriteString("```")
	return b.String()
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(cell)
		if i < len(cells)-1 && i < len(widths) {
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
	}
	b.WriteString("\n")
}
