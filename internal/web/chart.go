package web

import (
	"io"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/web/templates"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// renderChart writes a standalone HTML page with a line chart of the
// daily totals.
func renderChart(w io.Writer, totals []core.DayTotal) error {
	days := make([]string, len(totals))
	values := make([]opts.LineData, len(totals))
	for i, t := range totals {
		days[i] = templates.Date(t.Date)
		values[i] = opts.LineData{Value: t.Total.Round(2).InexactFloat64()}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Total por Dia",
			Width:     "100%",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Total de vendas por dia"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: templates.CurrentFormat().CurrencySymbol}),
	)
	line.SetXAxis(days).AddSeries("Total do Dia", values)

	return line.Render(w)
}
