package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/linebalance/core/model"
)

// Packages lists the package names of res in the order they first appear.
func Packages(res *model.CalculationResult) []string {
	seen := map[string]bool{}
	var names []string
	for _, row := range res.Matrix {
		for _, c := range row {
			if !seen[c.PackageName] {
				seen[c.PackageName] = true
				names = append(names, c.PackageName)
			}
		}
	}
	return names
}

// BalanceLines returns, per package, the cumulative number of houses that
// started it by the end of each week. Weeks range over res.Weeks.
func BalanceLines(res *model.CalculationResult) map[string][]int {
	starts := map[string][]int{}
	for _, name := range Packages(res) {
		starts[name] = make([]int, len(res.Weeks))
	}
	for _, row := range res.Matrix {
		first := map[string]int{}
		for _, c := range row {
			if w, ok := first[c.PackageName]; !ok || c.WeekIndex < w {
				first[c.PackageName] = c.WeekIndex
			}
		}
		for name, w := range first {
			if w >= 0 && w < len(res.Weeks) {
				starts[name][w]++
			}
		}
	}
	for _, s := range starts {
		for i := 1; i < len(s); i++ {
			s[i] += s[i-1]
		}
	}
	return starts
}

// WriteBalanceChart renders the line-of-balance chart as an HTML page: one
// line per package, houses started over weeks.
func WriteBalanceChart(w io.Writer, res *model.CalculationResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Linha de balanço"}),
		charts.WithTitleOpts(opts.Title{Title: "Linha de balanço", Subtitle: res.Metadata.CalculationID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Semana"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Casas iniciadas"}),
	)
	line.SetXAxis(res.Weeks)
	lines := BalanceLines(res)
	for _, name := range Packages(res) {
		data := make([]opts.LineData, len(res.Weeks))
		for i, n := range lines[name] {
			data[i] = opts.LineData{Value: n}
		}
		line.AddSeries(name, data)
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render balance chart: %w", err)
	}
	return nil
}

// WriteCostChart renders the weekly cost bars and the cumulative cost curve
// of series as an HTML page.
func WriteCostChart(w io.Writer, series []model.FinancialWeekData) error {
	labels := make([]string, len(series))
	weekly := make([]opts.BarData, len(series))
	cumulative := make([]opts.LineData, len(series))
	for i, wk := range series {
		labels[i] = wk.WeekLabel
		weekly[i] = opts.BarData{Value: wk.WeeklyCost}
		cumulative[i] = opts.LineData{Value: wk.CumulativeCost}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Custo semanal"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Semana"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "R$"}),
	)
	bar.SetXAxis(labels).AddSeries("Custo semanal", weekly)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Custo acumulado"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Semana"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "R$"}),
	)
	line.SetXAxis(labels).AddSeries("Custo acumulado", cumulative)

	page := components.NewPage()
	page.PageTitle = "Curva financeira"
	page.AddCharts(bar, line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render cost chart: %w", err)
	}
	return nil
}
