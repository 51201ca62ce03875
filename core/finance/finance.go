// Package finance turns a schedule matrix into a weekly cost series.
package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/linebalance/core/model"
)

// Round2 rounds v to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate builds one FinancialWeekData per mapped week. Weekly, cumulative
// and per-package costs are rounded to two decimals; the running total is
// accumulated unrounded. Cells outside the mapping are ignored.
func Aggregate(matrix [][]model.MatrixCell, weeks []model.WeekDateMapping, pkgs []model.WorkPackage) []model.FinancialWeekData {
	n := len(weeks)
	weekly := make([]float64, n)
	active := make([]int, n)
	byPkg := make([]map[string]float64, n)
	for w := range byPkg {
		byPkg[w] = make(map[string]float64, len(pkgs))
		for _, p := range pkgs {
			byPkg[w][p.Name] = 0
		}
	}

	for _, row := range matrix {
		counted := -1
		for _, c := range row {
			w := c.WeekIndex
			if w < 0 || w >= n {
				continue
			}
			weekly[w] += c.Cost
			byPkg[w][c.PackageName] += c.Cost
			// rows are ordered by week, so one mark per house is enough
			if counted != w {
				active[w]++
				counted = w
			}
		}
	}

	out := make([]model.FinancialWeekData, n)
	cumulative := 0.0
	for w, wm := range weeks {
		cumulative += weekly[w]
		costs := byPkg[w]
		for name, v := range costs {
			costs[name] = Round2(v)
		}
		out[w] = model.FinancialWeekData{
			WeekIndex:      w,
			WeekLabel:      wm.WeekLabel,
			WeeklyCost:     Round2(weekly[w]),
			CumulativeCost: Round2(cumulative),
			ActiveHouses:   active[w],
			PackageCosts:   costs,
		}
	}
	return out
}

// TotalCost returns the cumulative cost of the last week, or 0 for an empty
// series.
func TotalCost(series []model.FinancialWeekData) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].CumulativeCost
}

// MatrixCost sums every cell of the matrix without rounding.
func MatrixCost(matrix [][]model.MatrixCell) float64 {
	costs := make([]float64, 0, len(matrix))
	for _, row := range matrix {
		for _, c := range row {
			costs = append(costs, c.Cost)
		}
	}
	return floats.Sum(costs)
}

// DeclaredCost sums the declared cost of every package.
func DeclaredCost(pkgs []model.WorkPackage) float64 {
	costs := make([]float64, len(pkgs))
	for i, p := range pkgs {
		costs[i] = p.Cost
	}
	return floats.Sum(costs)
}

// PackageTotals returns the rounded total cost per package across the series.
func PackageTotals(series []model.FinancialWeekData) map[string]float64 {
	out := map[string]float64{}
	for _, wk := range series {
		for name, v := range wk.PackageCosts {
			out[name] += v
		}
	}
	for name, v := range out {
		out[name] = Round2(v)
	}
	return out
}
