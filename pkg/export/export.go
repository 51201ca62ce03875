// Package export writes calculation results as CSV grids, JSON and HTML
// charts, and reads matrix grids back for spreadsheet round-tripping.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/rollup"
)

// HouseHeader is the first header cell of a matrix grid.
const HouseHeader = "Casa"

// Grid is a matrix export: Cells[h][w] is the package of Houses[h] in
// Weeks[w], or empty.
type Grid struct {
	Weeks  []string
	Houses []int
	Cells  [][]string
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteMatrixCSV writes one row per house and one column per week.
func WriteMatrixCSV(w io.Writer, res *model.CalculationResult) error {
	cw := csv.NewWriter(w)
	header := append([]string{HouseHeader}, res.Weeks...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, house := range res.Houses {
		rec := make([]string, len(res.Weeks)+1)
		rec[0] = strconv.Itoa(house)
		if i < len(res.Matrix) {
			for _, c := range res.Matrix[i] {
				if c.WeekIndex >= 0 && c.WeekIndex < len(res.Weeks) {
					rec[c.WeekIndex+1] = c.PackageName
				}
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatrixCSV parses a grid written by WriteMatrixCSV.
func ReadMatrixCSV(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return Grid{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || header[0] != HouseHeader {
		return Grid{}, fmt.Errorf("unexpected header %q", header)
	}
	g := Grid{Weeks: header[1:]}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Grid{}, fmt.Errorf("line %d: %w", line, err)
		}
		house, err := strconv.Atoi(rec[0])
		if err != nil {
			return Grid{}, fmt.Errorf("line %d: invalid house %q", line, rec[0])
		}
		g.Houses = append(g.Houses, house)
		g.Cells = append(g.Cells, rec[1:])
	}
	return g, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteFinancialCSV writes the weekly series with one cost column per
// package, in the order given.
func WriteFinancialCSV(w io.Writer, series []model.FinancialWeekData, packages []string) error {
	cw := csv.NewWriter(w)
	header := append([]string{"week_index", "week_label", "weekly_cost", "cumulative_cost", "active_houses"}, packages...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, wk := range series {
		rec := []string{
			strconv.Itoa(wk.WeekIndex),
			wk.WeekLabel,
			money(wk.WeeklyCost),
			money(wk.CumulativeCost),
			strconv.Itoa(wk.ActiveHouses),
		}
		for _, p := range packages {
			rec = append(rec, money(wk.PackageCosts[p]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRollupCSV writes one row per period.
func WriteRollupCSV(w io.Writer, a rollup.Analytics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period_key", "period", "full_period", "period_cost", "cumulative_cost", "houses_completed", "active_developments"}); err != nil {
		return err
	}
	for _, p := range a.Periods {
		rec := []string{
			p.Key,
			p.Label,
			p.FullLabel,
			money(p.PeriodCost),
			money(p.CumulativeCost),
			strconv.Itoa(p.HousesCompleted),
			strconv.Itoa(p.ActiveDevelopments),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
