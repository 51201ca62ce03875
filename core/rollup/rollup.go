// Package rollup regroups the weekly financial series of a calculation into
// weekly, monthly, quarterly or yearly periods and derives lead-time
// statistics.
package rollup

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/linebalance/core/calendar"
	"github.com/kilianp07/linebalance/core/finance"
	"github.com/kilianp07/linebalance/core/model"
)

// Unit is the bucket size of a rollup.
type Unit string

const (
	Weekly    Unit = "weekly"
	Monthly   Unit = "monthly"
	Quarterly Unit = "quarterly"
	Yearly    Unit = "yearly"
)

// ErrUnknownUnit is returned for unsupported bucket sizes.
var ErrUnknownUnit = errors.New("unknown time unit")

// ErrInvalidWeek is returned when a matrix cell carries a negative week index.
var ErrInvalidWeek = errors.New("invalid week index")

// Units lists the supported units in increasing size.
func Units() []Unit { return []Unit{Weekly, Monthly, Quarterly, Yearly} }

// ParseUnit accepts a unit name or its short form (week, month, quarter, year).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m", "":
		return Monthly, nil
	case "quarterly", "quarter", "q":
		return Quarterly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// WeekDetail is one week inside a period.
type WeekDetail struct {
	WeekIndex    int       `json:"weekIndex"`
	WeekLabel    string    `json:"weekLabel"`
	WeeklyCost   float64   `json:"weeklyCost"`
	ActiveHouses int       `json:"activeHouses"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// Period is one bucket of the rollup.
type Period struct {
	Label              string       `json:"period"`
	FullLabel          string       `json:"fullPeriod"`
	Key                string       `json:"periodKey"`
	Year               int          `json:"year"`
	Number             int          `json:"periodNumber"`
	PeriodCost         float64      `json:"periodCost"`
	CumulativeCost     float64      `json:"cumulativeCost"` // at the last week of the period
	HousesCompleted    int          `json:"housesCompleted"`
	ActiveDevelopments int          `json:"activeDevelopments"`
	Weeks              []WeekDetail `json:"weeklyDetails"`
}

func (p Period) empty() bool {
	return p.PeriodCost <= 0 && p.HousesCompleted == 0 && p.ActiveDevelopments == 0
}

// Metrics summarises a rollup.
type Metrics struct {
	TotalProjectCost     float64 `json:"totalProjectCost"`
	DurationPeriods      int     `json:"projectDurationPeriods"`
	DurationLabel        string  `json:"projectDurationLabel"`
	LeadTimeMin          int     `json:"leadTimeMin"`
	LeadTimeMax          int     `json:"leadTimeMax"`
	LeadTimeMean         float64 `json:"leadTimeMean"`
	LeadTimeStdDev       float64 `json:"leadTimeStdDev"`
	TotalHousesCompleted int     `json:"totalHousesCompleted"`
	AveragePeriodCost    float64 `json:"averagePeriodCost"`
	PeakPeriodCost       float64 `json:"peakPeriodCost"`
	PeakActiveHouses     int     `json:"peakActiveHouses"`
}

// Analytics is the result of Compute.
type Analytics struct {
	Unit    Unit     `json:"timeUnit"`
	Periods []Period `json:"temporalData"`
	Metrics Metrics  `json:"temporalMetrics"`
}

// Compute groups res.FinancialData by unit. Periods without cost, completions
// or activity are dropped; the rest are ordered by year then period number.
func Compute(res *model.CalculationResult, unit Unit) (Analytics, error) {
	unit, err := ParseUnit(string(unit))
	if err != nil {
		return Analytics{}, err
	}
	if err := checkWeeks(res.Matrix); err != nil {
		return Analytics{}, err
	}

	buckets := map[string]*Period{}
	for _, wk := range res.FinancialData {
		if wk.WeekIndex < 0 || wk.WeekIndex >= len(res.WeekDateMappings) {
			continue
		}
		wm := res.WeekDateMappings[wk.WeekIndex]
		info := periodOf(wm, unit)
		b, ok := buckets[info.Key]
		if !ok {
			b = &info
			buckets[info.Key] = b
		}
		b.PeriodCost += wk.WeeklyCost
		b.CumulativeCost = wk.CumulativeCost
		b.ActiveDevelopments = max(b.ActiveDevelopments, wk.ActiveHouses)
		b.Weeks = append(b.Weeks, WeekDetail{
			WeekIndex:    wk.WeekIndex,
			WeekLabel:    wk.WeekLabel,
			WeeklyCost:   wk.WeeklyCost,
			ActiveHouses: wk.ActiveHouses,
			StartDate:    wm.StartDate,
			EndDate:      wm.EndDate,
		})
	}

	for _, last := range lastWeeks(res.Matrix) {
		if last >= len(res.WeekDateMappings) {
			continue
		}
		if b, ok := buckets[periodOf(res.WeekDateMappings[last], unit).Key]; ok {
			b.HousesCompleted++
		}
	}

	periods := lo.Filter(lo.Map(lo.Values(buckets), func(p *Period, _ int) Period {
		p.PeriodCost = finance.Round2(p.PeriodCost)
		return *p
	}), func(p Period, _ int) bool { return !p.empty() })
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Number < periods[j].Number
	})

	return Analytics{
		Unit:    unit,
		Periods: periods,
		Metrics: summarize(res, periods, unit),
	}, nil
}

func summarize(res *model.CalculationResult, periods []Period, unit Unit) Metrics {
	m := Metrics{
		TotalProjectCost: res.Metadata.TotalProjectCost,
		DurationPeriods:  len(periods),
		DurationLabel:    DurationLabel(len(periods), unit),
	}
	if lt := LeadTimes(res.Matrix); len(lt) > 0 {
		m.LeadTimeMin = lo.Min(lt)
		m.LeadTimeMax = lo.Max(lt)
		xs := lo.Map(lt, func(v int, _ int) float64 { return float64(v) })
		m.LeadTimeMean = stat.Mean(xs, nil)
		if len(xs) > 1 {
			m.LeadTimeStdDev = stat.StdDev(xs, nil)
		}
	}
	if len(periods) == 0 {
		return m
	}
	m.TotalHousesCompleted = lo.SumBy(periods, func(p Period) int { return p.HousesCompleted })
	m.AveragePeriodCost = finance.Round2(lo.SumBy(periods, func(p Period) float64 { return p.PeriodCost }) / float64(len(periods)))
	m.PeakPeriodCost = lo.MaxBy(periods, func(a, b Period) bool { return a.PeriodCost > b.PeriodCost }).PeriodCost
	m.PeakActiveHouses = lo.MaxBy(periods, func(a, b Period) bool { return a.ActiveDevelopments > b.ActiveDevelopments }).ActiveDevelopments
	return m
}

// LeadTimes returns, for every house with at least one cell, the number of
// weeks between its first and last cell inclusive.
func LeadTimes(matrix [][]model.MatrixCell) []int {
	out := make([]int, 0, len(matrix))
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		first, last := row[0].WeekIndex, row[0].WeekIndex
		for _, c := range row[1:] {
			first = min(first, c.WeekIndex)
			last = max(last, c.WeekIndex)
		}
		out = append(out, last-first+1)
	}
	return out
}

func checkWeeks(matrix [][]model.MatrixCell) error {
	for h, row := range matrix {
		for _, c := range row {
			if c.WeekIndex < 0 {
				return fmt.Errorf("%w: house %d has week %d", ErrInvalidWeek, h+1, c.WeekIndex)
			}
		}
	}
	return nil
}

// lastWeeks returns the last week index of every non-empty house row.
func lastWeeks(matrix [][]model.MatrixCell) []int {
	out := make([]int, 0, len(matrix))
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		out = append(out, lo.MaxBy(row, func(a, b model.MatrixCell) bool { return a.WeekIndex > b.WeekIndex }).WeekIndex)
	}
	return out
}

func periodOf(wm model.WeekDateMapping, unit Unit) Period {
	year := wm.Year
	month := wm.MonthNumber
	if month < 1 || month > 12 {
		month = calendar.MonthNumber(wm.Month)
	}
	name := calendar.MonthName(time.Month(month))
	switch unit {
	case Weekly:
		n := wm.WeekIndex + 1
		return Period{
			Key:       fmt.Sprintf("%d-W%02d", year, n),
			Label:     fmt.Sprintf("Sem %d", n),
			FullLabel: fmt.Sprintf("Semana %d - %s", n, wm.StartDate.Format("02/01/2006")),
			Year:      year,
			Number:    n,
		}
	case Quarterly:
		q := (month + 2) / 3
		return Period{
			Key:       fmt.Sprintf("%d-Q%d", year, q),
			Label:     fmt.Sprintf("%d-Q%d", year, q),
			FullLabel: fmt.Sprintf("%dº Trimestre %d", q, year),
			Year:      year,
			Number:    q,
		}
	case Yearly:
		return Period{
			Key:       fmt.Sprintf("%d", year),
			Label:     fmt.Sprintf("%d", year),
			FullLabel: fmt.Sprintf("Ano %d", year),
			Year:      year,
			Number:    1,
		}
	default:
		return Period{
			Key:       fmt.Sprintf("%d-%02d", year, month),
			Label:     fmt.Sprintf("%s/%02d", string([]rune(name)[:3]), year%100),
			FullLabel: fmt.Sprintf("%s %d", name, year),
			Year:      year,
			Number:    month,
		}
	}
}

// DurationLabel renders a period count in Portuguese, e.g. "12 meses".
func DurationLabel(n int, unit Unit) string {
	singular, plural := "período", "períodos"
	switch unit {
	case Weekly:
		singular, plural = "semana", "semanas"
	case Monthly:
		singular, plural = "mês", "meses"
	case Quarterly:
		singular, plural = "trimestre", "trimestres"
	case Yearly:
		singular, plural = "ano", "anos"
	}
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
