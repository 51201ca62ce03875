// Package calendar maps a project start date onto week indexes and resolves
// the recurring monthly exceptions (stops and partial reductions) that apply
// to each week.
package calendar

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kilianp07/linebalance/core/model"
)

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthIndex = func() map[string]time.Month {
	m := make(map[string]time.Month, 36)
	for i, n := range monthNames {
		month := time.Month(i + 1)
		m[foldMonth(n)] = month
		m[foldMonth(month.String())] = month
		m[foldMonth(month.String()[:3])] = month
	}
	return m
}()

// foldMonth lower-cases s and strips diacritics so "Março", "MARCO" and
// "março" compare equal.
func foldMonth(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// MonthName returns the Portuguese name used in week mappings.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ParseMonth recognises Portuguese or English month names, three-letter
// English abbreviations and month numbers, ignoring case and accents.
func ParseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	m, ok := monthIndex[foldMonth(s)]
	return m, ok
}

// MonthNumber returns 1..12 for a month name, or 1 when it is unknown.
func MonthNumber(name string) int {
	if m, ok := ParseMonth(name); ok {
		return int(m)
	}
	return 1
}

// Mapper generates the week sequence of a calculation.
type Mapper struct {
	// MinWeeks is the lower bound of the generated horizon.
	MinWeeks int
	// Multiplier widens the naive horizon estimate.
	Multiplier int
	// MaxWeeks caps the horizon; zero leaves it unbounded.
	MaxWeeks int
}

// EstimateWeeks returns a generous horizon for the schedule:
// max(MinWeeks, (ceil(houses/minRhythm) + sum(duration+latency)) * Multiplier),
// capped at MaxWeeks when it is set.
func (m Mapper) EstimateWeeks(houses int, pkgs []model.WorkPackage) int {
	if len(pkgs) == 0 {
		return m.clamp(m.MinWeeks)
	}
	total := 0.0
	minRhythm := math.MaxInt
	for _, p := range pkgs {
		total += p.Duration + float64(p.Latency)
		if p.Rhythm < minRhythm {
			minRhythm = p.Rhythm
		}
	}
	if minRhythm <= 0 {
		minRhythm = 1
	}
	base := math.Ceil(float64(houses)/float64(minRhythm)) + total
	mult := m.Multiplier
	if mult <= 0 {
		mult = 1
	}
	est := math.Ceil(base * float64(mult))
	if m.MaxWeeks > 0 && (est > float64(m.MaxWeeks) || math.IsNaN(est)) {
		return m.MaxWeeks
	}
	if est < float64(m.MinWeeks) {
		return m.clamp(m.MinWeeks)
	}
	return int(est)
}

func (m Mapper) clamp(n int) int {
	if m.MaxWeeks > 0 && n > m.MaxWeeks {
		return m.MaxWeeks
	}
	return n
}

// Map builds one WeekDateMapping per week of the estimated horizon.
func (m Mapper) Map(start time.Time, houses int, pkgs []model.WorkPackage) []model.WeekDateMapping {
	n := m.EstimateWeeks(houses, pkgs)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	weeks := make([]model.WeekDateMapping, n)
	for i := range weeks {
		ws := start.AddDate(0, 0, 7*i)
		weeks[i] = model.WeekDateMapping{
			WeekIndex:   i,
			StartDate:   ws,
			EndDate:     ws.AddDate(0, 0, 6),
			WeekLabel:   model.WeekLabel(i),
			Month:       MonthName(ws.Month()),
			MonthNumber: int(ws.Month()),
			Year:        ws.Year(),
		}
	}
	return weeks
}
