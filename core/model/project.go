package model

import (
	"fmt"
	"strings"
	"time"
)

// WorkPackage is one stage of the construction sequence executed in every
// house. Packages are executed in declaration order.
type WorkPackage struct {
	Name string `json:"name" yaml:"name"`
	// Duration is the nominal number of weeks one house needs for the package.
	Duration float64 `json:"duration" yaml:"duration"`
	// Rhythm is the number of houses allowed to start the package per week.
	Rhythm int `json:"rhythm" yaml:"rhythm"`
	// Latency is the number of idle weeks a house waits after finishing the
	// package before the next one may start.
	Latency int `json:"latency" yaml:"latency"`
	// Cost is the total cost of the package across all houses.
	Cost  float64 `json:"cost" yaml:"cost"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// StopPeriod halts every new start during a recurring calendar month.
type StopPeriod struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Month       string `json:"month" yaml:"month"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Coefficient is always zero for a stop period.
func (StopPeriod) Coefficient() float64 { return 0 }

// PartialReductionPeriod lowers new-start throughput during a recurring
// calendar month. Coefficient lies in (0,1).
type PartialReductionPeriod struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Month       string  `json:"month" yaml:"month"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// LearningCurve describes the throughput ramp-up and duration ramp-down of
// packages during their first weeks of execution.
type LearningCurve struct {
	RhythmReducer       float64 `json:"rhythmReducer" yaml:"rhythmReducer"`
	Increment           float64 `json:"increment" yaml:"increment"`
	PeriodWeeks         int     `json:"periodWeeks" yaml:"periodWeeks"`
	DurationMultiplier  float64 `json:"durationMultiplier" yaml:"durationMultiplier"`
	DurationImpactWeeks int     `json:"durationImpactWeeks,omitempty" yaml:"durationImpactWeeks,omitempty"`
	// AppliedPackages restricts the curve to the named packages. Empty means all.
	AppliedPackages []string `json:"appliedPackages,omitempty" yaml:"appliedPackages,omitempty"`
}

// ProjectData is the complete input of a baseline calculation.
type ProjectData struct {
	HousesCount             int                      `json:"housesCount" yaml:"housesCount"`
	StartDate               string                   `json:"startDate" yaml:"startDate"`
	WorkPackages            []WorkPackage            `json:"workPackages" yaml:"workPackages"`
	StopPeriods             []StopPeriod             `json:"stopPeriods" yaml:"stopPeriods"`
	PartialReductionPeriods []PartialReductionPeriod `json:"partialReductionPeriods" yaml:"partialReductionPeriods"`
	LearningCurve           LearningCurve            `json:"learningCurve" yaml:"learningCurve"`
}

var startDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// ParseStartDate converts the textual start date to a UTC calendar day.
func ParseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("start date is empty")
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised start date %q", s)
}

// PackageIndex returns the declaration index of the named package or -1.
func (p ProjectData) PackageIndex(name string) int {
	for i, pkg := range p.WorkPackages {
		if pkg.Name == name {
			return i
		}
	}
	return -1
}

// WithColors returns a copy of the packages where missing colours are
// filled from the palette.
func WithColors(pkgs []WorkPackage) []WorkPackage {
	out := make([]WorkPackage, len(pkgs))
	copy(out, pkgs)
	for i := range out {
		if out[i].Color == "" {
			out[i].Color = PackageColor(i)
		}
	}
	return out
}
