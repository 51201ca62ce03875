// Package learning models the learning curve of a work package: throughput
// ramps up and per-house duration ramps down during the package's first
// weeks of execution.
package learning

import (
	"math"

	"github.com/kilianp07/linebalance/core/model"
)

// Curve evaluates a model.LearningCurve. Zero-valued parameters fall back to
// the defaults of model.DefaultLearningCurve.
type Curve struct {
	RhythmReducer       float64
	Increment           float64
	PeriodWeeks         int
	// DurationFactor scales durations during the first DurationImpactWeeks.
	DurationFactor      float64
	DurationImpactWeeks int
	// MinRhythm is the lowest positive rhythm returned while base > 0.
	MinRhythm int

	applied map[string]struct{}
}

// New builds a Curve from the project parameters.
func New(lc model.LearningCurve, minRhythm int) Curve {
	def := model.DefaultLearningCurve()
	c := Curve{
		RhythmReducer:       orDefault(lc.RhythmReducer, def.RhythmReducer),
		Increment:           orDefault(lc.Increment, def.Increment),
		PeriodWeeks:         lc.PeriodWeeks,
		DurationFactor:      orDefault(lc.DurationMultiplier, def.DurationMultiplier),
		DurationImpactWeeks: lc.DurationImpactWeeks,
		MinRhythm:           max(minRhythm, 1),
	}
	if c.PeriodWeeks <= 0 {
		c.PeriodWeeks = def.PeriodWeeks
	}
	if c.DurationImpactWeeks <= 0 {
		c.DurationImpactWeeks = def.DurationImpactWeeks
	}
	if len(lc.AppliedPackages) > 0 {
		c.applied = make(map[string]struct{}, len(lc.AppliedPackages))
		for _, n := range lc.AppliedPackages {
			c.applied[n] = struct{}{}
		}
	}
	return c
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Applies reports whether the curve affects the named package.
func (c Curve) Applies(pkg string) bool {
	if len(c.applied) == 0 {
		return true
	}
	_, ok := c.applied[pkg]
	return ok
}

// RhythmMultiplier returns the throughput fraction after the given number
// of productive weeks since the package first started.
func (c Curve) RhythmMultiplier(weeksProductive int) float64 {
	switch {
	case weeksProductive < c.PeriodWeeks:
		return c.RhythmReducer
	case weeksProductive < 2*c.PeriodWeeks:
		return c.RhythmReducer + c.Increment
	default:
		return 1.0
	}
}

// DurationMultiplier returns the duration factor after the given number of
// productive weeks of the package's own execution.
func (c Curve) DurationMultiplier(weeksIntoPackage int) float64 {
	if weeksIntoPackage < c.DurationImpactWeeks {
		return c.DurationFactor
	}
	return 1.0
}

// Rhythm returns the number of houses allowed to start this week. factor is
// the calendar factor of the week: 1 for normal weeks, 0 for stops and the
// reduction coefficient otherwise. The learning and reduction limits combine
// by minimum.
func (c Curve) Rhythm(base, weeksProductive int, factor float64) int {
	if base <= 0 || factor <= 0 {
		return 0
	}
	r := int(math.Round(float64(base) * c.RhythmMultiplier(weeksProductive)))
	if factor < 1 {
		reduced := max(1, int(math.Floor(float64(base)*factor)))
		r = min(r, reduced)
	}
	return max(c.MinRhythm, r)
}

// Duration returns the whole number of productive weeks one house needs for
// a package of the given nominal duration. It is never below one week.
func (c Curve) Duration(nominal float64, weeksIntoPackage int) int {
	return NominalWeeks(nominal * c.DurationMultiplier(weeksIntoPackage))
}

// NominalWeeks rounds a fractional duration up to whole weeks, ignoring
// floating point noise below 1e-9.
func NominalWeeks(d float64) int {
	return max(1, int(math.Ceil(d-1e-9)))
}
