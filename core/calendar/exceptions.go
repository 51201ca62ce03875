package calendar

import (
	"math"
	"time"

	"github.com/kilianp07/linebalance/core/model"
)

// Coefficient bounds applied to partial reductions.
const (
	MinReductionCoefficient = 0.01
	MaxReductionCoefficient = 0.99
)

// Kind classifies a week.
type Kind int

const (
	// Normal weeks run at full base rhythm.
	Normal Kind = iota
	// Stop weeks allow no new start and make no progress.
	Stop
	// Reduction weeks cap new starts with a coefficient.
	Reduction
)

func (k Kind) String() string {
	switch k {
	case Stop:
		return "stop"
	case Reduction:
		return "reduction"
	default:
		return "normal"
	}
}

// Exception is the calendar rule applying to one week.
type Exception struct {
	Kind        Kind
	Coefficient float64
	Description string
}

// Factor returns 1 for normal weeks, 0 for stops and the coefficient for
// reductions.
func (e Exception) Factor() float64 {
	switch e.Kind {
	case Stop:
		return 0
	case Reduction:
		return e.Coefficient
	default:
		return 1
	}
}

// Throttle returns the calendar-adjusted rhythm for a base rhythm, without
// any learning effect. A positive result is never below minRhythm (at
// least 1).
func (e Exception) Throttle(base, minRhythm int) int {
	if base <= 0 || e.Kind == Stop {
		return 0
	}
	r := base
	if e.Kind == Reduction {
		r = int(math.Floor(float64(base) * e.Coefficient))
	}
	return max(minRhythm, 1, r)
}

// Resolver looks up the exception of a calendar month.
type Resolver struct {
	stops      map[time.Month]model.StopPeriod
	reductions map[time.Month]model.PartialReductionPeriod
	unknown    []string
}

// NewResolver indexes the periods by month. Periods whose month cannot be
// recognised are reported by Unknown and never match.
func NewResolver(stops []model.StopPeriod, reductions []model.PartialReductionPeriod) *Resolver {
	r := &Resolver{
		stops:      make(map[time.Month]model.StopPeriod, len(stops)),
		reductions: make(map[time.Month]model.PartialReductionPeriod, len(reductions)),
	}
	for _, s := range stops {
		m, ok := ParseMonth(s.Month)
		if !ok {
			r.unknown = append(r.unknown, s.Month)
			continue
		}
		if _, dup := r.stops[m]; !dup {
			r.stops[m] = s
		}
	}
	for _, p := range reductions {
		m, ok := ParseMonth(p.Month)
		if !ok {
			r.unknown = append(r.unknown, p.Month)
			continue
		}
		if _, dup := r.reductions[m]; !dup {
			r.reductions[m] = p
		}
	}
	return r
}

// Unknown lists the month names that matched no calendar month.
func (r *Resolver) Unknown() []string { return r.unknown }

// Resolve returns the exception for a month name. Stops win over reductions.
func (r *Resolver) Resolve(month string) Exception {
	m, ok := ParseMonth(month)
	if !ok {
		return Exception{Kind: Normal, Coefficient: 1}
	}
	return r.ForMonth(m)
}

// ForMonth returns the exception for a calendar month.
func (r *Resolver) ForMonth(m time.Month) Exception {
	if s, ok := r.stops[m]; ok {
		return Exception{Kind: Stop, Coefficient: 0, Description: s.Description}
	}
	if p, ok := r.reductions[m]; ok {
		c := math.Min(MaxReductionCoefficient, math.Max(MinReductionCoefficient, p.Coefficient))
		return Exception{Kind: Reduction, Coefficient: c, Description: p.Description}
	}
	return Exception{Kind: Normal, Coefficient: 1}
}

// Timeline holds the exception of every mapped week and answers
// productive-week queries in constant time.
type Timeline struct {
	exceptions []Exception
	// productive[i] counts the non-stop weeks in [0,i).
	productive []int
}

// NewTimeline resolves every week of the mapping once.
func NewTimeline(weeks []model.WeekDateMapping, r *Resolver) *Timeline {
	t := &Timeline{
		exceptions: make([]Exception, len(weeks)),
		productive: make([]int, len(weeks)+1),
	}
	for i, w := range weeks {
		t.exceptions[i] = r.ForMonth(time.Month(w.MonthNumber))
		t.productive[i+1] = t.productive[i]
		if t.exceptions[i].Kind != Stop {
			t.productive[i+1]++
		}
	}
	return t
}

// Len returns the number of weeks in the timeline.
func (t *Timeline) Len() int { return len(t.exceptions) }

// At returns the exception of week w. Weeks outside the horizon are normal.
func (t *Timeline) At(w int) Exception {
	if w < 0 || w >= len(t.exceptions) {
		return Exception{Kind: Normal, Coefficient: 1}
	}
	return t.exceptions[w]
}

// IsStop reports whether week w is a full stop.
func (t *Timeline) IsStop(w int) bool { return t.At(w).Kind == Stop }

// ProductiveWeeks counts the non-stop weeks in [from, to), clipped to the horizon.
func (t *Timeline) ProductiveWeeks(from, to int) int {
	from = min(max(from, 0), len(t.exceptions))
	to = min(max(to, 0), len(t.exceptions))
	if to <= from {
		return 0
	}
	return t.productive[to] - t.productive[from]
}

// Span returns how many calendar weeks starting at start are needed to
// accumulate the given number of productive weeks. Stop weeks add calendar
// time without consuming work. The span is cut at the horizon.
func (t *Timeline) Span(start, productive int) int {
	w := start
	done := 0
	for done < productive && w < len(t.exceptions) {
		if t.exceptions[w].Kind != Stop {
			done++
		}
		w++
	}
	return w - start
}
