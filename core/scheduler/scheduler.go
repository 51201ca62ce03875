package scheduler

import (
	"math"

	"github.com/kilianp07/linebalance/core/calendar"
	"github.com/kilianp07/linebalance/core/learning"
	"github.com/kilianp07/linebalance/core/model"
)

const (
	// StopOpacity marks cells stalled by a full stop.
	StopOpacity = 0.1
	// MinReductionOpacity is the lowest opacity of a reduced cell.
	MinReductionOpacity = 0.2
)

// Schedule is the output of one scheduling run.
type Schedule struct {
	// Matrix holds one row per house (0-based); rows are ordered by week.
	Matrix [][]model.MatrixCell
	// TotalWeeks is the last occupied week index plus one.
	TotalWeeks int
	// Complete reports whether every house started the last package and no
	// block was cut short by the horizon.
	Complete bool
	// WeeksSimulated is the number of loop iterations executed.
	WeeksSimulated int
	// Starts[k] maps a week index to the number of houses starting package k.
	Starts []map[int]int
	// FirstStart[k] is the first week package k started, -1 if it never did.
	FirstStart []int
}

// Scheduler builds baseline schedules. It holds no per-run state and is safe
// for concurrent use.
type Scheduler struct {
	cfg Config
}

// New returns a Scheduler using cfg, with zero limits replaced by defaults.
func New(cfg Config) *Scheduler {
	cfg.SetDefaults()
	return &Scheduler{cfg: cfg}
}

// Config returns the limits used by the scheduler.
func (s *Scheduler) Config() Config { return s.cfg }

// Run schedules every house of p over the given week horizon. The input is
// assumed valid. When the horizon or the safety cap ends the loop early the
// partial schedule is returned with Complete set to false.
func (s *Scheduler) Run(p model.ProjectData, weeks []model.WeekDateMapping) Schedule {
	tl := calendar.NewTimeline(weeks, calendar.NewResolver(p.StopPeriods, p.PartialReductionPeriods))
	curve := learning.New(p.LearningCurve, s.cfg.MinRhythmPerWeek)
	pkgs := model.WithColors(p.WorkPackages)
	st := newState(p.HousesCount, len(pkgs))

	week := 0
	for ; week < tl.Len(); week++ {
		active := false
		for k := range pkgs {
			if s.admit(st, tl, curve, pkgs, k, week) {
				active = true
			}
		}
		if st.finished() {
			week++
			break
		}
		if !active && week+1 > s.cfg.MaxSafetyWeeks {
			week++
			break
		}
	}

	return Schedule{
		Matrix:         st.matrix,
		TotalWeeks:     st.lastWeek + 1,
		Complete:       st.finished() && !st.cut,
		WeeksSimulated: week,
		Starts:         st.starts,
		FirstStart:     st.firstStart,
	}
}

// admit starts the next block of houses on package k in the given week and
// reports whether any house started.
func (s *Scheduler) admit(st *state, tl *calendar.Timeline, curve learning.Curve, pkgs []model.WorkPackage, k, week int) bool {
	ex := tl.At(week)
	if ex.Kind == calendar.Stop {
		return false
	}
	if st.next[k] >= st.houses {
		return false
	}
	pkg := pkgs[k]
	applies := curve.Applies(pkg.Name)

	var rhythm int
	if applies {
		productive := 0
		if st.firstStart[k] >= 0 {
			productive = tl.ProductiveWeeks(st.firstStart[k], week)
		}
		rhythm = curve.Rhythm(pkg.Rhythm, productive, ex.Factor())
	} else {
		rhythm = ex.Throttle(pkg.Rhythm, curve.MinRhythm)
	}
	if rhythm <= 0 {
		return false
	}

	latency := 0
	if k > 0 {
		latency = pkgs[k-1].Latency
	}
	block := st.eligible(k, week, rhythm, latency)
	if block == 0 {
		return false
	}

	if st.firstStart[k] < 0 {
		st.firstStart[k] = week
	}
	base := learning.NominalWeeks(pkg.Duration)
	if applies {
		base = curve.Duration(pkg.Duration, tl.ProductiveWeeks(st.firstStart[k], week))
	}
	span := tl.Span(week, base)
	if tl.ProductiveWeeks(week, week+span) < base {
		st.cut = true
	}
	cells := packageCells(pkg, week, span, base, st.houses, tl)
	end := week + span - 1

	first := st.next[k]
	for h := first; h < first+block; h++ {
		st.start[h][k] = week
		st.end[h][k] = end
		row := make([]model.MatrixCell, len(cells))
		for i, c := range cells {
			c.HouseNumber = h + 1
			row[i] = c
		}
		st.matrix[h] = append(st.matrix[h], row...)
	}
	st.next[k] = first + block
	st.starts[k][week] = block
	st.lastWeek = max(st.lastWeek, end)
	return true
}

// packageCells builds the cells of one house for a package started at week.
// Stop weeks are stalled cells without cost; every productive week carries
// cost/houses/base, reduced or not.
func packageCells(pkg model.WorkPackage, week, span, base, houses int, tl *calendar.Timeline) []model.MatrixCell {
	perWeek := 0.0
	if houses > 0 && base > 0 {
		perWeek = pkg.Cost / float64(houses) / float64(base)
	}
	cells := make([]model.MatrixCell, 0, span)
	for w := week; w < week+span; w++ {
		c := model.MatrixCell{
			WeekIndex:   w,
			PackageName: pkg.Name,
			Color:       pkg.Color,
		}
		ex := tl.At(w)
		switch ex.Kind {
		case calendar.Stop:
			c.IsReduced = true
			c.ReductionOpacity = StopOpacity
		case calendar.Reduction:
			c.IsReduced = true
			c.ReductionOpacity = math.Max(MinReductionOpacity, ex.Coefficient)
			c.Cost = perWeek
		default:
			c.Cost = perWeek
		}
		cells = append(cells, c)
	}
	return cells
}
