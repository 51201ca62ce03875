package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/core/calendar"
	"github.com/kilianp07/linebalance/core/model"
)

func threePackageProject() model.ProjectData {
	return model.ProjectData{
		HousesCount: 116,
		StartDate:   "2026-04-06",
		WorkPackages: []model.WorkPackage{
			{Name: "Pré-Obra", Duration: 2, Rhythm: 10, Latency: 4, Cost: 116000},
			{Name: "Estacas", Duration: 1, Rhythm: 12, Cost: 58000},
			{Name: "Infra", Duration: 1, Rhythm: 12},
		},
		LearningCurve: model.DefaultLearningCurve(),
	}
}

func horizon(t *testing.T, p model.ProjectData) []model.WeekDateMapping {
	t.Helper()
	start, err := model.ParseStartDate(p.StartDate)
	require.NoError(t, err)
	m := calendar.Mapper{MinWeeks: 200, Multiplier: 3}
	return m.Map(start, p.HousesCount, p.WorkPackages)
}

type span struct{ first, last int }

func packageSpans(row []model.MatrixCell) map[string]span {
	out := map[string]span{}
	for _, c := range row {
		s, ok := out[c.PackageName]
		if !ok {
			s = span{first: c.WeekIndex, last: c.WeekIndex}
		}
		s.first = min(s.first, c.WeekIndex)
		s.last = max(s.last, c.WeekIndex)
		out[c.PackageName] = s
	}
	return out
}

func startsAt(starts map[int]int, from, to int) []int {
	var out []int
	for w := from; w <= to; w++ {
		out = append(out, starts[w])
	}
	return out
}

func TestRunLearningCurveScenario(t *testing.T) {
	p := threePackageProject()
	s := New(DefaultConfig()).Run(p, horizon(t, p))

	require.True(t, s.Complete)
	assert.Equal(t, 23, s.TotalWeeks)
	require.Len(t, s.Matrix, 116)

	assert.Equal(t, []int{6, 6, 6, 6, 8, 8, 8, 8, 10, 10, 10, 10, 10, 10}, startsAt(s.Starts[0], 0, 13))
	assert.Equal(t, []int{6, 6, 6, 6, 8, 10, 10, 10, 12, 12, 12, 12, 6}, startsAt(s.Starts[1], 8, 20))
	assert.Equal(t, []int{6, 6, 6, 6, 8, 10, 10, 10, 12, 12, 12, 12, 6}, startsAt(s.Starts[2], 10, 22))
	assert.Equal(t, []int{0, 8, 10}, s.FirstStart)

	first := packageSpans(s.Matrix[0])
	assert.Equal(t, span{0, 3}, first["Pré-Obra"])
	assert.Equal(t, span{8, 9}, first["Estacas"])
	assert.Equal(t, span{10, 11}, first["Infra"])

	h48 := packageSpans(s.Matrix[47])
	assert.Equal(t, span{6, 7}, h48["Pré-Obra"])
	assert.Equal(t, span{14, 14}, h48["Estacas"])
	assert.Equal(t, span{16, 16}, h48["Infra"])

	last := packageSpans(s.Matrix[115])
	assert.Equal(t, span{13, 14}, last["Pré-Obra"])
	assert.Equal(t, span{20, 20}, last["Estacas"])
	assert.Equal(t, span{22, 22}, last["Infra"])

	c := s.Matrix[0][0]
	assert.Equal(t, 1, c.HouseNumber)
	assert.Equal(t, model.PackageColor(0), c.Color)
	assert.False(t, c.IsReduced)
	assert.InDelta(t, 250.0, c.Cost, 1e-9)
	assert.InDelta(t, 500.0, s.Matrix[47][0].Cost, 1e-9)
}

func TestRunPrecedenceAndNoOverlap(t *testing.T) {
	p := threePackageProject()
	s := New(DefaultConfig()).Run(p, horizon(t, p))

	for h, row := range s.Matrix {
		for i := 1; i < len(row); i++ {
			if row[i].WeekIndex <= row[i-1].WeekIndex {
				t.Fatalf("house %d: week %d follows week %d", h+1, row[i].WeekIndex, row[i-1].WeekIndex)
			}
		}
		spans := packageSpans(row)
		for k := 1; k < len(p.WorkPackages); k++ {
			prev := spans[p.WorkPackages[k-1].Name]
			cur := spans[p.WorkPackages[k].Name]
			if cur.first < prev.last+1+p.WorkPackages[k-1].Latency {
				t.Fatalf("house %d: %s starts at %d before %s is released", h+1, p.WorkPackages[k].Name, cur.first, p.WorkPackages[k-1].Name)
			}
		}
	}
	// houses start each package in order
	for k, pkg := range p.WorkPackages {
		prev := -1
		for h, row := range s.Matrix {
			st := packageSpans(row)[pkg.Name].first
			if st < prev {
				t.Fatalf("package %d: house %d starts at %d before house %d", k, h+1, st, h)
			}
			prev = st
		}
	}
}

func TestRunCostIsConserved(t *testing.T) {
	p := threePackageProject()
	s := New(DefaultConfig()).Run(p, horizon(t, p))
	total := 0.0
	perHouse := map[string]float64{}
	for _, row := range s.Matrix {
		for _, c := range row {
			total += c.Cost
			if c.HouseNumber == 60 {
				perHouse[c.PackageName] += c.Cost
			}
		}
	}
	assert.InDelta(t, 174000.0, total, 1e-6)
	assert.InDelta(t, 1000.0, perHouse["Pré-Obra"], 1e-9)
	assert.InDelta(t, 500.0, perHouse["Estacas"], 1e-9)
	assert.Equal(t, 0.0, perHouse["Infra"])
}

func TestRunIsDeterministic(t *testing.T) {
	p := threePackageProject()
	weeks := horizon(t, p)
	s := New(DefaultConfig())
	assert.Equal(t, s.Run(p, weeks), s.Run(p, weeks))
}

func stopProject() model.ProjectData {
	return model.ProjectData{
		HousesCount: 20,
		StartDate:   "2026-11-02",
		WorkPackages: []model.WorkPackage{
			{Name: "Fundação", Duration: 2, Rhythm: 5, Cost: 1000},
			{Name: "Alvenaria", Duration: 1, Rhythm: 5, Latency: 1, Cost: 500},
		},
		StopPeriods:             []model.StopPeriod{{ID: "s1", Month: "dezembro"}},
		PartialReductionPeriods: []model.PartialReductionPeriod{{ID: "r1", Month: "janeiro", Coefficient: 0.5}},
		LearningCurve:           model.LearningCurve{AppliedPackages: []string{"none"}},
	}
}

func TestRunStopsAndReductions(t *testing.T) {
	p := stopProject()
	s := New(DefaultConfig()).Run(p, horizon(t, p))

	require.True(t, s.Complete)
	assert.Equal(t, 12, s.TotalWeeks)
	assert.Equal(t, map[int]int{0: 5, 1: 5, 2: 5, 3: 5}, s.Starts[0])
	// December (weeks 5-8) admits nobody, January halves the rhythm
	assert.Equal(t, map[int]int{2: 5, 3: 5, 4: 5, 9: 2, 10: 2, 11: 1}, s.Starts[1])

	for _, row := range s.Matrix {
		for _, c := range row {
			if c.WeekIndex >= 5 && c.WeekIndex <= 8 {
				t.Fatalf("house %d works in stopped week %d", c.HouseNumber, c.WeekIndex)
			}
			assert.InDelta(t, 25.0, c.Cost, 1e-9)
		}
	}

	row := s.Matrix[15]
	require.Len(t, row, 3)
	assert.Equal(t, 9, row[2].WeekIndex)
	assert.True(t, row[2].IsReduced)
	assert.Equal(t, 0.5, row[2].ReductionOpacity)
	assert.False(t, row[0].IsReduced)
}

func TestRunStopInsideSpan(t *testing.T) {
	p := model.ProjectData{
		HousesCount:   30,
		StartDate:     "2026-11-02",
		WorkPackages:  []model.WorkPackage{{Name: "Fundação", Duration: 1, Rhythm: 10, Cost: 3000}},
		StopPeriods:   []model.StopPeriod{{Month: "Dezembro"}},
		LearningCurve: model.DefaultLearningCurve(),
	}
	s := New(DefaultConfig()).Run(p, horizon(t, p))

	require.True(t, s.Complete)
	assert.Equal(t, 10, s.TotalWeeks)
	assert.Equal(t, map[int]int{0: 6, 1: 6, 2: 6, 3: 6, 4: 6}, s.Starts[0])

	row := s.Matrix[29]
	require.Len(t, row, 6)
	for i, w := range []int{4, 5, 6, 7, 8, 9} {
		assert.Equal(t, w, row[i].WeekIndex)
	}
	assert.Equal(t, 50.0, row[0].Cost)
	assert.Equal(t, 50.0, row[5].Cost)
	for _, c := range row[1:5] {
		assert.True(t, c.IsReduced)
		assert.Equal(t, StopOpacity, c.ReductionOpacity)
		assert.Equal(t, 0.0, c.Cost)
	}
}

func TestRunReductionKeepsCellCost(t *testing.T) {
	base := stopProject()
	base.StopPeriods = nil
	base.PartialReductionPeriods = nil
	reduced := stopProject()
	reduced.StopPeriods = nil
	reduced.PartialReductionPeriods = []model.PartialReductionPeriod{{Month: "novembro", Coefficient: 0.2}}

	a := New(DefaultConfig()).Run(base, horizon(t, base))
	b := New(DefaultConfig()).Run(reduced, horizon(t, reduced))

	assert.Equal(t, 5, a.Starts[0][0])
	assert.Equal(t, 1, b.Starts[0][0])
	assert.Greater(t, b.TotalWeeks, a.TotalWeeks)
	for _, row := range b.Matrix {
		for _, c := range row {
			assert.InDelta(t, 25.0, c.Cost, 1e-9)
			if c.WeekIndex < 4 {
				assert.True(t, c.IsReduced)
				assert.Equal(t, MinReductionOpacity, c.ReductionOpacity)
			}
		}
	}
}

func TestRunHorizonCut(t *testing.T) {
	p := threePackageProject()
	weeks := horizon(t, p)[:5]
	s := New(DefaultConfig()).Run(p, weeks)

	assert.False(t, s.Complete)
	assert.Equal(t, 5, s.WeeksSimulated)
	assert.Equal(t, 5, s.TotalWeeks)
	for _, row := range s.Matrix {
		for _, c := range row {
			if c.WeekIndex >= 5 {
				t.Fatalf("cell beyond horizon: %+v", c)
			}
		}
	}
}

func TestRunSpanCutByHorizonIsIncomplete(t *testing.T) {
	p := model.ProjectData{
		HousesCount:   3,
		StartDate:     "2026-04-06",
		WorkPackages:  []model.WorkPackage{{Name: "Fundação", Duration: 1e7, Rhythm: 3, Cost: 300}},
		LearningCurve: model.LearningCurve{AppliedPackages: []string{"Outro"}},
	}
	weeks := calendar.Mapper{MinWeeks: 10, Multiplier: 3, MaxWeeks: 40}.Map(time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), p.HousesCount, p.WorkPackages)
	require.Len(t, weeks, 40)
	s := New(DefaultConfig()).Run(p, weeks)

	assert.False(t, s.Complete)
	assert.Equal(t, 40, s.TotalWeeks)
	for _, row := range s.Matrix {
		assert.Len(t, row, 40)
	}
}

func TestRunExemptPackageUsesMinimumRhythm(t *testing.T) {
	p := model.ProjectData{
		HousesCount:   8,
		StartDate:     "2026-04-06",
		WorkPackages:  []model.WorkPackage{{Name: "Pintura", Duration: 1, Rhythm: 2, Cost: 800}},
		LearningCurve: model.LearningCurve{AppliedPackages: []string{"Outro"}},
	}
	cfg := DefaultConfig()
	cfg.MinRhythmPerWeek = 4
	s := New(cfg).Run(p, horizon(t, p))

	require.True(t, s.Complete)
	assert.Equal(t, []int{4, 4, 0}, startsAt(s.Starts[0], 0, 2))
}

func TestRunSafetyCap(t *testing.T) {
	p := stopProject()
	p.PartialReductionPeriods = nil
	p.StopPeriods = nil
	for m := time.January; m <= time.December; m++ {
		p.StopPeriods = append(p.StopPeriods, model.StopPeriod{Month: calendar.MonthName(m)})
	}
	cfg := DefaultConfig()
	cfg.MaxSafetyWeeks = 10
	s := New(cfg).Run(p, horizon(t, p))

	assert.False(t, s.Complete)
	assert.Equal(t, 11, s.WeeksSimulated)
	assert.Equal(t, 1, s.TotalWeeks)
	assert.Equal(t, []int{-1, -1}, s.FirstStart)
	for _, row := range s.Matrix {
		assert.Empty(t, row)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{})
	assert.Equal(t, DefaultConfig(), s.Config())
}
