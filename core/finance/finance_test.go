package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/core/calendar"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/scheduler"
)

func mapping(n int) []model.WeekDateMapping {
	start := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	return calendar.Mapper{MinWeeks: n, Multiplier: 1}.Map(start, 1, nil)
}

func TestAggregateSmallMatrix(t *testing.T) {
	pkgs := []model.WorkPackage{{Name: "A"}, {Name: "B"}}
	matrix := [][]model.MatrixCell{
		{
			{HouseNumber: 1, WeekIndex: 0, PackageName: "A", Cost: 10.006},
			{HouseNumber: 1, WeekIndex: 1, PackageName: "A", Cost: 10.006},
			{HouseNumber: 1, WeekIndex: 2, PackageName: "B", Cost: 5},
		},
		{
			{HouseNumber: 2, WeekIndex: 1, PackageName: "A", Cost: 10},
			{HouseNumber: 2, WeekIndex: 3, PackageName: "B", Cost: 0, IsReduced: true},
			{HouseNumber: 2, WeekIndex: 9, PackageName: "B", Cost: 99},
		},
	}
	series := Aggregate(matrix, mapping(5), pkgs)
	require.Len(t, series, 5)

	assert.Equal(t, "S01", series[0].WeekLabel)
	assert.Equal(t, 1, series[0].ActiveHouses)
	assert.Equal(t, 20.01, series[1].WeeklyCost)
	assert.Equal(t, 2, series[1].ActiveHouses)
	assert.Equal(t, 30.01, series[1].CumulativeCost)
	assert.Equal(t, map[string]float64{"A": 0, "B": 5}, series[2].PackageCosts)
	// a zero cost cell still counts as activity
	assert.Equal(t, 1, series[3].ActiveHouses)
	assert.Equal(t, 0.0, series[4].WeeklyCost)
	assert.Equal(t, 0, series[4].ActiveHouses)
	assert.Equal(t, 35.01, TotalCost(series))
	assert.Equal(t, map[string]float64{"A": 30.02, "B": 5}, PackageTotals(series))
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, nil, nil))
	assert.Equal(t, 0.0, TotalCost(nil))
	assert.Equal(t, 0.0, MatrixCost(nil))
	assert.Equal(t, 0.0, DeclaredCost(nil))
	assert.Equal(t, 2.35, Round2(2.345000001))
}

func TestAggregateMatchesScheduleCost(t *testing.T) {
	p := model.DefaultProject()
	start, err := model.ParseStartDate(p.StartDate)
	require.NoError(t, err)
	weeks := calendar.Mapper{MinWeeks: 200, Multiplier: 3}.Map(start, p.HousesCount, p.WorkPackages)
	s := scheduler.New(scheduler.DefaultConfig()).Run(p, weeks)
	require.True(t, s.Complete)

	series := Aggregate(s.Matrix, weeks, p.WorkPackages)
	require.Len(t, series, len(weeks))
	want := DeclaredCost(p.WorkPackages)
	assert.InDelta(t, 197075625.88, want, 0.01)
	assert.InDelta(t, want, MatrixCost(s.Matrix), 1e-6)
	assert.InDelta(t, want, TotalCost(series), 0.01)
	for w := 1; w < len(series); w++ {
		if series[w].CumulativeCost < series[w-1].CumulativeCost {
			t.Fatalf("cumulative cost decreases at week %d", w)
		}
	}
	for w := s.TotalWeeks; w < len(series); w++ {
		assert.Zero(t, series[w].ActiveHouses)
	}
}
