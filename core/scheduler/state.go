package scheduler

import "github.com/kilianp07/linebalance/core/model"

// state is the mutable working set of one Run call.
type state struct {
	houses int
	// start and end hold the first and last week of each (house, package),
	// -1 until the house starts the package.
	start [][]int
	end   [][]int
	// next is the index of the next house allowed to start each package.
	next []int
	// firstStart is the first week each package started anywhere.
	firstStart []int
	starts     []map[int]int
	matrix     [][]model.MatrixCell
	lastWeek   int
	// cut is set when a block's span was shortened by the horizon.
	cut bool
}

func newState(houses, packages int) *state {
	st := &state{
		houses:     houses,
		start:      make([][]int, houses),
		end:        make([][]int, houses),
		next:       make([]int, packages),
		firstStart: make([]int, packages),
		starts:     make([]map[int]int, packages),
		matrix:     make([][]model.MatrixCell, houses),
	}
	for h := 0; h < houses; h++ {
		st.start[h] = filled(packages, -1)
		st.end[h] = filled(packages, -1)
	}
	for k := 0; k < packages; k++ {
		st.firstStart[k] = -1
		st.starts[k] = map[int]int{}
	}
	return st
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// eligible counts the houses, from the package cursor onward, that may start
// package k in week. Collection stops at the first house still waiting for
// its previous package or inside its latency window.
func (st *state) eligible(k, week, rhythm, latency int) int {
	first := st.next[k]
	last := min(first+rhythm, st.houses)
	n := 0
	for h := first; h < last; h++ {
		if st.start[h][k] >= 0 {
			break
		}
		if k > 0 {
			prevEnd := st.end[h][k-1]
			if prevEnd < 0 || week < prevEnd+1+latency {
				break
			}
		}
		n++
	}
	return n
}

// finished reports whether every house has started the last package. Its
// end week is fixed at that moment, though it may have been cut by the
// horizon.
func (st *state) finished() bool {
	if len(st.next) == 0 {
		return true
	}
	return st.next[len(st.next)-1] >= st.houses
}
