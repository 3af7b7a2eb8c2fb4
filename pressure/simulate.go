// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The active-set simulator: a single forward pass over the unit's
// intervals in start order, approximating chordal-graph register
// pressure without building an interference graph.

package pressure

import (
	"sort"
)

// An estimator is a pure function of its inputs; Analyze may be
// called concurrently on different units from different goroutines.
// The scan within one unit is inherently sequential (each step
// depends on all prior state) and is never parallelized.

type EstimatorT struct {
	gates          []gateT
	adjustPhysRegs bool
}

// Per-class mutable state, created lazily on first touch and
// discarded when the scan ends.  The lists hold indices into the
// unit's interval slice, tail = most recently admitted.

type classStateT struct {
	active   []int
	crossing []int // subsequence of active with crossesCall set
	stats    ClassStatsT
}

// The finished numbers for one class.  MaxPressure is the reported
// pressure: the raw maximum of |active|, plus the fixed-register
// adjustment when that refinement is enabled.

type ClassStatsT struct {
	Class       *RegisterClassT
	MaxPressure int
	SpillCount  int
}

// Runs the simulation and returns one record per touched class,
// sorted by class name.  Classes touched by no live interval are
// omitted.  The scan is deterministic: same unit in, same stats out.

func (est *EstimatorT) Analyze(unit *UnitT) []ClassStatsT {
	states := map[*RegisterClassT]*classStateT{}
	for _, index := range sortedOrder(unit.Intervals) {
		current := &unit.Intervals[index]
		if current.Class == nil || current.empty() {
			continue // never live, occupies no slot
		}
		state := states[current.Class]
		if state == nil {
			state = &classStateT{stats: ClassStatsT{Class: current.Class}}
			states[current.Class] = state
		}
		est.step(unit, state, index)
	}

	allStats := make([]ClassStatsT, 0, len(states))
	for _, state := range states {
		stats := state.stats
		if est.adjustPhysRegs {
			stats.MaxPressure = adjustedPressure(&stats, unit)
		}
		allStats = append(allStats, stats)
	}
	sort.Slice(allStats, func(i int, j int) bool {
		return allStats[i].Class.Name < allStats[j].Class.Name
	})
	return allStats
}

// One admission step: expire, classify, admit, measure, check
// overflow.  Pressure is recorded before any eviction, so a peak is
// never under-reported.

func (est *EstimatorT) step(unit *UnitT, state *classStateT, index int) {
	current := &unit.Intervals[index]

	state.active = expire(unit, state.active, current.Start)
	state.crossing = expire(unit, state.crossing, current.Start)

	current.crossesCall = current.crossesAnyCall(unit.CallSites)

	state.active = append(state.active, index)
	if current.crossesCall {
		state.crossing = append(state.crossing, index)
	}

	if state.stats.MaxPressure < len(state.active) {
		state.stats.MaxPressure = len(state.active)
	}

	kind := est.checkOverflow(current.Class, state)
	if kind != gateNone {
		state.stats.SpillCount += 1
		state.evict(kind)
	}
}

// Removes the intervals that end at or before 'point'.  Half-open
// intervals: ending exactly where the next begins is not overlap.
// Filters in place; the backing array is owned by the state.

func expire(unit *UnitT, list []int, point int) []int {
	kept := list[:0]
	for _, index := range list {
		if point < unit.Intervals[index].End {
			kept = append(kept, index)
		}
	}
	return kept
}
