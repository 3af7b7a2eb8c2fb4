// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package pressure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeIntervals(class *RegisterClassT, ranges ...[2]int) []IntervalT {
	intervals := make([]IntervalT, 0, len(ranges))
	for id, bounds := range ranges {
		intervals = append(intervals,
			IntervalT{Id: id, Class: class, Start: bounds[0], End: bounds[1]})
	}
	return intervals
}

func TestDisjointIntervalsShareOneRegister(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 1}
	unit := &UnitT{
		Name:      "f",
		Intervals: makeIntervals(class, [2]int{0, 5}, [2]int{5, 10}),
	}
	allStats := NewEstimator().Analyze(unit)
	require.Len(t, allStats, 1)
	require.Equal(t, 1, allStats[0].MaxPressure)
	require.Equal(t, 0, allStats[0].SpillCount)
}

func TestOverlapSpillsTheNewcomer(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 1}
	unit := &UnitT{
		Name:      "f",
		Intervals: makeIntervals(class, [2]int{0, 10}, [2]int{2, 8}),
	}
	allStats := NewEstimator().Analyze(unit)
	require.Len(t, allStats, 1)
	require.Equal(t, 2, allStats[0].MaxPressure)
	require.Equal(t, 1, allStats[0].SpillCount)
}

// The tie-break on equal starts is by Id.  With [0,10) and [0,5) the
// second is the LIFO eviction victim, so the first still blocks a
// later [6,8).  A reversed tie-break would spill once, not twice.

func TestEqualStartTieBreakIsById(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 1}
	unit := &UnitT{
		Name: "f",
		Intervals: makeIntervals(class,
			[2]int{0, 10}, [2]int{0, 5}, [2]int{6, 8}),
	}
	allStats := NewEstimator().Analyze(unit)
	require.Len(t, allStats, 1)
	require.Equal(t, 2, allStats[0].SpillCount)
}

// With capacity no eviction can reach, the reported maximum must be
// the true maximum over all points of the number of live intervals.

func TestMaxPressureIsTheTruePeak(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 1000}
	unit := &UnitT{
		Name: "f",
		Intervals: makeIntervals(class,
			[2]int{0, 4}, [2]int{1, 9}, [2]int{2, 3}, [2]int{3, 7},
			[2]int{3, 5}, [2]int{8, 12}, [2]int{10, 11}),
	}
	peak := 0
	for point := 0; point < 12; point++ {
		count := 0
		for i := range unit.Intervals {
			if unit.Intervals[i].liveAt(point) {
				count += 1
			}
		}
		if peak < count {
			peak = count
		}
	}
	allStats := NewEstimator().Analyze(unit)
	require.Len(t, allStats, 1)
	require.Equal(t, peak, allStats[0].MaxPressure)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 2}
	unit := &UnitT{
		Name: "f",
		Intervals: makeIntervals(class,
			[2]int{0, 6}, [2]int{0, 6}, [2]int{1, 4}, [2]int{2, 9},
			[2]int{4, 5}, [2]int{4, 8}),
	}
	first := NewEstimator().Analyze(unit)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, NewEstimator().Analyze(unit))
	}
}

func TestEmptyAndMalformedIntervalsNeverOccupyASlot(t *testing.T) {
	gpr := &RegisterClassT{Name: "gpr", Capacity: 1}
	fpr := &RegisterClassT{Name: "fpr", Capacity: 1}
	intervals := []IntervalT{
		{Id: 0, Class: gpr, Start: 0, End: 10},
		{Id: 1, Class: gpr, Start: 3, End: 3}, // empty
		{Id: 2, Class: gpr, Start: 7, End: 2}, // malformed, treated as never live
		{Id: 3, Class: fpr, Start: 5, End: 5}, // fpr is never touched
	}
	allStats := NewEstimator().Analyze(&UnitT{Name: "f", Intervals: intervals})
	require.Len(t, allStats, 1)
	require.Equal(t, gpr, allStats[0].Class)
	require.Equal(t, 1, allStats[0].MaxPressure)
	require.Equal(t, 0, allStats[0].SpillCount)
}

func TestZeroCapacityClassSpillsEveryAdmission(t *testing.T) {
	class := &RegisterClassT{Name: "fpr", Capacity: 0}
	unit := &UnitT{
		Name:      "f",
		Intervals: makeIntervals(class, [2]int{0, 3}, [2]int{1, 4}, [2]int{5, 6}),
	}
	allStats := NewEstimator().Analyze(unit)
	require.Len(t, allStats, 1)
	require.Equal(t, 3, allStats[0].SpillCount)
	require.Equal(t, 1, allStats[0].MaxPressure)
}

func TestUntouchedClassesAreOmitted(t *testing.T) {
	allStats := NewEstimator().Analyze(&UnitT{Name: "f"})
	require.Empty(t, allStats)
}

func TestClassesReportedInNameOrder(t *testing.T) {
	gpr := &RegisterClassT{Name: "gpr", Capacity: 4}
	fpr := &RegisterClassT{Name: "fpr", Capacity: 4}
	intervals := []IntervalT{
		{Id: 0, Class: gpr, Start: 0, End: 5},
		{Id: 1, Class: fpr, Start: 0, End: 5},
	}
	allStats := NewEstimator().Analyze(&UnitT{Name: "f", Intervals: intervals})
	require.Len(t, allStats, 2)
	require.Equal(t, "fpr", allStats[0].Class.Name)
	require.Equal(t, "gpr", allStats[1].Class.Name)
}
