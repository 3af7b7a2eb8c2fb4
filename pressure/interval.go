// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Live intervals, register classes, and analysis units.
//
// Intervals are half-open: an interval is live at point p iff
// start <= p < end.  A value whose interval ends exactly where
// another begins does not compete with it for a register.

package pressure

import (
	"sort"
)

// One value's lifetime over the unit's linear program-point axis.
// Intervals are owned by the caller in a contiguous slice for the
// duration of one unit's analysis; the simulator refers to them by
// index and never holds references past the end of Analyze.

type IntervalT struct {
	Id    int // unique within the unit; assigned in collection order
	Class *RegisterClassT
	Start int
	End   int // exclusive

	crossesCall bool // set during simulation
}

// A malformed interval (end < start) is treated as never live rather
// than rejected; it contributes nothing to pressure.

func (interval *IntervalT) liveAt(point int) bool {
	return interval.Start <= point && point < interval.End
}

func (interval *IntervalT) empty() bool {
	return interval.End <= interval.Start
}

// Whether the interval is live at any of the (sorted) call points.
// A call landing exactly at Start counts as crossed, one at End does
// not, matching the half-open liveness rule.

func (interval *IntervalT) crossesAnyCall(callSites []int) bool {
	i := sort.SearchInts(callSites, interval.Start)
	return i < len(callSites) && callSites[i] < interval.End
}

//----------------------------------------------------------------

// A pool of interchangeable physical registers.  Values of different
// classes never compete for the same pool.  The same physical
// register may appear in more than one class (sub/super classes);
// the engine only sees the counts.

type RegisterClassT struct {
	Name     string
	Capacity int // allocatable registers in the pool
	AbiLimit int // callee-saved slots for call-crossing values; <= 0 means unbounded
}

func (class *RegisterClassT) abiBounded() bool {
	return 0 < class.AbiLimit
}

//----------------------------------------------------------------

// Everything the engine needs for one analyzed function.  The front
// end (or any other collaborator owning liveness) fills this in; the
// engine never mutates it.
//
// The estimate assumes the unit is in SSA form, so that the number of
// simultaneously live values approximates the number of registers
// needed.  That precondition is not checked here.

type UnitT struct {
	Name      string
	Intervals []IntervalT
	CallSites []int // sorted ascending

	// Fixed (non-virtual) register usages observed directly in the
	// unit's instructions, per class, for the reported-pressure
	// adjustment.  Optional.
	PhysRegUses map[*RegisterClassT]int
}
