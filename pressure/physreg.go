// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Fixed physical register accounting.
//
// Instructions that pin specific physical registers (on x86, integer
// division pins AX and DX, a variable shift pins CX) consume a
// register without ever appearing as a virtual live interval.  This
// refinement adds the per-class count of such usages to the reported
// pressure.  It is an estimation heuristic, not exact accounting: a
// fixed register inside an overlapping class hierarchy is tallied
// once per containing class, so overlapping classes can double-count.

package pressure

// When the scan found no spills the reported pressure is clamped to
// the class capacity; pressure above what physically exists would be
// misleading with nothing spilled.  When spills did occur the
// unclamped sum is kept to surface the over-subscription.

func adjustedPressure(stats *ClassStatsT, unit *UnitT) int {
	pressure := stats.MaxPressure + unit.PhysRegUses[stats.Class]
	if stats.SpillCount == 0 && stats.Class.Capacity < pressure {
		pressure = stats.Class.Capacity
	}
	return pressure
}
