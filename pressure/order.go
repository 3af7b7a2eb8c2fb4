// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The ordering stage of the linear scan.

package pressure

import (
	"sort"
)

// Returns the indices of the unit's intervals sorted ascending by
// start point.  Ties are broken by Id, ascending.  Ids are assigned
// in collection order by the front end, so the tie-break is the
// original collection order.  The tie-break is part of the engine's
// contract: it decides which of two simultaneously-starting intervals
// sits at the tail of the active list and so is evicted first on
// overflow.

func sortedOrder(intervals []IntervalT) []int {
	order := make([]int, len(intervals))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i int, j int) bool {
		a := &intervals[order[i]]
		b := &intervals[order[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Id < b.Id
	})
	return order
}
