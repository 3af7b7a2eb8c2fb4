// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Overflow gates and the eviction rule.

package pressure

// A gate decides, after an admission, whether the class's active set
// has outgrown some bound.  Gates are checked in a fixed order and at
// most one spill is recorded per admission step, however many gates
// would fire.

type gateKindT int

const (
	gateNone gateKindT = iota
	gateAbi
	gateCapacity
)

type gateT struct {
	kind    gateKindT
	exceeds func(class *RegisterClassT, state *classStateT) bool
}

// The ABI gate comes first: running out of callee-saved slots forces
// a spill even when the raw pool has room.

var abiGate = gateT{gateAbi,
	func(class *RegisterClassT, state *classStateT) bool {
		return class.abiBounded() && class.AbiLimit < len(state.crossing)
	}}

var capacityGate = gateT{gateCapacity,
	func(class *RegisterClassT, state *classStateT) bool {
		return class.Capacity < len(state.active)
	}}

func (est *EstimatorT) checkOverflow(class *RegisterClassT, state *classStateT) gateKindT {
	for _, gate := range est.gates {
		if gate.exceeds(class, state) {
			return gate.kind
		}
	}
	return gateNone
}

// Eviction is LIFO: pop the most recently admitted interval.  This is
// a fixed part of the contract, not a heuristic to refine; smarter
// (cost-weighted) eviction would change every downstream number.  The
// crossing list loses its tail only for ABI-triggered overflows.

func (state *classStateT) evict(kind gateKindT) {
	state.active = state.active[:len(state.active)-1]
	if kind == gateAbi && 0 < len(state.crossing) {
		state.crossing = state.crossing[:len(state.crossing)-1]
	}
}
