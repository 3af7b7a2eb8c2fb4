// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Estimator variants and their registry.
//
// The registry is an ordinary object constructed and owned by the
// host tool; the engine does no global self-registration.

package pressure

import (
	"fmt"
	"sort"
)

// The capacity-gate-only variant.

func NewEstimator() *EstimatorT {
	return &EstimatorT{gates: []gateT{capacityGate}}
}

// Adds the callee-saved gate for call-crossing intervals.

func NewAbiEstimator() *EstimatorT {
	return &EstimatorT{gates: []gateT{abiGate, capacityGate}}
}

// Adds the fixed physical register pressure adjustment on top of the
// ABI-aware variant.

func NewPhysRegEstimator() *EstimatorT {
	est := NewAbiEstimator()
	est.adjustPhysRegs = true
	return est
}

//----------------------------------------------------------------

type RegistryT struct {
	factories map[string]func() *EstimatorT
}

func NewRegistry() *RegistryT {
	return &RegistryT{factories: map[string]func() *EstimatorT{}}
}

func (registry *RegistryT) Register(name string, factory func() *EstimatorT) {
	if _, found := registry.factories[name]; found {
		panic(fmt.Sprintf("estimator variant '%s' registered twice", name))
	}
	registry.factories[name] = factory
}

func (registry *RegistryT) Lookup(name string) (*EstimatorT, error) {
	factory := registry.factories[name]
	if factory == nil {
		return nil, fmt.Errorf("unknown estimator variant '%s' (have %v)",
			name, registry.Names())
	}
	return factory(), nil
}

func (registry *RegistryT) Names() []string {
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// The three observed variants.

func DefaultRegistry() *RegistryT {
	registry := NewRegistry()
	registry.Register("basic", NewEstimator)
	registry.Register("abi", NewAbiEstimator)
	registry.Register("physreg", NewPhysRegEstimator)
	return registry
}
