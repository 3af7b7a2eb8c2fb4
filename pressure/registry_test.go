// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package pressure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryVariants(t *testing.T) {
	registry := DefaultRegistry()
	require.Equal(t, []string{"abi", "basic", "physreg"}, registry.Names())
	for _, name := range registry.Names() {
		estimator, err := registry.Lookup(name)
		require.NoError(t, err)
		require.NotNil(t, estimator)
	}
}

func TestRegistryUnknownVariant(t *testing.T) {
	_, err := DefaultRegistry().Lookup("graph-coloring")
	require.Error(t, err)
	require.Contains(t, err.Error(), "graph-coloring")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	registry.Register("basic", NewEstimator)
	require.Panics(t, func() {
		registry.Register("basic", NewEstimator)
	})
}

// The variants differ only in their gates and reporting; all of them
// agree on a unit that neither crosses calls nor overflows.

func TestVariantsAgreeOnEasyUnits(t *testing.T) {
	class := &RegisterClassT{Name: "gpr", Capacity: 8, AbiLimit: 4}
	unit := &UnitT{
		Name:      "f",
		Intervals: makeIntervals(class, [2]int{0, 4}, [2]int{2, 6}, [2]int{4, 8}),
	}
	registry := DefaultRegistry()
	for _, name := range registry.Names() {
		estimator, err := registry.Lookup(name)
		require.NoError(t, err)
		allStats := estimator.Analyze(unit)
		require.Len(t, allStats, 1, name)
		require.Equal(t, 2, allStats[0].MaxPressure, name)
		require.Equal(t, 0, allStats[0].SpillCount, name)
	}
}
