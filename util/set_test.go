// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOperations(t *testing.T) {
	set := NewSet(1, 2, 3)
	require.True(t, set.Contains(2))
	require.False(t, set.Contains(4))

	set.Add(4)
	set.Remove(1)
	members := set.Members()
	sort.Ints(members)
	require.Equal(t, []int{2, 3, 4}, members)
}

func TestSetUnionAndDifference(t *testing.T) {
	left := NewSet("a", "b")
	right := NewSet("b", "c")

	union := left.Union(right).Members()
	sort.Strings(union)
	require.Equal(t, []string{"a", "b", "c"}, union)

	difference := left.Difference(right).Members()
	require.Equal(t, []string{"a"}, difference)

	// The inputs are untouched.
	require.Len(t, left, 2)
	require.Len(t, right, 2)
}
