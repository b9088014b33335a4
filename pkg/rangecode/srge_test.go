// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package rangecode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Moustachego/CGFE/pkg/ternary"
)

// requireSameSet compares pattern sets without regard to order.
func requireSameSet(t *testing.T, expected []string, got ternary.PatternSet) {
	t.Helper()
	require.ElementsMatch(t, expected, got.Strings())
}

// Known 4-bit cases exercising the Gray LCA split, the reflection and
// the remainder recursion.
func TestSRGEKnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		s, e     uint32
		expected []string
	}{
		{
			// Gray LCA + reflection: [6,7] reflects over the top axis,
			// [10,11] over the inner one, and the final point picks up
			// a mirror into already-covered territory.
			name:     "6-14",
			s:        6,
			e:        14,
			expected: []string{"*10*", "1*1*", "1*01"},
		},
		{
			// Multi-subtree traversal: the reflection of [4,7] and
			// [2,3] covers the entire right half.
			name:     "1-13",
			s:        1,
			e:        13,
			expected: []string{"*1**", "*01*", "0001"},
		},
		{
			// Single-subtree case: both left pieces reflect, nothing
			// remains on the right.
			name:     "1-6",
			s:        1,
			e:        6,
			expected: []string{"0*1*", "0*01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srgeEncode(tt.s, tt.e, 4)
			requireSameSet(t, tt.expected, got)
			requireExactCover(t, got, tt.s, tt.e, 4, srgePoint(4))
		})
	}
}

func TestSRGESinglePointGray(t *testing.T) {
	got := srgeEncode(6, 6, 4)
	// G(6) = 0101.
	require.Equal(t, ternary.PatternSet{"0101"}, got)
}

func TestSRGEHypercube(t *testing.T) {
	// [4,7] shares the Gray prefix 01.
	got := srgeEncode(4, 7, 4)
	require.Equal(t, ternary.PatternSet{"01**"}, got)

	got = srgeEncode(0, 15, 4)
	require.Equal(t, ternary.PatternSet{"****"}, got)
}

// An interval straddling the axis symmetrically collapses to a single
// reflected pattern.
func TestSRGESymmetricStraddle(t *testing.T) {
	got := srgeEncode(7, 8, 4)
	require.Equal(t, ternary.PatternSet{"*100"}, got)
	requireExactCover(t, got, 7, 8, 4, srgePoint(4))

	got = srgeEncode(6, 9, 4)
	require.Equal(t, ternary.PatternSet{"*10*"}, got)
	requireExactCover(t, got, 6, 9, 4, srgePoint(4))
}

func TestSRGEPortRanges(t *testing.T) {
	// Sanity at full width: well-known port ranges stay small.
	for _, r := range []struct {
		s, e uint16
		max  int
	}{
		{0, 1023, 1},        // aligned power of two
		{1024, 65535, 6},    // ephemeral and registered
		{49152, 65535, 1},   // dynamic ports
		{1, 65534, 2 * 16},  // worst-case style range
		{1000, 1999, 2 * 16},
	} {
		ps, err := EncodeSRGE(r.s, r.e)
		require.NoError(t, err)
		require.NotEmpty(t, ps)
		require.LessOrEqual(t, len(ps), r.max, "[%d, %d]", r.s, r.e)
	}
}
