// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package ternary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrayRoundTrip(t *testing.T) {
	for x := uint32(0); x < 1<<12; x++ {
		require.Equal(t, x, GrayToBinary(BinaryToGray(x)))
	}
}

// Successive Gray codes differ in exactly one bit.
func TestGrayAdjacency(t *testing.T) {
	for x := uint32(0); x < 1<<12; x++ {
		d := BinaryToGray(x) ^ BinaryToGray(x+1)
		require.True(t, IsPowerOfTwo(d), "G(%d) and G(%d) differ in %b", x, x+1, d)
	}
}

func TestChunk(t *testing.T) {
	// 9 = 10|01 with two 2-bit chunks.
	require.Equal(t, 2, Chunk(9, 0, 2, 2))
	require.Equal(t, 1, Chunk(9, 1, 2, 2))
	// 0xbeef nibbles, highest chunk first.
	for i, want := range []int{0xb, 0xe, 0xe, 0xf} {
		require.Equal(t, want, Chunk(0xbeef, i, 4, 4))
	}
}

func TestBitString(t *testing.T) {
	require.Equal(t, "0110", BitString(6, 4))
	require.Equal(t, "1001", BitString(9, 4))
	require.Equal(t, "0000000000000000", BitString(0, 16))
}

func TestIsHypercube(t *testing.T) {
	tests := []struct {
		s, e     uint32
		expected bool
	}{
		{0, 15, true},
		{4, 7, true},
		{6, 7, true},
		{5, 5, true},
		{6, 9, false},
		{2, 5, false},
		{4, 6, false},
		{8, 15, true},
		{1, 0, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, IsHypercube(tt.s, tt.e), "[%d, %d]", tt.s, tt.e)
	}
}

func TestPrefixCover(t *testing.T) {
	require.Equal(t, Pattern("01**"), PrefixCover(4, 7, 4))
	require.Equal(t, Pattern("****"), PrefixCover(0, 15, 4))
	require.Equal(t, Pattern("0101"), PrefixCover(5, 5, 4))
	require.Equal(t, Pattern("1***"), PrefixCover(8, 15, 4))
}

func TestPatternSetDedup(t *testing.T) {
	ps := PatternSet{"01*", "000", "01*", "111", "000"}
	require.Equal(t, PatternSet{"01*", "000", "111"}, ps.Dedup())
}

func TestPatternWithSeparators(t *testing.T) {
	require.Equal(t, "000 *11", Pattern("000*11").WithSeparators(3))
	require.Equal(t, "0110", Pattern("0110").WithSeparators(0))
}
