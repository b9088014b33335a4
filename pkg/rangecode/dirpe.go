// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package rangecode

import (
	"github.com/Moustachego/CGFE/pkg/ternary"
)

// EncodeDIRPE encodes the port interval [s, e] with Directed Range
// Prefix Encoding at chunk width c. Each returned pattern is
// 16/c * (2^c-1) symbols long. An empty interval yields an empty set.
func EncodeDIRPE(s, e uint16, c int) (ternary.PatternSet, error) {
	cfg := Config{W: PortBits, C: c}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s > e {
		return nil, nil
	}
	return dirpeEncode(uint32(s), uint32(e), cfg)
}

func dirpeEncode(s, e uint32, cfg Config) (ternary.PatternSet, error) {
	var out ternary.PatternSet
	for _, sub := range chunkAlignedDecomposition(s, e, cfg) {
		p, err := dirpeSubrange(sub.lo, sub.hi, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out.Dedup(), nil
}

// dirpeSubrange fence-encodes a directly encodable subrange as the
// chunk-wise concatenation of fence range patterns, MSB chunk first.
func dirpeSubrange(s, e uint32, cfg Config) (ternary.Pattern, error) {
	var pat ternary.Pattern
	for i := 0; i < cfg.NumChunks(); i++ {
		sc := ternary.Chunk(s, i, cfg.NumChunks(), cfg.C)
		ec := ternary.Chunk(e, i, cfg.NumChunks(), cfg.C)
		fp, err := ternary.FenceRange(sc, ec, cfg.C)
		if err != nil {
			return "", err
		}
		pat += fp
	}
	return pat, nil
}

// canDirectlyEncode reports whether [s, e] is expressible as one
// Cartesian product of per-chunk fence ranges. This requires every
// chunk projection to be a valid range, and every chunk below the
// first widening chunk to span its full domain; otherwise the product
// would match values outside [s, e].
func canDirectlyEncode(s, e uint32, cfg Config) bool {
	foundDiff := false
	for i := 0; i < cfg.NumChunks(); i++ {
		sc := ternary.Chunk(s, i, cfg.NumChunks(), cfg.C)
		ec := ternary.Chunk(e, i, cfg.NumChunks(), cfg.C)
		if sc > ec {
			return false
		}
		if foundDiff {
			if sc != 0 || ec != cfg.ChunkMax() {
				return false
			}
		} else if sc < ec {
			foundDiff = true
		}
	}
	return true
}

// findSplitChunkHigh returns the highest chunk index where the chunk
// projections of s and e differ, or -1 when s == e.
func findSplitChunkHigh(s, e uint32, cfg Config) int {
	for i := 0; i < cfg.NumChunks(); i++ {
		if ternary.Chunk(s, i, cfg.NumChunks(), cfg.C) != ternary.Chunk(e, i, cfg.NumChunks(), cfg.C) {
			return i
		}
	}
	return -1
}

// splitRangeByChunk splits [s, e] at chunk k into the left piece that
// fills s's block, one complete block per intermediate chunk value,
// and the right piece starting at e's block.
func splitRangeByChunk(s, e uint32, k int, cfg Config) []interval {
	remainingBits := (cfg.NumChunks() - k - 1) * cfg.C
	var remainingMask uint32
	if remainingBits > 0 {
		remainingMask = 1<<remainingBits - 1
	}

	scK := uint32(ternary.Chunk(s, k, cfg.NumChunks(), cfg.C))
	ecK := uint32(ternary.Chunk(e, k, cfg.NumChunks(), cfg.C))

	// Bits strictly above chunk k are shared between s and e.
	prefixShift := cfg.W - k*cfg.C
	var prefix uint32
	if k > 0 {
		prefix = s >> prefixShift << prefixShift
	}

	var out []interval

	leftEnd := prefix | scK<<remainingBits | remainingMask
	if s <= leftEnd && leftEnd <= e {
		out = append(out, interval{s, leftEnd})
	}

	for c := scK + 1; c+1 <= ecK; c++ {
		base := prefix | c<<remainingBits
		out = append(out, interval{base, base | remainingMask})
	}

	rightStart := prefix | ecK<<remainingBits
	if rightStart <= e && rightStart > leftEnd {
		out = append(out, interval{rightStart, e})
	}

	return out
}

// chunkAlignedDecomposition recursively decomposes [s, e] into
// subranges that are each directly encodable. The split is always at
// the highest differing chunk; splitting low-bit-first instead would
// over-cover through the Cartesian product.
func chunkAlignedDecomposition(s, e uint32, cfg Config) []interval {
	if s > e {
		return nil
	}
	if canDirectlyEncode(s, e, cfg) {
		return []interval{{s, e}}
	}
	k := findSplitChunkHigh(s, e, cfg)
	if k == -1 {
		return []interval{{s, e}}
	}
	var out []interval
	for _, sub := range splitRangeByChunk(s, e, k, cfg) {
		out = append(out, chunkAlignedDecomposition(sub.lo, sub.hi, cfg)...)
	}
	return out
}

// dirpeEncodePoint is the wildcard-free DIRPE encoding of one value,
// the chunk-wise concatenation of fence values.
func dirpeEncodePoint(v uint32, cfg Config) (string, error) {
	var enc string
	for i := 0; i < cfg.NumChunks(); i++ {
		fp, err := ternary.FenceValue(ternary.Chunk(v, i, cfg.NumChunks(), cfg.C), cfg.C)
		if err != nil {
			return "", err
		}
		enc += string(fp)
	}
	return enc, nil
}
