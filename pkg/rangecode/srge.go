// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package rangecode

import (
	"math/bits"

	"github.com/Moustachego/CGFE/pkg/ternary"
)

// EncodeSRGE encodes the port interval [s, e] with Symmetric Range
// Gray Encoding. Each returned pattern is 16 symbols long and matches
// against the Gray code of a port value. An empty interval yields an
// empty set.
func EncodeSRGE(s, e uint16) (ternary.PatternSet, error) {
	if s > e {
		return nil, nil
	}
	return srgeEncode(uint32(s), uint32(e), PortBits), nil
}

// srgePattern carries a pattern together with the bounds of its match
// set in the binary domain. The bounds are needed to decide whether a
// further reflection stays inside the encoded interval.
type srgePattern struct {
	pat    []byte
	mn, mx uint32
}

func srgeEncode(s, e uint32, w int) ternary.PatternSet {
	covers := srgeCover(s, e, s, w)
	out := make(ternary.PatternSet, 0, len(covers))
	for _, c := range covers {
		out = append(out, ternary.Pattern(c.pat))
	}
	return out.Dedup()
}

// srgeCover covers [lo, hi]. The invariant maintained across recursive
// calls is that [floor, lo-1] is already covered by previously emitted
// patterns, so reflections spilling into that region are harmless;
// nothing above hi may ever be matched.
//
// At each level the interval is split at the highest differing bit of
// the Gray-coded endpoints (equivalently of the binary endpoints). The
// left subtree side is covered by its plain Gray prefix decomposition;
// every piece whose mirror image across the split axis fits below hi
// has the axis bit wildcarded, covering the mirror for free. The
// still-uncovered right portion recurses, and its patterns gain the
// axis wildcard too whenever their mirror stays at or above floor.
func srgeCover(lo, hi, floor uint32, w int) []srgePattern {
	if lo > hi {
		return nil
	}
	if ternary.IsHypercube(lo, hi) {
		return []srgePattern{{pat: grayPrefix(lo, hi, w), mn: lo, mx: hi}}
	}

	beta := bits.Len32(lo^hi) - 1
	pr := hi >> beta << beta
	pl := pr - 1
	// mirror(v) = axis - v, the reflection across the Gray subtree
	// boundary between pl and pr. Reflected values differ from their
	// originals in exactly the Gray bit at position beta.
	axis := pl + pr
	wildIdx := w - 1 - beta

	var out []srgePattern
	remLo := pr
	for _, blk := range prefixBlocks(lo, pl) {
		p := grayPrefix(blk.lo, blk.hi, w)
		if axis-blk.lo <= hi {
			// The mirror [axis-blk.hi, axis-blk.lo] lies inside
			// [pr, hi]; wildcarding the axis bit covers it for free.
			p[wildIdx] = '*'
			out = append(out, srgePattern{pat: p, mn: blk.lo, mx: axis - blk.lo})
			if next := axis - blk.lo + 1; next > remLo {
				remLo = next
			}
		} else {
			out = append(out, srgePattern{pat: p, mn: blk.lo, mx: blk.hi})
		}
	}

	for _, rp := range srgeCover(remLo, hi, floor, w) {
		if axis-rp.mx >= floor {
			// The mirror of this right-side pattern lands entirely in
			// covered territory below; wildcard the axis bit as well.
			rp.pat[wildIdx] = '*'
			rp.mn = axis - rp.mx
		}
		out = append(out, rp)
	}
	return out
}

// prefixBlocks greedily decomposes [lo, hi] into maximal aligned
// power-of-two blocks, lowest first.
func prefixBlocks(lo, hi uint32) []interval {
	var out []interval
	s := uint64(lo)
	for s <= uint64(hi) {
		size := uint64(1)
		for s&(size<<1-1) == 0 && s+size<<1-1 <= uint64(hi) {
			size <<= 1
		}
		out = append(out, interval{uint32(s), uint32(s + size - 1)})
		s += size
	}
	return out
}

// grayPrefix returns the pattern covering the hypercube [lo, hi] in
// the Gray domain: the shared high-order bits of the Gray codes
// followed by wildcards.
func grayPrefix(lo, hi uint32, w int) []byte {
	wild := 0
	for k := hi - lo; k != 0; k >>= 1 {
		wild++
	}
	p := make([]byte, w)
	copy(p, ternary.BitString(ternary.BinaryToGray(lo)>>wild, w-wild))
	for i := w - wild; i < w; i++ {
		p[i] = '*'
	}
	return p
}

// srgeEncodePoint is the wildcard-free SRGE encoding of one value, the
// binary form of its Gray code.
func srgeEncodePoint(v uint32, w int) string {
	return ternary.BitString(ternary.BinaryToGray(v), w)
}
