// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package rangecode

import (
	"strings"

	"github.com/Moustachego/CGFE/pkg/ternary"
)

// EncodeCGFE encodes the port interval [s, e] with Chunked Gray Fence
// Encoding at chunk width c. Each returned pattern is 16/c * (2^c-1)
// symbols long: a fence-encoded MSC range followed by a parity-aware
// fence encoding of the tail chunk. An empty interval yields an empty
// set.
func EncodeCGFE(s, e uint16, c int) (ternary.PatternSet, error) {
	cfg := Config{W: PortBits, C: c}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s > e {
		return nil, nil
	}
	return cgfeEncode(uint32(s), uint32(e), cfg)
}

// cgfeEntry is one encoded entry before rendering: an MSC range and a
// tail chunk pattern. The same TC pattern matches the nominal TC range
// in blocks whose MSC parity equals the encoding parity, and the
// reflected range in blocks of opposite parity.
type cgfeEntry struct {
	mscLo, mscHi uint32
	tc           string
}

func cgfeEncode(s, e uint32, cfg Config) (ternary.PatternSet, error) {
	entries, err := cgfeEntries(s, e, cfg)
	if err != nil {
		return nil, err
	}
	out := make(ternary.PatternSet, 0, len(entries))
	for _, ent := range entries {
		msc, err := ternary.FenceRange(int(ent.mscLo), int(ent.mscHi), cfg.C)
		if err != nil {
			return nil, err
		}
		out = append(out, msc+ternary.Pattern(ent.tc))
	}
	return out.Dedup(), nil
}

// cgfeEntries implements the MSC/TC case analysis. Blocks are the
// BLOCK_SIZE-sized intervals indexed by MSC; partial endpoint blocks
// are joined across the boundary through reflection extensions
// whenever the block parities allow it.
func cgfeEntries(s, e uint32, cfg Config) ([]cgfeEntry, error) {
	bs := cfg.BlockSize()
	ms, me := s/bs, e/bs
	ts, te := s%bs, e%bs

	switch {
	case ms == me:
		// Entire interval inside one block.
		return tcEntries(ms, ms, ts, te, oddMSC(ms), cfg)

	case ts == 0 && te == bs-1:
		// Both endpoints flush with block boundaries.
		return []cgfeEntry{fullBlocks(ms, me, cfg)}, nil

	case ts == 0:
		// Flush low end: full blocks then a partial final block.
		out := []cgfeEntry{fullBlocks(ms, me-1, cfg)}
		tail, err := tcEntries(me, me, 0, te, oddMSC(me), cfg)
		if err != nil {
			return nil, err
		}
		return append(out, tail...), nil

	case te == bs-1:
		// Flush high end, mirror of the previous case.
		head, err := tcEntries(ms, ms, ts, bs-1, oddMSC(ms), cfg)
		if err != nil {
			return nil, err
		}
		return append(head, fullBlocks(ms+1, me, cfg)), nil
	}

	// General case: both endpoint blocks are partial.
	if (me-ms)%2 == 1 {
		return cgfeOddDelta(s, e, cfg)
	}
	return cgfeEvenDelta(s, e, cfg)
}

// cgfeOddDelta handles opposite-parity endpoint blocks. The low
// endpoint's TC range [ts, bs-1] reflects onto [0, bs-1-ts] in the
// high endpoint's block, so one entry spanning the whole MSC range
// covers the overlapping parts of both partial blocks at once.
func cgfeOddDelta(s, e uint32, cfg Config) ([]cgfeEntry, error) {
	bs := cfg.BlockSize()
	ms, me := s/bs, e/bs
	ts, te := s%bs, e%bs
	r1Parity := oddMSC(ms)

	r1SymHi := bs - 1 - ts
	commonHi := min(r1SymHi, te)
	extendLo := bs - 1 - commonHi

	var out []cgfeEntry

	// Part of the low block that no reflection can pair up.
	if extendLo > ts {
		ents, err := tcEntries(ms, ms, ts, extendLo-1, r1Parity, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ents...)
	}

	// The reflection extension: matches [extendLo, bs-1] in blocks of
	// the low endpoint's parity and [0, commonHi] in the others.
	ents, err := tcEntries(ms, me, extendLo, bs-1, r1Parity, cfg)
	if err != nil {
		return nil, err
	}
	out = append(out, ents...)

	// Part of the high block beyond the reflection's reach.
	if te > r1SymHi {
		ents, err := tcEntries(me, me, r1SymHi+1, te, oddMSC(me), cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ents...)
	}

	// Each complete middle block is half covered by the extension:
	// [extendLo, bs-1] when its parity matches the low endpoint,
	// [0, commonHi] otherwise. The two gaps are mirror images of each
	// other, so a single entry spanning all middle blocks patches both.
	if ms+1 <= me-1 && extendLo > 0 {
		ents, err := tcEntries(ms+1, me-1, 0, extendLo-1, r1Parity, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ents...)
	}

	return out, nil
}

// cgfeEvenDelta handles same-parity endpoint blocks with a reflection
// extension from each end: the low block's range extends through
// me-1 and the high block's range through ms+1. Each middle block is
// then covered by both extensions; a gap remains only when the two
// partial ranges together are shorter than a block.
func cgfeEvenDelta(s, e uint32, cfg Config) ([]cgfeEntry, error) {
	bs := cfg.BlockSize()
	ms, me := s/bs, e/bs
	ts, te := s%bs, e%bs

	var out []cgfeEntry

	ents, err := tcEntries(ms, me-1, ts, bs-1, oddMSC(ms), cfg)
	if err != nil {
		return nil, err
	}
	out = append(out, ents...)

	ents, err = tcEntries(ms+1, me, 0, te, oddMSC(me), cfg)
	if err != nil {
		return nil, err
	}
	out = append(out, ents...)

	// In a middle block of the endpoints' parity the extensions cover
	// [ts, bs-1] and [0, te], leaving [te+1, ts-1] open; opposite
	// parity blocks miss the mirror image. One ranged entry encoded
	// under the endpoints' parity fills both.
	if ms+1 <= me-1 && ts > te+1 {
		ents, err = tcEntries(ms+1, me-1, te+1, ts-1, oddMSC(ms), cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ents...)
	}

	return out, nil
}

func oddMSC(msc uint32) bool { return msc&1 == 1 }

// fullBlocks is the entry matching every value of the blocks in
// [mscLo, mscHi]: a fence range over the MSC with a fully wildcarded
// tail chunk.
func fullBlocks(mscLo, mscHi uint32, cfg Config) cgfeEntry {
	return cgfeEntry{
		mscLo: mscLo,
		mscHi: mscHi,
		tc:    strings.Repeat("*", cfg.EncodedLen()-cfg.ChunkMax()),
	}
}

// tcEntries encodes the TC range [lo, hi] under the given parity and
// wraps each produced pattern with the MSC range.
func tcEntries(mscLo, mscHi, lo, hi uint32, parity bool, cfg Config) ([]cgfeEntry, error) {
	pats, err := encodeTCRange(lo, hi, cfg, parity)
	if err != nil {
		return nil, err
	}
	out := make([]cgfeEntry, 0, len(pats))
	for _, p := range pats {
		out = append(out, cgfeEntry{mscLo: mscLo, mscHi: mscHi, tc: p})
	}
	return out, nil
}

// encodeTCRange encodes a tail chunk range [lo, hi] as ternary
// patterns of (W-C)/C chunks. parity is the MSC parity of the block
// the pattern is nominally placed in: odd parity reflects the first
// chunk, and the reflection propagates through lower chunks via the
// low bit of each encoded chunk value. The produced pattern matches
// exactly [lo, hi] in blocks of the given parity and exactly the
// reflected range in blocks of the opposite parity.
func encodeTCRange(lo, hi uint32, cfg Config, parity bool) ([]string, error) {
	if lo > hi {
		return nil, nil
	}
	if tcCanDirectlyEncode(lo, hi, cfg) {
		p, err := tcDirect(lo, hi, cfg, parity)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}
	return tcDecompose(lo, hi, cfg, parity)
}

// tcDirect fence-encodes a directly encodable TC range chunk by
// chunk, carrying the reflection parity from chunk to chunk. The
// parity update uses the encoded chunk value, not the original one;
// this is what makes the same pattern match reflected ranges in
// opposite-parity blocks.
func tcDirect(lo, hi uint32, cfg Config, parity bool) (string, error) {
	numChunks := cfg.TCBits() / cfg.C
	maxChunk := uint32(cfg.ChunkMax())

	var sb strings.Builder
	for i := 0; i < numChunks; i++ {
		shift := (numChunks - 1 - i) * cfg.C
		sc := lo >> shift & maxChunk
		ec := hi >> shift & maxChunk

		encLo := sc
		if parity {
			sc, ec = maxChunk-ec, maxChunk-sc
			encLo = sc
		}
		fp, err := ternary.FenceRange(int(sc), int(ec), cfg.C)
		if err != nil {
			return "", err
		}
		sb.WriteString(string(fp))
		parity = parity != (encLo&1 == 1)
	}
	return sb.String(), nil
}

func tcCanDirectlyEncode(lo, hi uint32, cfg Config) bool {
	numChunks := cfg.TCBits() / cfg.C
	maxChunk := uint32(cfg.ChunkMax())
	foundDiff := false
	for i := 0; i < numChunks; i++ {
		shift := (numChunks - 1 - i) * cfg.C
		sc := lo >> shift & maxChunk
		ec := hi >> shift & maxChunk
		if sc > ec {
			return false
		}
		if foundDiff {
			if sc != 0 || ec != maxChunk {
				return false
			}
		} else if sc < ec {
			foundDiff = true
		}
	}
	return true
}

// tcDecompose splits a TC range at its highest differing chunk, the
// same high-bit-first strategy the DIRPE decomposition uses, and
// encodes each piece with the same placement parity.
func tcDecompose(lo, hi uint32, cfg Config, parity bool) ([]string, error) {
	numChunks := cfg.TCBits() / cfg.C
	maxChunk := uint32(cfg.ChunkMax())

	k := -1
	for i := 0; i < numChunks; i++ {
		shift := (numChunks - 1 - i) * cfg.C
		if lo>>shift&maxChunk != hi>>shift&maxChunk {
			k = i
			break
		}
	}
	if k == -1 {
		p, err := tcDirect(lo, hi, cfg, parity)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}

	remainingBits := (numChunks - k - 1) * cfg.C
	var remainingMask uint32
	if remainingBits > 0 {
		remainingMask = 1<<remainingBits - 1
	}
	scK := lo >> remainingBits & maxChunk
	ecK := hi >> remainingBits & maxChunk

	prefixShift := cfg.TCBits() - k*cfg.C
	var prefix uint32
	if k > 0 {
		prefix = lo >> prefixShift << prefixShift
	}

	var out []string

	leftEnd := prefix | scK<<remainingBits | remainingMask
	if lo <= leftEnd {
		sub, err := encodeTCRange(lo, leftEnd, cfg, parity)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	for c := scK + 1; c+1 <= ecK; c++ {
		base := prefix | c<<remainingBits
		sub, err := encodeTCRange(base, base|remainingMask, cfg, parity)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	rightStart := prefix | ecK<<remainingBits
	if rightStart <= hi && rightStart > leftEnd {
		sub, err := encodeTCRange(rightStart, hi, cfg, parity)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	return out, nil
}

// cgfeEncodePoint is the wildcard-free CGFE encoding of one value: the
// fence value of its MSC followed by the parity-propagated fence
// values of its TC chunks.
func cgfeEncodePoint(v uint32, cfg Config) (string, error) {
	bs := cfg.BlockSize()
	msc := v / bs
	fp, err := ternary.FenceValue(int(msc), cfg.C)
	if err != nil {
		return "", err
	}
	tc, err := tcDirect(v%bs, v%bs, cfg, oddMSC(msc))
	if err != nil {
		return "", err
	}
	return string(fp) + tc, nil
}
