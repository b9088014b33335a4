// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package tcam

import (
	"strings"

	"github.com/Moustachego/CGFE/pkg/ternary"
)

// MaskedPort is a port with a wildcard mask: a zero mask bit leaves
// the corresponding port bit unconstrained.
type MaskedPort struct {
	Port uint16
	Mask uint16
}

// Pattern renders the masked port as a 16-symbol binary ternary
// string, MSB first.
func (m MaskedPort) Pattern() ternary.Pattern {
	var sb strings.Builder
	sb.Grow(16)
	for i := 15; i >= 0; i-- {
		switch {
		case m.Mask>>i&1 == 0:
			sb.WriteByte('*')
		case m.Port>>i&1 == 1:
			sb.WriteByte('1')
		default:
			sb.WriteByte('0')
		}
	}
	return ternary.Pattern(sb.String())
}

// PortRangeToPrefixes greedily covers [lo, hi] with maximal aligned
// power-of-two blocks, the classic prefix expansion a TCAM without
// range encoding has to fall back to. A 16-bit range costs up to 30
// entries this way; the rangecode encoders exist to beat it.
func PortRangeToPrefixes(lo, hi uint16) []MaskedPort {
	if lo > hi {
		return nil
	}
	var out []MaskedPort
	s := uint32(lo)
	for s <= uint32(hi) {
		k := 0
		for k < 16 && s&(1<<(k+1)-1) == 0 && s+1<<(k+1)-1 <= uint32(hi) {
			k++
		}
		mask := uint16(0)
		if k < 16 {
			mask = 0xffff << k
		}
		out = append(out, MaskedPort{Port: uint16(s), Mask: mask})
		s += 1 << k
	}
	return out
}

// EncodeBaseline is the Encoder for the naive prefix expansion,
// used by the CLI to report what the real encoders improve on.
func EncodeBaseline(lo, hi uint16) (ternary.PatternSet, error) {
	prefixes := PortRangeToPrefixes(lo, hi)
	out := make(ternary.PatternSet, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, p.Pattern())
	}
	return out, nil
}
