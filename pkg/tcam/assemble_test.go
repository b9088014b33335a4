// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package tcam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Moustachego/CGFE/pkg/policy"
	"github.com/Moustachego/CGFE/pkg/rangecode"
	"github.com/Moustachego/CGFE/pkg/ternary"
)

func srgeEncoder(lo, hi uint16) (ternary.PatternSet, error) {
	return rangecode.EncodeSRGE(lo, hi)
}

func TestAssembleEntriesCartesian(t *testing.T) {
	portTable := []policy.PortRule{
		{
			RID:       0,
			SrcPortLo: 0, SrcPortHi: 65535,
			DstPortLo: 1521, DstPortHi: 1521,
			Priority: 0,
			Action:   "0x0000/0x0200",
		},
		{
			RID:       1,
			SrcPortLo: 1024, SrcPortHi: 65535,
			DstPortLo: 80, DstPortHi: 80,
			Priority: 1,
			Action:   "0x1000/0x1000",
		},
	}

	entries, err := AssembleEntries(portTable, srgeEncoder)
	require.NoError(t, err)

	sp0, err := rangecode.EncodeSRGE(0, 65535)
	require.NoError(t, err)
	dp0, err := rangecode.EncodeSRGE(1521, 1521)
	require.NoError(t, err)
	sp1, err := rangecode.EncodeSRGE(1024, 65535)
	require.NoError(t, err)
	dp1, err := rangecode.EncodeSRGE(80, 80)
	require.NoError(t, err)

	require.Len(t, entries, len(sp0)*len(dp0)+len(sp1)*len(dp1))

	// Priority and action ride along unmodified.
	for _, e := range entries {
		switch e.Priority {
		case 0:
			require.Equal(t, "0x0000/0x0200", e.Action)
		case 1:
			require.Equal(t, "0x1000/0x1000", e.Action)
		default:
			t.Fatalf("unexpected priority %d", e.Priority)
		}
	}
}

func TestWriteText(t *testing.T) {
	ipTable := []policy.IPRule{
		{
			SrcIPLo:      uint32(10)<<24 | 1,
			DstIPLo:      uint32(192)<<24 | 168<<16 | 1<<8 | 2,
			SrcPrefixLen: 32, DstPrefixLen: 32,
			Proto:    0x06,
			Priority: 0,
		},
	}
	entries := []Entry{
		{SrcPattern: "****************", DstPattern: "0000011111010001", Priority: 0, Action: "0x0000/0x0200"},
	}

	var sb strings.Builder
	require.NoError(t, WriteText(&sb, entries, ipTable))
	require.Equal(t,
		"10.0.0.1 192.168.1.2 **************** 0000011111010001 0x06 0x0000/0x0200\n",
		sb.String())
}

func TestWriteTextGroupsByPriority(t *testing.T) {
	ipTable := []policy.IPRule{
		{Priority: 0, Proto: 0x06},
		{Priority: 1, Proto: 0x11},
	}
	// Entries arrive interleaved; output must be grouped.
	entries := []Entry{
		{SrcPattern: "0", DstPattern: "0", Priority: 1, Action: "a"},
		{SrcPattern: "1", DstPattern: "1", Priority: 0, Action: "b"},
		{SrcPattern: "2", DstPattern: "2", Priority: 1, Action: "a"},
	}

	var sb strings.Builder
	require.NoError(t, WriteText(&sb, entries, ipTable))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], " 0x06 b")
	require.Contains(t, lines[1], " 0x11 a")
	require.Contains(t, lines[2], " 0x11 a")
}

func TestWriteTextMissingIPRule(t *testing.T) {
	entries := []Entry{{Priority: 7}}
	var sb strings.Builder
	require.ErrorIs(t, WriteText(&sb, entries, nil), ErrNoMatchingIPRule)
}

func TestPortRangeToPrefixes(t *testing.T) {
	// Aligned block collapses to a single prefix.
	ps := PortRangeToPrefixes(1024, 2047)
	require.Equal(t, []MaskedPort{{Port: 1024, Mask: 0xfc00}}, ps)

	// Full range is one all-wildcard entry.
	ps = PortRangeToPrefixes(0, 65535)
	require.Equal(t, []MaskedPort{{Port: 0, Mask: 0}}, ps)
	require.Equal(t, ternary.Pattern("****************"), ps[0].Pattern())

	// The classic worst case blows up to 30 entries.
	ps = PortRangeToPrefixes(1, 65534)
	require.Len(t, ps, 30)

	// Coverage is exact.
	for _, r := range []struct{ lo, hi uint16 }{{1, 65534}, {6, 9}, {1000, 1999}, {80, 80}} {
		ps := PortRangeToPrefixes(r.lo, r.hi)
		for v := uint32(0); v <= 65535; v += 13 {
			matched := false
			for _, p := range ps {
				if uint16(v)&p.Mask == p.Port {
					matched = true
					break
				}
			}
			require.Equal(t, uint32(r.lo) <= v && v <= uint32(r.hi), matched,
				"[%d, %d] value %d", r.lo, r.hi, v)
		}
	}
}

func TestEncodeBaselinePatterns(t *testing.T) {
	ps, err := EncodeBaseline(6, 9)
	require.NoError(t, err)
	// [6,7], [8,9].
	require.Equal(t, ternary.PatternSet{
		"000000000000011*",
		"000000000000100*",
	}, ps)
}
