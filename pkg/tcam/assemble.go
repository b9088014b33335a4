// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

// Package tcam assembles encoded port patterns into TCAM entries and
// writes them out in the classifier text format.
package tcam

import (
	"errors"
	"fmt"
	"io"

	"github.com/Moustachego/CGFE/pkg/logging"
	"github.com/Moustachego/CGFE/pkg/logging/logfields"
	"github.com/Moustachego/CGFE/pkg/policy"
	"github.com/Moustachego/CGFE/pkg/ternary"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "tcam")

// ErrNoMatchingIPRule is returned when an entry's priority has no
// counterpart in the IP table.
var ErrNoMatchingIPRule = errors.New("no IP rule for priority")

// Entry is one TCAM line in the port dimensions. Priority and action
// are carried through from the originating rule unchanged.
type Entry struct {
	SrcPattern ternary.Pattern
	DstPattern ternary.Pattern
	Priority   uint32
	Action     string
}

// Encoder turns one port interval into a ternary pattern set. The
// three rangecode encoders and the prefix baseline all satisfy it.
type Encoder func(lo, hi uint16) (ternary.PatternSet, error)

// AssembleEntries expands each port rule into the Cartesian product of
// its encoded source and destination pattern sets. The blow-up factor
// per rule is |SP| * |DP|; it is intrinsic to TCAMs matching the two
// fields independently.
func AssembleEntries(portTable []policy.PortRule, encode Encoder) ([]Entry, error) {
	var entries []Entry
	for _, pr := range portTable {
		sp, err := encode(pr.SrcPortLo, pr.SrcPortHi)
		if err != nil {
			return nil, fmt.Errorf("rule %d source ports: %w", pr.RID, err)
		}
		dp, err := encode(pr.DstPortLo, pr.DstPortHi)
		if err != nil {
			return nil, fmt.Errorf("rule %d destination ports: %w", pr.RID, err)
		}
		for _, s := range sp {
			for _, d := range dp {
				entries = append(entries, Entry{
					SrcPattern: s,
					DstPattern: d,
					Priority:   pr.Priority,
					Action:     pr.Action,
				})
			}
		}
	}
	log.WithField(logfields.Rules, len(portTable)).
		WithField(logfields.Entries, len(entries)).
		Debug("Assembled TCAM entries")
	return entries, nil
}

// WriteText emits one line per entry in the form
//
//	SRC_IP DST_IP SRC_PAT DST_PAT 0xPP ACTION
//
// pairing each entry with the IP rule of the same priority. Entries
// are emitted grouped by priority in table order.
func WriteText(w io.Writer, entries []Entry, ipTable []policy.IPRule) error {
	byPriority := make(map[uint32][]Entry, len(ipTable))
	for _, e := range entries {
		byPriority[e.Priority] = append(byPriority[e.Priority], e)
	}

	seen := make(map[uint32]bool, len(ipTable))
	for _, ipr := range ipTable {
		group, ok := byPriority[ipr.Priority]
		if !ok || seen[ipr.Priority] {
			continue
		}
		seen[ipr.Priority] = true
		for _, e := range group {
			_, err := fmt.Fprintf(w, "%s %s %s %s 0x%02x %s\n",
				formatIP(ipr.SrcIPLo), formatIP(ipr.DstIPLo),
				e.SrcPattern, e.DstPattern, ipr.Proto, e.Action)
			if err != nil {
				return err
			}
		}
		delete(byPriority, ipr.Priority)
	}

	for prio := range byPriority {
		return fmt.Errorf("%w: %d", ErrNoMatchingIPRule, prio)
	}
	return nil
}

func formatIP(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip>>24&0xff, ip>>16&0xff, ip>>8&0xff, ip&0xff)
}
