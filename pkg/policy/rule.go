// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

// Package policy holds the classification rule records consumed by the
// encoders: parsed 5-tuple rules and their IP-table and port-table
// projections.
package policy

import (
	"errors"
	"fmt"
)

// ErrMalformedRule is returned when a rule line cannot be parsed or
// fails validation.
var ErrMalformedRule = errors.New("malformed rule")

// Rule5D is one 5-tuple packet classification rule. IP dimensions are
// kept as value ranges derived from their CIDR prefixes; port
// dimensions are inclusive intervals. The action is an opaque
// value/mask string carried through unchanged.
type Rule5D struct {
	SrcIPLo, SrcIPHi uint32
	DstIPLo, DstIPHi uint32
	SrcPrefixLen     int
	DstPrefixLen     int

	SrcPortLo, SrcPortHi uint16
	DstPortLo, DstPortHi uint16

	Proto     uint8
	ProtoMask uint8

	Priority uint32
	Action   string
}

// Sanitize validates the rule's internal consistency.
func (r *Rule5D) Sanitize() error {
	if r.SrcPortLo > r.SrcPortHi {
		return fmt.Errorf("%w: source port range %d-%d inverted", ErrMalformedRule, r.SrcPortLo, r.SrcPortHi)
	}
	if r.DstPortLo > r.DstPortHi {
		return fmt.Errorf("%w: destination port range %d-%d inverted", ErrMalformedRule, r.DstPortLo, r.DstPortHi)
	}
	if r.SrcPrefixLen < 0 || r.SrcPrefixLen > 32 {
		return fmt.Errorf("%w: source prefix length %d", ErrMalformedRule, r.SrcPrefixLen)
	}
	if r.DstPrefixLen < 0 || r.DstPrefixLen > 32 {
		return fmt.Errorf("%w: destination prefix length %d", ErrMalformedRule, r.DstPrefixLen)
	}
	return nil
}

// IPRule is the IP and protocol projection of a rule.
type IPRule struct {
	SrcIPLo, SrcIPHi uint32
	DstIPLo, DstIPHi uint32
	SrcPrefixLen     int
	DstPrefixLen     int
	Proto            uint8
	Priority         uint32
}

// PortRule is the port projection of a rule, the unit of work for the
// range encoders.
type PortRule struct {
	RID                  uint32
	SrcPortLo, SrcPortHi uint16
	DstPortLo, DstPortHi uint16
	Priority             uint32
	Action               string
}

// SplitRules decomposes parsed rules into the IP-table and port-table
// projections, linked by priority.
func SplitRules(rules []Rule5D) (ipTable []IPRule, portTable []PortRule) {
	ipTable = make([]IPRule, 0, len(rules))
	portTable = make([]PortRule, 0, len(rules))
	for i, r := range rules {
		ipTable = append(ipTable, IPRule{
			SrcIPLo:      r.SrcIPLo,
			SrcIPHi:      r.SrcIPHi,
			DstIPLo:      r.DstIPLo,
			DstIPHi:      r.DstIPHi,
			SrcPrefixLen: r.SrcPrefixLen,
			DstPrefixLen: r.DstPrefixLen,
			Proto:        r.Proto,
			Priority:     r.Priority,
		})
		portTable = append(portTable, PortRule{
			RID:       uint32(i),
			SrcPortLo: r.SrcPortLo,
			SrcPortHi: r.SrcPortHi,
			DstPortLo: r.DstPortLo,
			DstPortHi: r.DstPortHi,
			Priority:  r.Priority,
			Action:    r.Action,
		})
	}
	return ipTable, portTable
}
