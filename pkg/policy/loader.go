// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package policy

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/Moustachego/CGFE/pkg/logging"
	"github.com/Moustachego/CGFE/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "policy")

// LoadRules reads a classifier rule file. Blank lines and lines starting
// with '#' are skipped; every other line holds one rule:
//
//	@src_ip/len dst_ip/len lo : hi lo : hi proto/mask action
//
// for example
//
//	@70.240.214.0/24 112.64.0.0/16 0 : 65535 1521 : 1521 0x06/0xff 0x0000/0x0200
//
// Priority is the position in the file, first rule highest (0).
func LoadRules(path string) ([]Rule5D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rule file: %w", err)
	}
	defer f.Close()
	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse rule file %s: %w", path, err)
	}
	log.WithField(logfields.Path, path).WithField(logfields.Rules, len(rules)).Debug("Loaded classifier rules")
	return rules, nil
}

// ParseRules parses rule lines from a reader. See LoadRules for the
// line format.
func ParseRules(r io.Reader) ([]Rule5D, error) {
	var rules []Rule5D
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseRuleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		rule.Priority = uint32(len(rules))
		if err := rule.Sanitize(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

func parseRuleLine(line string) (Rule5D, error) {
	var r Rule5D

	line = strings.TrimPrefix(line, "@")
	fields := strings.Fields(line)
	// "lo : hi" port ranges contribute three fields each.
	if len(fields) != 10 {
		return r, fmt.Errorf("%w: expected 10 fields, got %d", ErrMalformedRule, len(fields))
	}

	var err error
	r.SrcIPLo, r.SrcIPHi, r.SrcPrefixLen, err = parseCIDR(fields[0])
	if err != nil {
		return r, err
	}
	r.DstIPLo, r.DstIPHi, r.DstPrefixLen, err = parseCIDR(fields[1])
	if err != nil {
		return r, err
	}
	r.SrcPortLo, r.SrcPortHi, err = parsePortRange(fields[2], fields[3], fields[4])
	if err != nil {
		return r, err
	}
	r.DstPortLo, r.DstPortHi, err = parsePortRange(fields[5], fields[6], fields[7])
	if err != nil {
		return r, err
	}
	r.Proto, r.ProtoMask, err = parseProto(fields[8])
	if err != nil {
		return r, err
	}
	r.Action = fields[9]
	return r, nil
}

func parseCIDR(s string) (lo, hi uint32, prefixLen int, err error) {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		// Allow a bare address as a /32.
		addr, aerr := netip.ParseAddr(s)
		if aerr != nil {
			return 0, 0, 0, fmt.Errorf("%w: bad CIDR %q: %v", ErrMalformedRule, s, err)
		}
		prefix = netip.PrefixFrom(addr, addr.BitLen())
	}
	if !prefix.Addr().Is4() {
		return 0, 0, 0, fmt.Errorf("%w: %q is not IPv4", ErrMalformedRule, s)
	}
	b := prefix.Masked().Addr().As4()
	lo = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	prefixLen = prefix.Bits()
	hi = lo | ^uint32(0)>>prefixLen
	return lo, hi, prefixLen, nil
}

func parsePortRange(loStr, sep, hiStr string) (lo, hi uint16, err error) {
	if sep != ":" {
		return 0, 0, fmt.Errorf("%w: port range separator %q", ErrMalformedRule, sep)
	}
	l, err := strconv.ParseUint(loStr, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad port %q: %v", ErrMalformedRule, loStr, err)
	}
	h, err := strconv.ParseUint(hiStr, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad port %q: %v", ErrMalformedRule, hiStr, err)
	}
	return uint16(l), uint16(h), nil
}

func parseProto(s string) (proto, mask uint8, err error) {
	val, maskStr, ok := strings.Cut(s, "/")
	if !ok {
		maskStr = "0xff"
	}
	p, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad protocol %q: %v", ErrMalformedRule, s, err)
	}
	m, err := strconv.ParseUint(strings.TrimPrefix(maskStr, "0x"), 16, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad protocol mask %q: %v", ErrMalformedRule, s, err)
	}
	return uint8(p), uint8(m), nil
}
