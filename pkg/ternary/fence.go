// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package ternary

import (
	"fmt"
	"strings"
)

// FenceValue encodes a single c-bit value as a thermometer code of
// 2^c-1 symbols: (2^c-1-v) zeros followed by v ones. Integer order of
// v corresponds to lexicographic order of the fence string.
func FenceValue(v, c int) (Pattern, error) {
	maxVal := 1 << c
	if v < 0 || v >= maxVal {
		return "", fmt.Errorf("fence value %d out of range [0, %d)", v, maxVal)
	}
	return Pattern(strings.Repeat("0", maxVal-1-v) + strings.Repeat("1", v)), nil
}

// FenceRange encodes a chunk-local range [s, e] as a single fence
// pattern: (2^c-1-e) zeros, (e-s) wildcards, s ones. Its match set is
// exactly the fence encodings of the values in [s, e].
func FenceRange(s, e, c int) (Pattern, error) {
	maxVal := 1 << c
	if s > e {
		return "", fmt.Errorf("fence range [%d, %d] has start above end", s, e)
	}
	if s < 0 || e >= maxVal {
		return "", fmt.Errorf("fence range [%d, %d] out of range [0, %d)", s, e, maxVal)
	}
	return Pattern(strings.Repeat("0", maxVal-1-e) +
		strings.Repeat("*", e-s) +
		strings.Repeat("1", s)), nil
}
