// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

// Package logfields defines common logging fields which are used across packages
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// Path is an absolute or relative file path
	Path = "path"

	// Rule is a policy rule or its identifier
	Rule = "rule"

	// Rules is the number of rules processed
	Rules = "rules"

	// Priority is the rule priority carried through to TCAM entries
	Priority = "priority"

	// Scheme is the range-encoding scheme in use
	Scheme = "scheme"

	// ChunkWidth is the chunk bit-width of a chunked encoding
	ChunkWidth = "chunkWidth"

	// Port is a single L4 port number
	Port = "port"

	// PortRange is an L4 port interval in lo-hi form
	PortRange = "portRange"

	// Patterns is the number of ternary patterns produced
	Patterns = "patterns"

	// Entries is the number of TCAM entries produced
	Entries = "entries"
)
