// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Moustachego/CGFE/pkg/logging/logfields"
	"github.com/Moustachego/CGFE/pkg/policy"
	"github.com/Moustachego/CGFE/pkg/tcam"
	"github.com/Moustachego/CGFE/pkg/ternary"
)

var (
	expandOutput  string
	expandCompare bool
	expandWorkers int
)

var expandCmd = &cobra.Command{
	Use:   "expand <rules-file>",
	Short: "Expand a classifier rule file into TCAM entries",
	Example: `  cgfe-dbg expand rules.txt
  cgfe-dbg expand --scheme srge --output tcam.txt rules.txt
  cgfe-dbg expand --compare rules.txt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		rules, err := policy.LoadRules(path)
		if err != nil {
			Fatalf("Cannot load rules from %s: %s", path, err)
		}
		if len(rules) == 0 {
			fmt.Println("No rules found")
			return
		}
		ipTable, portTable := policy.SplitRules(rules)

		scheme := viper.GetString("scheme")
		chunkWidth := viper.GetInt("chunk-width")

		if expandCompare {
			compareSchemes(portTable, chunkWidth)
			return
		}

		encode, err := encoderFor(scheme, chunkWidth)
		if err != nil {
			Fatalf("%s", err)
		}

		log.WithFields(logrus.Fields{
			logfields.Scheme:     scheme,
			logfields.ChunkWidth: chunkWidth,
			logfields.Rules:      len(rules),
		}).Debug("Expanding rules")

		entries, err := tcam.AssembleEntries(portTable, precompute(encode, portTable, expandWorkers))
		if err != nil {
			Fatalf("Cannot assemble TCAM entries: %s", err)
		}

		out := os.Stdout
		if expandOutput != "" {
			f, err := os.Create(expandOutput)
			if err != nil {
				Fatalf("Cannot create output file: %s", err)
			}
			defer f.Close()
			out = f
		}
		if err := tcam.WriteText(out, entries, ipTable); err != nil {
			Fatalf("Cannot write TCAM entries: %s", err)
		}
		fmt.Fprintf(os.Stderr, "%d rules -> %d TCAM entries (%.2fx)\n",
			len(rules), len(entries), float64(len(entries))/float64(len(rules)))
	},
}

// precompute encodes every distinct port range of the table up front
// with a bounded worker pool. The encoders are pure, so rules are
// independent units of work; the returned encoder just serves the
// results.
func precompute(encode tcam.Encoder, portTable []policy.PortRule, workers int) tcam.Encoder {
	if workers <= 1 {
		return encode
	}

	type key struct{ lo, hi uint16 }
	type result struct {
		ps  ternary.PatternSet
		err error
	}

	ranges := make(map[key]*result, 2*len(portTable))
	for _, pr := range portTable {
		ranges[key{pr.SrcPortLo, pr.SrcPortHi}] = &result{}
		ranges[key{pr.DstPortLo, pr.DstPortHi}] = &result{}
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for k, r := range ranges {
		k, r := k, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			r.ps, r.err = encode(k.lo, k.hi)
		}()
	}
	wg.Wait()

	return func(lo, hi uint16) (ternary.PatternSet, error) {
		if r, ok := ranges[key{lo, hi}]; ok {
			return r.ps, r.err
		}
		return encode(lo, hi)
	}
}

// compareSchemes prints the per-scheme expansion factors the way the
// original comparison tool does.
func compareSchemes(portTable []policy.PortRule, chunkWidth int) {
	fmt.Printf("%-10s %12s %12s\n", "SCHEME", "ENTRIES", "EXPANSION")
	for _, scheme := range []string{"baseline", "srge", "dirpe", "cgfe"} {
		encode, err := encoderFor(scheme, chunkWidth)
		if err != nil {
			Fatalf("%s", err)
		}
		entries, err := tcam.AssembleEntries(portTable, encode)
		if err != nil {
			Fatalf("Cannot assemble %s entries: %s", scheme, err)
		}
		fmt.Printf("%-10s %12d %11.2fx\n", scheme, len(entries),
			float64(len(entries))/float64(len(portTable)))
	}
}

func init() {
	RootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringVarP(&expandOutput, "output", "o", "", "Write TCAM entries to a file instead of stdout")
	expandCmd.Flags().BoolVar(&expandCompare, "compare", false, "Print the expansion factor of every scheme")
	expandCmd.Flags().IntVar(&expandWorkers, "workers", 4, "Concurrent encoding workers")
}
