// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Moustachego/CGFE/pkg/rangecode"
	"github.com/Moustachego/CGFE/pkg/tcam"
	"github.com/Moustachego/CGFE/pkg/ternary"
)

var encodeSeparators bool

// encoderFor resolves a scheme name to its encoder function.
func encoderFor(scheme string, chunkWidth int) (tcam.Encoder, error) {
	switch scheme {
	case "srge":
		return func(lo, hi uint16) (ternary.PatternSet, error) {
			return rangecode.EncodeSRGE(lo, hi)
		}, nil
	case "dirpe":
		return func(lo, hi uint16) (ternary.PatternSet, error) {
			return rangecode.EncodeDIRPE(lo, hi, chunkWidth)
		}, nil
	case "cgfe":
		return func(lo, hi uint16) (ternary.PatternSet, error) {
			return rangecode.EncodeCGFE(lo, hi, chunkWidth)
		}, nil
	case "baseline":
		return tcam.EncodeBaseline, nil
	}
	return nil, fmt.Errorf("unknown scheme %q", scheme)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <lo> <hi>",
	Short: "Encode one port range into ternary patterns",
	Example: `  cgfe-dbg encode 1024 2047
  cgfe-dbg encode --scheme srge 6 14
  cgfe-dbg encode --scheme dirpe -c 4 1000 1999`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		lo, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			Fatalf("Invalid range start %q: %s", args[0], err)
		}
		hi, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			Fatalf("Invalid range end %q: %s", args[1], err)
		}

		scheme := viper.GetString("scheme")
		chunkWidth := viper.GetInt("chunk-width")
		encode, err := encoderFor(scheme, chunkWidth)
		if err != nil {
			Fatalf("%s", err)
		}

		patterns, err := encode(uint16(lo), uint16(hi))
		if err != nil {
			Fatalf("Cannot encode [%d, %d]: %s", lo, hi, err)
		}

		chunkLen := 0
		if encodeSeparators && (scheme == "dirpe" || scheme == "cgfe") {
			chunkLen = 1<<chunkWidth - 1
		}
		for _, p := range patterns {
			if chunkLen > 0 {
				fmt.Println(p.WithSeparators(chunkLen))
			} else {
				fmt.Println(p)
			}
		}
		fmt.Printf("%d pattern(s)\n", len(patterns))
	},
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVar(&encodeSeparators, "separators", false, "Print a space between chunks")
}
