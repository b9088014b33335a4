// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of CGFE

package main

import (
	"github.com/Moustachego/CGFE/cmd/cgfe-dbg/cmd"
)

func main() {
	cmd.Execute()
}
