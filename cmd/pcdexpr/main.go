// Command pcdexpr evaluates firmware build directive and PCD expressions
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/edk2tools/pcdexpr/cmd/pcdexpr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
