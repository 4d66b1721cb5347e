// Command phototune applies image adjustments from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/gopixel/phototune/cmd/phototune/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
