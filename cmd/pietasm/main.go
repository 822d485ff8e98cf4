// Command pietasm assembles Piet assembly source into PNG program
// images, and can run or check a source file without materializing one.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
