// Command execfilterctl is an operator-facing companion to the preload
// library: it replays canonicalization, resolution, association, and
// decision logic against the same policy files the preload library
// reads, and can watch those files for changes.
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
