// Command drugnet explores drug similarity networks from the terminal or over
// HTTP.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "drugnet: %v\n", err)
		os.Exit(1)
	}
}
