// Package main provides the autograd CLI: it trains a small regression model
// with the reverse-mode engine and exports computation graphs.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func usage() {
	fmt.Fprintf(os.Stderr, "autograd %s - define-by-run reverse-mode differentiation for Go\n\n", version)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version    Show version")
	fmt.Fprintln(os.Stderr, "  train      Fit a linear regression on synthetic data")
	fmt.Fprintln(os.Stderr, "  dot        Print the computation graph of a small expression in DOT format")
	fmt.Fprintln(os.Stderr, "\nRun 'autograd <command> -help' for the flags of a command.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	args := os.Args[2:]
	switch os.Args[1] {
	case "version":
		fmt.Printf("autograd %s\n", version)
	case "train":
		runTrain(args)
	case "dot":
		runDot(args)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}
