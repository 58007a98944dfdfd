package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "merge":
		if err := mergeCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validateCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := exportCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("stepweld version " + version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`stepweld - STEP assembly merging tool

Usage:
  stepweld <command> [options]

Commands:
  merge      Merge an assembly description into one STEP file
  validate   Parse a STEP file and check its references
  export     Dump a STEP file's entity graph into SQLite
  help       Show this help message
  version    Show version information

Examples:
  # Merge an assembly into a single STEP file
  stepweld merge assembly.json --output merged.stp

  # Check a STEP file
  stepweld validate merged.stp

  # Export the entity graph for inspection
  stepweld export merged.stp --db graph.sqlite

For command-specific help, run:
  stepweld <command> --help`)
}
