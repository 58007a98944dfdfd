package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weldkit/go-stepweld/step"
)

func validateCmd(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: stepweld validate <file.stp>

Parse a STEP file and check that every entity reference targets an
entity present in the file. Prints a one-line summary on success.

Examples:
  stepweld validate merged.stp
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("STEP file required")
	}
	stepFile := fs.Arg(0)

	data, err := os.ReadFile(stepFile)
	if err != nil {
		return fmt.Errorf("read STEP file: %w", err)
	}

	model, err := step.Parse(data)
	if err != nil {
		return err
	}
	if err := model.Validate(); err != nil {
		return err
	}

	schema := ""
	for _, h := range model.Header {
		if h.Name != "FILE_SCHEMA" || len(h.Args) == 0 {
			continue
		}
		if list, ok := h.Args[0].(step.List); ok && len(list) > 0 {
			if s, ok := list[0].(step.String); ok {
				schema = string(s)
			}
		}
	}

	fmt.Printf("%s: %d entities, next id #%d, schema %q, references OK\n",
		stepFile, model.Len(), model.NextID, schema)
	return nil
}
