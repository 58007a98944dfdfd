package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weldkit/go-stepweld/export"
	"github.com/weldkit/go-stepweld/step"
)

func exportCmd(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	db := fs.String("db", "graph.sqlite", "SQLite database path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: stepweld export <file.stp> [options]

Dump a STEP file's entity graph into a SQLite database for debugging:
one row per entity, one row per reference edge, tagged with a run id.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  stepweld export merged.stp --db graph.sqlite

  # Then inspect with the sqlite3 shell, e.g.
  #   SELECT type, COUNT(*) FROM entities GROUP BY type ORDER BY 2 DESC;
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

	store, err := export.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.Dump(stepFile, model)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d entities from %s to %s (run %s)\n",
		model.Len(), stepFile, *db, runID)
	return nil
}
