// Package main renders markdown reference pages for the scout CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/resellkit/listing-scout/cmd/scout/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "directory to write markdown pages into")
	flag.Parse()

	if err := run(*output); err != nil {
		fmt.Fprintln(os.Stderr, "docgen:", err)
		os.Exit(1)
	}
	fmt.Println("wrote CLI docs to", *output)
}

func run(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}
