// Package main is the entry point for the listing-scout server.
package main

import (
	"os"

	"github.com/resellkit/listing-scout/cmd/listing-scout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
