// Package main is the entry point for the scout CLI.
package main

import "github.com/resellkit/listing-scout/cmd/scout/cmd"

func main() {
	cmd.Execute()
}
