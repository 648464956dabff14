// Package main is the entry point for the auratheme application.
package main

import (
	"os"

	"github.com/jmylchreest/auratheme/cmd/auratheme/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
