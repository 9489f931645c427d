// Package main provides the entry point for the API explorer CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/api-explorer/internal/cli"
	"github.com/GabrielNunesIT/go-libs/logger"
)

func main() {
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log)
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
