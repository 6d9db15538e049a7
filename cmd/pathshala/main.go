// Package main is the entry point for the pathshala CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/pathshala/pathshala/internal/cli"
)

func main() {
	// Optional .env for embedding API keys; absence is fine.
	_ = godotenv.Load()
	cli.Execute()
}
