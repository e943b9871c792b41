package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/johanmcad/workbench/internal/cli"
)

func main() {
	// Optional .env for the community API key; absence is not an error.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
