// Command docq ingests documents into a local vector index and answers
// questions about them.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/doqa-labs/docq-cli/internal/adapters/driving/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for API keys; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
