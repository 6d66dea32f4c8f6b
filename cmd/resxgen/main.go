package main

import (
	"github.com/joho/godotenv"
)

// main is the entry point for the resxgen application. A .env file in the
// working directory, when present, seeds RESXGEN_* environment variables
// before the Cobra command parses configuration. Error handling (printing
// errors and setting the exit code) is managed within Cobra's Execute pattern.
func main() {
	_ = godotenv.Load()
	Execute()
}
