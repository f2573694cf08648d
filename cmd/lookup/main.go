// lookup is an operator tool for the company directory: it resolves names
// the same way the API does and checks dataset files before deploys.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
