package main

import (
	"fmt"
	"os"

	"opencaption/cmd/opencaption/cmd"
	"opencaption/internal/config"
)

func main() {
	// A missing .env is fine; every setting has a YAML or built-in default.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
