package main

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/benchtable/internal/app"
	"github.com/blackwell-systems/benchtable/internal/output"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", output.ErrorPrefix(os.Stderr), err)
		os.Exit(1)
	}
}
