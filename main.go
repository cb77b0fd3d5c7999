package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/haven/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "haven: %v\n", err)
		os.Exit(1)
	}
}
