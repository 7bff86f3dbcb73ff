package main

import (
	"fmt"
	"os"

	"github.com/petebeckett/ocmetrics/internal/app"
)

func main() {
	cfg := app.LoadConfig()

	application := app.New(cfg)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
