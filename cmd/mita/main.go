package main

import (
	"os"

	"github.com/teniee/mita-budget-engine/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
