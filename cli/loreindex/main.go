package main

import (
	"os"

	loreindexcmder "github.com/thornmill/loreindex/cmd/loreindex"
)

func main() {
	cmd := loreindexcmder.NewLoreindexCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
