package main

import (
	"os"

	"github.com/vitos/trade_journal/cmd/journal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
