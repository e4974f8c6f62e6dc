package main

import (
	"os"

	"github.com/wonny/stockaura/cmd/stockaura/commands"
)

// main is the entry point for the stockaura CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/stockaura [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
