package main

import (
	"log/slog"
	"os"

	"github.com/alanyang/agent-status/internal/cli"
)

func main() {
	if err := cli.ServeCommand("server").Execute(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
