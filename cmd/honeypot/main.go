package main

import (
	"os"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/cli"
	"github.com/tillberg/autorestart"
)

func main() {
	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
