package main

import (
	"os"

	"zrtp/cmd/zrtp-endpoint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
