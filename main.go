package main

import (
	"os"

	"github.com/techdigest-vietnam/techdigest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
