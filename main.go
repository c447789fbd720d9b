package main

import (
	"os"

	"github.com/drrakendu78/unicreate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
