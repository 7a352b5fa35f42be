package main

import (
	"os"

	"github.com/ghm/hotel-booking/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
