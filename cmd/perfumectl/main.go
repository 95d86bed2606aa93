package main

import (
	"os"

	"github.com/Maverickd18/Frontend-Perfume-sub000/cmd/perfumectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
