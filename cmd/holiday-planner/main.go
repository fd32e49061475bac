package main

import (
	"os"

	"github.com/klabast/wb-services/holiday-planner/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
