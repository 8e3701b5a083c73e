package main

import (
	"os"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/cmd"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && cmd.IsSubcommand(args[0]) {
		cmd.Execute(args)
		return
	}
	cmd.Serve(args)
}
