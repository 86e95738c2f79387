package main

import "github.com/mpapenbr/iracelog-telemetry-analyzer/cmd"

func main() {
	cmd.Execute()
}
