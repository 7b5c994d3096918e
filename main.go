package main

import "github.com/tasker-cli/tasker/cmd"

func main() {
	cmd.Execute()
}
