package main

import "quest-sync/cmd"

func main() {
	cmd.Execute()
}
