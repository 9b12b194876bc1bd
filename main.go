package main

import "github.com/telebus/telebus/cmd"

func main() {
	cmd.Execute()
}
