package main

import "github.com/jaminalder/tictactoe-ai/internal/cli"

func main() {
	cli.Execute()
}
