package main

import "github.com/antiphoton/postflop-solver/cmd"

func main() {
	cmd.Execute()
}
