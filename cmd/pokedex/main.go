package main

import "github.com/ignite/pokedex/internal/cli"

func main() {
	cli.Execute()
}
