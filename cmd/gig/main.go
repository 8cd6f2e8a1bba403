package main

import "github.com/amterp/gig/internal/cli"

func main() {
	cli.Run()
}
