package main

import "github.com/ppiankov/claimgate/internal/cli"

func main() {
	cli.Execute()
}
