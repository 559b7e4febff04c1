package main

import "github.com/mcoot/musicchallenge/internal/cli"

func main() {
	cli.Execute()
}
