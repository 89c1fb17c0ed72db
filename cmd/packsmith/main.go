package main

import "packsmith/internal/cli"

func main() {
	cli.Execute()
}
