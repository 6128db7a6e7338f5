package main

import "readscore/internal/cli"

func main() {
	cli.Execute()
}
