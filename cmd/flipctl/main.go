package main

import "github.com/fastprodman/fliprooms/internal/cli"

func main() {
	cli.Execute()
}
