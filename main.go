package main

import "github.com/solorzano0401/genesis-tools/cmd"

func main() {
	cmd.Execute()
}
