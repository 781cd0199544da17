package main

import "github.com/aallbrig/compspec/cmd"

func main() {
	cmd.Execute()
}
