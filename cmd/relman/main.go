package main

import "github.com/shipkit/relman/cmd/relman/cmd"

func main() {
	cmd.Execute()
}
