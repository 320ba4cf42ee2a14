package main

import "github.com/spielhuus/recad/cmd/recad/cmd"

func main() {
	cmd.Execute()
}
