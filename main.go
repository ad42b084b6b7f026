package main

import "github.com/chloroExtractorTeam/graph-parser/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
