package main

import (
	cmd "github.com/getzep/corenlp/cmd/corenlp"
)

func main() {
	cmd.Execute()
}
