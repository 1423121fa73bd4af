package main

import (
	"github.com/mvp-joe/polyscope/internal/cli"
)

func main() {
	cli.Execute()
}
