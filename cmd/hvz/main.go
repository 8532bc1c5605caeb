package main

import (
	"github.com/hvzgame/hvz-server/internal/cli"
)

func main() {
	cli.Execute()
}
