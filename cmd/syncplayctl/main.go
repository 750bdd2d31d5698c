package main

import (
	"github.com/nilsen-dev/syncplay/internal/cli"
)

func main() {
	cli.Execute()
}
