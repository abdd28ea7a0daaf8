package main

import (
	"github.com/mcoot/sharedlist-go/internal/cli"
)

func main() {
	cli.Execute()
}
