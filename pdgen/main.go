package main

import (
	"github.com/tutils/pdgen/cmd"
)

func main() {
	cmd.Execute()
}
