package main

import (
	"github.com/linistrate/linictl/cmd"
)

func main() {
	cmd.Execute()
}
