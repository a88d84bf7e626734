package main

import (
	"github.com/edushare/edushare/cmd"
)

func main() {
	cmd.Execute()
}
