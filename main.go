package main

import (
	"os"

	"github.com/codalotl/diffpanels/internal/cli"
)

func main() {
	code, _ := cli.Run(os.Args, nil)
	os.Exit(code)
}
