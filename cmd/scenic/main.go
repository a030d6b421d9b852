package main

import (
	"os"

	"github.com/eranshir/scenic/internal/buildinfo"
	"github.com/eranshir/scenic/internal/client/cli"

	_ "modernc.org/sqlite"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)
	os.Exit(cli.Run())
}
