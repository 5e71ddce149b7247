package main

import (
	"os"

	"github.com/liberfy/open2fa/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
