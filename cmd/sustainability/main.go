package main

import (
	"os"

	"github.com/danielpatrickdp/sustainability-index/internal/cli"
)

// #region main
func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

// #endregion main
