package main

import (
	"github.com/robotalks/doorlock/pkg/cli/sh"
	"github.com/robotalks/doorlock/pkg/env"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
