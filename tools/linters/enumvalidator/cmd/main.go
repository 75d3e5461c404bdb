package main

import (
	"github.com/relayforge/relay/tools/linters/enumvalidator"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
