// Command shtairir-validate loads a manifest tree from disk and reports
// every block- and graph-level violation it finds.
package main

import (
	"fmt"
	"os"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/registry"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/source"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/validate"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: shtairir-validate <manifest-root>")
		os.Exit(1)
	}
	root := os.Args[1]

	src := source.NewYAML(root)
	reg, err := registry.Build(src, registry.Options{})
	if err != nil {
		fmt.Println("failed to build registry:", err)
		os.Exit(1)
	}

	report := validate.Registry(reg)
	if report.OK() {
		fmt.Printf("registry OK: %d blocks, %d graphs\n", len(reg.Blocks()), len(reg.Graphs()))
		return
	}

	for path, err := range report.BlockErrors {
		fmt.Printf("block %s: %s\n", path, err)
	}
	for path, gerr := range report.GraphErrors {
		fmt.Printf("graph %s:\n%s\n", path, gerr.Error())
	}
	os.Exit(1)
}
