// PresentPack decides which regions under the tree can hold their presents.
//
// Build:
//   go build -o presentpack ./cmd/presentpack
//
// Usage:
//   presentpack solve input.txt
//   presentpack solve input.txt --show --pdf report.pdf --xlsx result.xlsx
//   presentpack compare input.txt
//   presentpack watch input.txt

package main

import (
	"os"

	"github.com/piwi3910/PresentPack/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
