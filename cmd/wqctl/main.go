// Command wqctl scores water readings and manages reference data from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/wargaair/water-safety-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
