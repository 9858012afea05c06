// Command ironwood runs the bundled demo programs and inspects their IR.
package main

import (
	"os"

	"github.com/ironwood-ui/ironwood/cmd/ironwood/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
