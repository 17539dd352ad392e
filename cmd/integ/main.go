// integ is the integration CI workflow CLI: it rebuilds the integration
// branch from declared topic branches and attributes build errors to them.
package main

import (
	"os"

	"github.com/integ-dev/integ/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
