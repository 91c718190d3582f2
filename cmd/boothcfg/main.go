// Command boothcfg inspects the photo-booth configuration registry.
package main

import (
	"fmt"
	"os"

	"github.com/opencode-ai/photobooth/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
