// Command imgsearch searches Flickr images from the terminal.
package main

import (
	"os"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/cli"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
