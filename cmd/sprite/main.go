// Command sprite bootstraps the Sprite multi-agent toolkit: it resolves
// the agent binary on the host, installs it when missing or broken, and
// delegates all real command handling to it.
package main

import (
	"os"

	"github.com/hotaq/sprite-launcher/internal/launcher"
)

func main() {
	os.Exit(launcher.Main())
}
