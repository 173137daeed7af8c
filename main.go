package main

import (
	"fmt"
	"os"

	"github.com/LumeraProtocol/validator-registry/cmd"
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := cmd.Execute(Version, GitCommit, BuildTime); err != nil {
		// %+v carries the stack recorded by github.com/pkg/errors
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
