// Command cbsplan plans conflict-free multi-agent trajectories from YAML
// scenarios.
//
//	cbsplan solve scenario.yaml
//	cbsplan validate scenario.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/cbsplan/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cbsplan:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
