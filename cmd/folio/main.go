// Command folio runs document history scenarios and inspects their traces.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/folio/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
