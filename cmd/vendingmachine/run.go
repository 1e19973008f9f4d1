package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/fx"
)

// run starts the application, waits for a signal or an fx shutdown request and stops it
// within the fx stop timeout. The returned value is the process exit code.
func run(ctx context.Context, app *fx.App, stderr io.Writer) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start vendingmachine: %v\n", err)
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "failed to stop vendingmachine: %v\n", err)
		return 1
	}
	return code
}
