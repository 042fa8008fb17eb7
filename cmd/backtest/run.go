// FILE: run.go
// Package main – runReplay wires ctx cancellation (Ctrl-C/SIGTERM) to the
// feed's cooperative Stop(), the same shutdown shape as the teacher's
// runLive/runBacktest honoring ctx.Done() between steps.
package main

import (
	"context"

	"github.com/chidi150c/backtestcore/internal/engine"
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

func runReplay(ctx context.Context, eng *engine.ReplayEngine, start, end timestamp.Timestamp) model.ResultBundle {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			eng.Feed().Stop()
		case <-done:
		}
	}()
	return eng.Run(start, end)
}
