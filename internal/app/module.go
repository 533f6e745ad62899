package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/hjiayz/shortid/internal/issue"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.issue.enabled") {
		closer, err := issue.New(issue.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			Bytes:     a.generator,
			Numbers:   a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module issue", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Issue"] = closer
		}
	}
}
