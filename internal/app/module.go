package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/mohamkz/banking-app/internal/fraud"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.fraud.enabled") {
		closer, err := fraud.New(fraud.Dependency{
			Config:  a.config,
			Router:  a.router,
			Context: a.ctx,
		})
		if err != nil {
			slog.Error("failed to init module fraud", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Fraud"] = closer
		}
	}
}
