package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/mohamkz/banking-app/internal/pkg/pkglog"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
	"github.com/mohamkz/banking-app/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid pkguid.StringID

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	pkglog.InitLogging(app.config.GetString("service.name"), os.Stdout, pkglog.ParseLevel(app.config.GetString("log.level")))

	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
