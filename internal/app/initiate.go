package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
	"github.com/mohamkz/banking-app/internal/pkg/pkguid"
	"github.com/rs/cors"
)

// Defaults are the scorer settings used when neither the config file nor
// the environment sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"service.name":               "fraud-scorer",
		"log.level":                  "info",
		"tz":                         "UTC",
		"server.address.http":        ":8000",
		"server.timeout.read_header": "10s",
		"server.timeout.read":        "15s",
		"server.timeout.write":       "15s",
		"server.timeout.idle":        "60s",
		"server.timeout.shutdown":    "10s",
		"server.max_body_bytes":      pkgrouter.DefaultMaxBodyBytes,
		"cors.allowed_origins":       "*",
		"modules.fraud.enabled":      true,
		"model.store":                "file",
		"model.path":                 "model/fraud_model.json",
		"model.redis_key":            "fraud:model",
		"model.load_timeout":         "10s",
		"model.strict_types":         false,
		"redis.address":              "localhost:6379",
		"redis.db":                   0,
	}
}

func (a *App) initConfig() {
	cfg, err := pkgconfig.NewViper(pkgconfig.DefaultPath(), pkgconfig.WithDefaults(Defaults()), pkgconfig.WithOptionalFile())
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid, pkgrouter.WithMaxBodyBytes(a.config.GetInt("server.max_body_bytes")))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("cors.allowed_origins"),
		AllowedMethods: []string{
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID},
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: timeout(a.config, "server.timeout.read_header", 10*time.Second),
		ReadTimeout:       timeout(a.config, "server.timeout.read", 15*time.Second),
		WriteTimeout:      timeout(a.config, "server.timeout.write", 15*time.Second),
		IdleTimeout:       timeout(a.config, "server.timeout.idle", 60*time.Second),
	}
}

// timeout reads a duration key, falling back when it is unset or not positive.
func timeout(cfg pkgconfig.Config, key string, fallback time.Duration) time.Duration {
	if d := cfg.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
