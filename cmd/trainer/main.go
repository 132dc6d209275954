package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mohamkz/banking-app/internal/fraud/dataset"
	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/fraud/store"
	"github.com/mohamkz/banking-app/internal/fraud/training"
	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/mohamkz/banking-app/internal/pkg/pkglog"
	"github.com/mohamkz/banking-app/internal/pkg/pkguid"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("training failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	fs := pflag.NewFlagSet("trainer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", pkgconfig.DefaultPath(), "config file, optional")
	dryRun := fs.Bool("dry-run", false, "train and report without saving the model")
	fs.String("data.path", "data/fraud_dataset.csv", "labeled transactions CSV")
	fs.String("model.store", store.KindFile, "where to save the model: file or redis")
	fs.String("model.path", store.DefaultPath, "model file for the file store")
	fs.String("model.redis_key", store.DefaultRedisKey, "key for the redis store")
	fs.String("redis.address", "localhost:6379", "redis address for the redis store")
	fs.Uint64("train.seed", dataset.DefaultSeed, "seed of the train/test split")
	fs.Float64("train.test_ratio", dataset.DefaultTestRatio, "share of rows held out for evaluation")
	fs.Float64("train.c", model.DefaultC, "inverse L2 regularization strength")
	fs.Int("train.max_iter", model.DefaultMaxIter, "solver iteration cap")
	fs.Int("train.workers", model.DefaultWorkers, "goroutines used by the solver")
	fs.Int64("train.node_id", -1, "snowflake node for run ids, negative picks one at random")
	fs.String("log.level", "info", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := pkgconfig.NewViper(*configPath, pkgconfig.WithOptionalFile(), pkgconfig.WithFlags(fs))
	if err != nil {
		return err
	}
	defer cfg.Close() //nolint:errcheck // nothing to release

	// structured logs go to stderr, stdout carries the progress report
	pkglog.InitLogging("fraud-trainer", stderr, pkglog.ParseLevel(cfg.GetString("log.level")))

	var saver store.Store = store.NewMemoryStore()
	if !*dryRun {
		st, closer, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer closer(ctx) //nolint:errcheck // process is exiting
		saver = st
	}

	ids, err := runIDs(cfg.GetInt("train.node_id"))
	if err != nil {
		return err
	}

	trainer := training.New(training.Dependency{
		Store: saver,
		Out:   stdout,
		ID:    ids,
		Config: training.Config{
			TestRatio: cfg.GetFloat("train.test_ratio"),
			Seed:      uint64(cfg.GetInt("train.seed")), //nolint:gosec // seed is any 64-bit pattern
			Model: model.LogisticRegression{
				C:       cfg.GetFloat("train.c"),
				MaxIter: int(cfg.GetInt("train.max_iter")),
				Workers: int(cfg.GetInt("train.workers")),
			},
		},
	})

	_, err = trainer.RunFile(ctx, cfg.GetString("data.path"))
	return err
}

func runIDs(node int64) (*pkguid.Snowflake, error) {
	if node < 0 {
		return pkguid.NewSnowflake()
	}
	return pkguid.NewSnowflakeNode(node)
}
