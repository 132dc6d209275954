// Package training runs the offline job that turns a labeled transaction file
// into a persisted fraud classifier.
package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mohamkz/banking-app/internal/fraud/dataset"
	"github.com/mohamkz/banking-app/internal/fraud/feature"
	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkguid"
)

// ArtifactSaver persists a fitted artifact.
type ArtifactSaver interface {
	Save(ctx context.Context, artifact model.Artifact) error
	Location() string
}

type Clock interface {
	Now() time.Time
}

// Config holds the training hyper-parameters.
type Config struct {
	TestRatio float64
	Seed      uint64
	Model     model.LogisticRegression
}

type Dependency struct {
	Store  ArtifactSaver
	Out    io.Writer
	ID     pkguid.NumberID
	Clock  Clock
	Config Config
}

// Trainer runs the training pipeline and prints a human-readable progress
// report to Out.
type Trainer struct {
	store  ArtifactSaver
	out    io.Writer
	id     pkguid.NumberID
	clock  Clock
	config Config
}

// Report summarizes one training run.
type Report struct {
	Rows       int
	Columns    int
	TrainRows  int
	TestRows   int
	FraudCount int
	FraudRate  float64
	Accuracy   float64
	Iterations int
	Converged  bool
	Location   string
	Artifact   model.Artifact
}

func New(dep Dependency) *Trainer {
	out := dep.Out
	if out == nil {
		out = io.Discard
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	cfg := dep.Config
	if cfg.TestRatio == 0 {
		cfg.TestRatio = dataset.DefaultTestRatio
	}
	if cfg.Model.C <= 0 {
		cfg.Model.C = model.DefaultC
	}

	return &Trainer{
		store:  dep.Store,
		out:    out,
		id:     dep.ID,
		clock:  clock,
		config: cfg,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// RunFile loads the dataset at path and trains on it.
func (t *Trainer) RunFile(ctx context.Context, path string) (Report, error) {
	t.printf("Starting Fraud Detection Model Training...\n")
	t.printf("Loading dataset...\n")

	ds, err := dataset.LoadFile(ctx, path)
	if err != nil {
		return Report{}, fmt.Errorf("load dataset %s: %w", path, err)
	}

	return t.train(ctx, ds)
}

// Run trains on an already loaded dataset.
func (t *Trainer) Run(ctx context.Context, ds dataset.Dataset) (Report, error) {
	t.printf("Starting Fraud Detection Model Training...\n")
	return t.train(ctx, ds)
}

func (t *Trainer) train(ctx context.Context, ds dataset.Dataset) (Report, error) {
	if t.store == nil {
		return Report{}, errors.New("training: missing artifact store")
	}
	if ds.Len() == 0 {
		return Report{}, dataset.ErrEmpty
	}

	rep := Report{Rows: ds.Len(), Columns: ds.Columns}
	t.printf("Dataset loaded: %d rows, %d columns\n", rep.Rows, rep.Columns)
	slog.InfoContext(ctx, "dataset loaded", "rows", rep.Rows, "columns", rep.Columns)

	t.printf("Preprocessing data...\n")
	enc := feature.FitEncoder(ds.Types())
	X := make([][]float64, ds.Len())
	for i, row := range ds.Rows {
		x, err := feature.Derive(row.Transaction, enc)
		if err != nil {
			// +2: header line and 1-based numbering
			return Report{}, fmt.Errorf("line %d: %w", i+2, err)
		}
		X[i] = x
	}
	y := ds.Labels()

	rep.FraudCount = ds.FraudCount()
	rep.FraudRate = ds.FraudRate()
	t.printf("Dataset stats: %.2f%% fraud rate (%d fraud cases)\n", rep.FraudRate*100, rep.FraudCount)

	trainIdx, testIdx, err := dataset.Split(ds.Len(), t.config.TestRatio, t.config.Seed)
	if err != nil {
		return Report{}, err
	}
	rep.TrainRows, rep.TestRows = len(trainIdx), len(testIdx)
	t.printf("Data split: %d training, %d testing samples\n", rep.TrainRows, rep.TestRows)

	t.printf("Training Logistic Regression model...\n")
	xTrain, yTrain := gather(X, y, trainIdx)
	fit, err := t.config.Model.Fit(ctx, xTrain, yTrain)
	if err != nil {
		return Report{}, fmt.Errorf("fit model: %w", err)
	}
	rep.Iterations, rep.Converged = fit.Iterations, fit.Converged
	slog.InfoContext(ctx, "model fitted", "iterations", fit.Iterations, "converged", fit.Converged)

	xTest, yTest := gather(X, y, testIdx)
	pred := make([]bool, len(xTest))
	for i, x := range xTest {
		pred[i] = fit.Classifier.Predict(x)
	}
	rep.Accuracy, err = model.Accuracy(yTest, pred)
	if err != nil {
		return Report{}, err
	}
	t.printf("Test accuracy: %.4f (%.2f%%)\n", rep.Accuracy, rep.Accuracy*100)

	meta := model.Metadata{
		TrainedAt:  t.clock.Now().UTC(),
		Rows:       rep.Rows,
		TrainRows:  rep.TrainRows,
		TestRows:   rep.TestRows,
		FraudRate:  rep.FraudRate,
		Accuracy:   rep.Accuracy,
		Iterations: rep.Iterations,
		Converged:  rep.Converged,
		Seed:       t.config.Seed,
		C:          t.config.Model.C,
	}
	if t.id != nil {
		meta.RunID = t.id.Generate()
	}

	rep.Artifact = model.NewArtifact(fit.Classifier, enc, meta)
	if err := t.store.Save(ctx, rep.Artifact); err != nil {
		return Report{}, fmt.Errorf("save model: %w", err)
	}
	rep.Location = t.store.Location()
	slog.InfoContext(ctx, "model saved", "location", rep.Location, "run_id", meta.RunID, "accuracy", rep.Accuracy)

	banner := strings.Repeat("=", 50)
	t.printf("\n%s\n", banner)
	t.printf("MODEL TRAINING COMPLETED!\n")
	t.printf("Model saved to: %s\n", rep.Location)
	t.printf("Final accuracy: %.4f\n", rep.Accuracy)
	t.printf("%s\n", banner)

	return rep, nil
}

func (t *Trainer) printf(format string, args ...any) {
	//nolint:errcheck // progress output is best effort
	fmt.Fprintf(t.out, format, args...)
}

func gather(X [][]float64, y []bool, idx []int) ([][]float64, []bool) {
	xs := make([][]float64, len(idx))
	ys := make([]bool, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
