package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mohamkz/banking-app/internal/pkg/pkgroutine"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultC       = 1.0
	DefaultMaxIter = 1000
	DefaultTol     = 1e-4
	DefaultWorkers = 4

	// rows below this size are not split across goroutines
	minShardRows = 2048

	maxLineSearch  = 40
	armijo         = 1e-4
	interceptRidge = 1e-10
)

var (
	ErrNoSamples   = errors.New("no samples to fit")
	ErrSingleClass = errors.New("labels contain a single class; need samples of both classes")
	ErrSingular    = errors.New("newton system is not positive definite")
)

// LogisticRegression holds the fitting hyper-parameters.
//
// The penalty is ||w||²/(2C) on the standardized coefficients; the intercept
// is not penalized.
type LogisticRegression struct {
	C       float64
	MaxIter int
	Tol     float64
	Workers int
}

// FitResult is a fitted classifier plus solver diagnostics.
type FitResult struct {
	Classifier Classifier
	Iterations int
	Converged  bool
}

func (lr LogisticRegression) withDefaults() LogisticRegression {
	if lr.C <= 0 {
		lr.C = DefaultC
	}
	if lr.MaxIter < 1 {
		lr.MaxIter = DefaultMaxIter
	}
	if lr.Tol <= 0 {
		lr.Tol = DefaultTol
	}
	if lr.Workers < 1 {
		lr.Workers = DefaultWorkers
	}
	return lr
}

// Fit estimates the classifier on rows X with labels y.
//
// Fitting is deterministic for a given input and Workers value. Reaching
// MaxIter is not an error; the result reports Converged=false.
func (lr LogisticRegression) Fit(ctx context.Context, X [][]float64, y []bool) (FitResult, error) {
	lr = lr.withDefaults()

	if len(X) == 0 {
		return FitResult{}, ErrNoSamples
	}
	if len(X) != len(y) {
		return FitResult{}, fmt.Errorf("fit: %d rows but %d labels", len(X), len(y))
	}

	d := len(X[0])
	if d == 0 {
		return FitResult{}, errors.New("fit: rows have no features")
	}
	for i, row := range X {
		if len(row) != d {
			return FitResult{}, fmt.Errorf("fit: row %d has %d features, want %d", i, len(row), d)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return FitResult{}, fmt.Errorf("fit: row %d feature %d is not finite", i, j)
			}
		}
	}

	positives := 0
	for _, label := range y {
		if label {
			positives++
		}
	}
	if positives == 0 || positives == len(y) {
		return FitResult{}, ErrSingleClass
	}

	sc := newScaler(X)
	p := &problem{
		z:       sc.transform(X),
		y:       y,
		dim:     d + 1,
		lambda:  1 / lr.C,
		shards:  shardBounds(len(X), lr.Workers),
		workers: lr.Workers,
	}

	theta := make([]float64, p.dim)
	res := FitResult{}

	for iter := 1; iter <= lr.MaxIter; iter++ {
		acc, err := p.accumulate(ctx, theta, true)
		if err != nil {
			return FitResult{}, err
		}
		res.Iterations = iter

		if maxAbs(acc.grad) <= lr.Tol {
			res.Converged = true
			break
		}

		step, err := solve(p.dim, acc.hess, acc.grad)
		if err != nil {
			return FitResult{}, err
		}

		next, moved, err := p.lineSearch(ctx, theta, step, acc)
		if err != nil {
			return FitResult{}, err
		}
		theta = next

		// no representable decrease left
		if moved <= 1e-12 {
			res.Converged = true
			break
		}
	}

	if !res.Converged {
		slog.WarnContext(ctx, "logistic regression did not converge", "iterations", res.Iterations, "max_iter", lr.MaxIter)
	}

	weights, bias := sc.unscale(theta)
	clf, err := NewClassifier(weights, bias)
	if err != nil {
		return FitResult{}, fmt.Errorf("fit: %w", err)
	}
	res.Classifier = clf

	return res, nil
}

type problem struct {
	z       [][]float64
	y       []bool
	dim     int // features + intercept
	lambda  float64
	shards  [][2]int
	workers int
}

type accumulation struct {
	loss float64
	grad []float64
	hess []float64 // dim*dim, row major
}

// accumulate computes the penalized objective, its gradient and (optionally)
// its Hessian at theta. theta[0] is the intercept.
func (p *problem) accumulate(ctx context.Context, theta []float64, curvature bool) (accumulation, error) {
	partials := make([]accumulation, len(p.shards))

	mgr := pkgroutine.NewManager(p.workers)
	for s, bounds := range p.shards {
		mgr.Go(ctx, func(context.Context) error {
			partials[s] = p.accumulateRows(theta, bounds[0], bounds[1], curvature)
			return nil
		})
	}
	// nil means every shard ran
	if err := mgr.Wait(); err != nil {
		return accumulation{}, err
	}

	total := accumulation{grad: make([]float64, p.dim)}
	if curvature {
		total.hess = make([]float64, p.dim*p.dim)
	}
	for _, part := range partials {
		total.loss += part.loss
		for i, g := range part.grad {
			total.grad[i] += g
		}
		for i, h := range part.hess {
			total.hess[i] += h
		}
	}

	for j := 1; j < p.dim; j++ {
		total.loss += 0.5 * p.lambda * theta[j] * theta[j]
		total.grad[j] += p.lambda * theta[j]
		if curvature {
			total.hess[j*p.dim+j] += p.lambda
		}
	}
	if curvature {
		total.hess[0] += interceptRidge
	}

	return total, nil
}

func (p *problem) accumulateRows(theta []float64, from, to int, curvature bool) accumulation {
	acc := accumulation{grad: make([]float64, p.dim)}
	if curvature {
		acc.hess = make([]float64, p.dim*p.dim)
	}

	row := make([]float64, p.dim)
	row[0] = 1
	for i := from; i < to; i++ {
		copy(row[1:], p.z[i])

		z := 0.0
		for j, v := range row {
			z += theta[j] * v
		}

		target := 0.0
		if p.y[i] {
			target = 1
		}

		acc.loss += softplus(z) - target*z

		prob := sigmoid(z)
		resid := prob - target
		for j, v := range row {
			acc.grad[j] += resid * v
		}

		if curvature {
			w := prob * (1 - prob)
			for j := 0; j < p.dim; j++ {
				wj := w * row[j]
				for k := 0; k <= j; k++ {
					acc.hess[j*p.dim+k] += wj * row[k]
				}
			}
		}
	}

	if curvature {
		for j := 0; j < p.dim; j++ {
			for k := 0; k < j; k++ {
				acc.hess[k*p.dim+j] = acc.hess[j*p.dim+k]
			}
		}
	}

	return acc
}

// lineSearch backtracks along -step until the objective decreases enough.
// It returns the new parameters and the largest coordinate change.
func (p *problem) lineSearch(ctx context.Context, theta, step []float64, at accumulation) ([]float64, float64, error) {
	slope := 0.0
	for i := range step {
		slope += at.grad[i] * step[i]
	}

	next := make([]float64, len(theta))
	t := 1.0
	for range maxLineSearch {
		for i := range theta {
			next[i] = theta[i] - t*step[i]
		}

		trial, err := p.accumulate(ctx, next, false)
		if err != nil {
			return nil, 0, err
		}
		if trial.loss <= at.loss-armijo*t*slope {
			return next, t * maxAbs(step), nil
		}
		t /= 2
	}

	return theta, 0, nil
}

func solve(dim int, hess, grad []float64) ([]float64, error) {
	h := mat.NewSymDense(dim, append([]float64(nil), hess...))

	var chol mat.Cholesky
	if ok := chol.Factorize(h); !ok {
		return nil, ErrSingular
	}

	var step mat.VecDense
	if err := chol.SolveVecTo(&step, mat.NewVecDense(dim, append([]float64(nil), grad...))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	return step.RawVector().Data, nil
}

func shardBounds(n, workers int) [][2]int {
	shards := n / minShardRows
	if shards > workers {
		shards = workers
	}
	if shards < 1 {
		shards = 1
	}

	bounds := make([][2]int, 0, shards)
	size := (n + shards - 1) / shards
	for from := 0; from < n; from += size {
		to := from + size
		if to > n {
			to = n
		}
		bounds = append(bounds, [2]int{from, to})
	}
	return bounds
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// scaler standardizes columns to zero mean and unit deviation.
type scaler struct {
	mean []float64
	std  []float64
}

func newScaler(X [][]float64) scaler {
	d := len(X[0])
	sc := scaler{mean: make([]float64, d), std: make([]float64, d)}

	col := make([]float64, len(X))
	for j := 0; j < d; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		sc.mean[j] = mean
		sc.std[j] = std
	}
	return sc
}

func (sc scaler) transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		z := make([]float64, len(row))
		for j, v := range row {
			z[j] = (v - sc.mean[j]) / sc.std[j]
		}
		out[i] = z
	}
	return out
}

// unscale maps standardized parameters (theta[0] intercept) to raw-space
// weights and bias.
func (sc scaler) unscale(theta []float64) ([]float64, float64) {
	weights := make([]float64, len(sc.mean))
	bias := theta[0]
	for j := range weights {
		weights[j] = theta[j+1] / sc.std[j]
		bias -= theta[j+1] * sc.mean[j] / sc.std[j]
	}
	return weights, bias
}
