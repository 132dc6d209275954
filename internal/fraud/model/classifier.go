package model

import (
	"fmt"
	"math"
)

// Classifier is a fitted logistic regression in raw feature space.
// It is never mutated after construction and is safe for concurrent use.
type Classifier struct {
	weights []float64
	bias    float64
}

// NewClassifier builds a classifier from explicit parameters.
func NewClassifier(weights []float64, bias float64) (Classifier, error) {
	if len(weights) == 0 {
		return Classifier{}, fmt.Errorf("classifier needs at least one weight")
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return Classifier{}, fmt.Errorf("weight %d is not finite", i)
		}
	}
	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return Classifier{}, fmt.Errorf("bias is not finite")
	}

	w := make([]float64, len(weights))
	copy(w, weights)
	return Classifier{weights: w, bias: bias}, nil
}

// Weights returns a copy of the coefficients.
func (c Classifier) Weights() []float64 {
	w := make([]float64, len(c.weights))
	copy(w, c.weights)
	return w
}

// Bias returns the intercept.
func (c Classifier) Bias() float64 {
	return c.bias
}

// NumFeatures is the expected length of an input vector.
func (c Classifier) NumFeatures() int {
	return len(c.weights)
}

// Decision returns w·x + b. x must have NumFeatures entries.
func (c Classifier) Decision(x []float64) float64 {
	z := c.bias
	for i, w := range c.weights {
		z += w * x[i]
	}
	return z
}

// Proba returns the probability of the positive (fraud) class.
func (c Classifier) Proba(x []float64) float64 {
	return sigmoid(c.Decision(x))
}

// Predict reports the positive class when the decision is above zero,
// i.e. when Proba is above 0.5.
func (c Classifier) Predict(x []float64) bool {
	return c.Decision(x) > 0
}

// sigmoid never overflows: exp is only taken of non-positive values.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1 + e^z) computed without overflow.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
