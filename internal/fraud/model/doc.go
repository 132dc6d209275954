// Package model implements the binary classifier used for fraud scoring: an
// L2-regularized logistic regression, its accuracy metric, and the artifact
// that carries a fitted model from the trainer to the scorer.
//
// Fitting runs Newton iterations on standardized columns and folds the result
// back into raw feature space, so a fitted model is just a weight per feature
// plus a bias and scoring needs no preprocessing state.
package model
