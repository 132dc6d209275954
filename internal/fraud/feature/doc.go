// Package feature turns a transaction into the numeric vector the classifier
// consumes. Training and scoring both go through this package so the column
// order and the type encoding cannot drift apart.
package feature
