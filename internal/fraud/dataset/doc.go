// Package dataset loads labeled transaction files for training and splits
// them into reproducible train/test partitions.
package dataset
