package model

import "errors"

// Accuracy is the fraction of predictions that match the ground truth.
func Accuracy(yTrue, yPred []bool) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.New("accuracy: length mismatch")
	}
	if len(yTrue) == 0 {
		return 0, errors.New("accuracy: no samples")
	}

	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}
