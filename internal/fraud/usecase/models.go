package usecase

import "time"

// ModelInfo is the descriptive part of the loaded artifact.
type ModelInfo struct {
	RunID     int64
	TrainedAt time.Time
	Accuracy  float64
	Types     []string
}
