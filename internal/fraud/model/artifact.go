package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mohamkz/banking-app/internal/fraud/feature"
)

// FormatVersion identifies the artifact file layout, not the model.
const FormatVersion = 1

// Artifact is the serialized classifier exchanged between trainer and scorer.
type Artifact struct {
	FormatVersion int       `json:"format_version"`
	Columns       []string  `json:"columns"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`

	// TypeEncoding lists the transaction types seen in training, sorted; a
	// type's code is its index. Empty means the legacy DEPOSIT/TRANSFER table.
	TypeEncoding []string `json:"type_encoding,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Metadata describes the training run that produced an artifact.
type Metadata struct {
	RunID      int64     `json:"run_id,omitempty"`
	TrainedAt  time.Time `json:"trained_at"`
	Rows       int       `json:"rows"`
	TrainRows  int       `json:"train_rows"`
	TestRows   int       `json:"test_rows"`
	FraudRate  float64   `json:"fraud_rate"`
	Accuracy   float64   `json:"accuracy"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	Seed       uint64    `json:"seed"`
	C          float64   `json:"c"`
}

// NewArtifact packages a fitted classifier and the encoder used to train it.
func NewArtifact(clf Classifier, enc feature.Encoder, meta Metadata) Artifact {
	return Artifact{
		FormatVersion: FormatVersion,
		Columns:       slices.Clone(feature.Columns),
		Weights:       clf.Weights(),
		Bias:          clf.Bias(),
		TypeEncoding:  enc.Labels(),
		Metadata:      meta,
	}
}

// Validate checks that the artifact can drive the current feature layout.
func (a Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported artifact format version %d", a.FormatVersion)
	}
	if !slices.Equal(a.Columns, feature.Columns) {
		return fmt.Errorf("artifact columns %v do not match feature columns %v", a.Columns, feature.Columns)
	}
	if len(a.Weights) != feature.Width {
		return fmt.Errorf("artifact has %d weights, want %d", len(a.Weights), feature.Width)
	}
	if _, err := NewClassifier(a.Weights, a.Bias); err != nil {
		return err
	}
	if len(a.TypeEncoding) > 0 {
		if _, err := feature.NewEncoder(a.TypeEncoding); err != nil {
			return fmt.Errorf("artifact type encoding: %w", err)
		}
	}
	return nil
}

// Classifier rebuilds the fitted classifier.
func (a Artifact) Classifier() (Classifier, error) {
	return NewClassifier(a.Weights, a.Bias)
}

// Encoder rebuilds the type encoder stored with the model.
func (a Artifact) Encoder() (feature.Encoder, error) {
	if len(a.TypeEncoding) == 0 {
		return feature.LegacyEncoder(), nil
	}
	return feature.NewEncoder(a.TypeEncoding)
}

// Marshal encodes the artifact as indented JSON.
func (a Artifact) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(a, "", "  ")
}

// UnmarshalArtifact decodes and validates an artifact.
func UnmarshalArtifact(data []byte) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, errors.New("empty artifact")
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
