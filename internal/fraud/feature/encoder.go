package feature

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
)

// FallbackCode is used for a type the encoder has never seen. It collides
// with the first label; kept for compatibility with deployed callers.
const FallbackCode = 0

// Encoder maps categorical transaction types to integer codes. The code of a
// label is its index in the sorted list of distinct training labels.
type Encoder struct {
	labels []string
	codes  map[string]int
}

// FitEncoder builds an encoder from every label observed in the training data.
func FitEncoder(observed []string) Encoder {
	seen := make(map[string]struct{}, 4)
	labels := make([]string, 0, 4)
	for _, label := range observed {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	enc, _ := NewEncoder(labels) //nolint:errcheck // labels are sorted and distinct
	return enc
}

// NewEncoder restores an encoder from its persisted label list.
func NewEncoder(labels []string) (Encoder, error) {
	if len(labels) == 0 {
		return Encoder{}, errors.New("encoder needs at least one label")
	}
	if !slices.IsSorted(labels) {
		return Encoder{}, errors.New("encoder labels must be sorted")
	}

	codes := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, dup := codes[label]; dup {
			return Encoder{}, fmt.Errorf("duplicate encoder label %q", label)
		}
		codes[label] = i
	}

	return Encoder{labels: slices.Clone(labels), codes: codes}, nil
}

// LegacyEncoder is the fixed two-entry table used by artifacts that carry no
// encoding of their own.
func LegacyEncoder() Encoder {
	enc, _ := NewEncoder([]string{string(entity.TxTypeDeposit), string(entity.TxTypeTransfer)}) //nolint:errcheck // constant input
	return enc
}

// Encode returns the code for label and whether the label was known.
// Unknown labels get FallbackCode.
func (e Encoder) Encode(label string) (int, bool) {
	code, ok := e.codes[label]
	if !ok {
		return FallbackCode, false
	}
	return code, true
}

// Labels returns the sorted label list, suitable for persisting.
func (e Encoder) Labels() []string {
	return slices.Clone(e.labels)
}

// Len reports the number of known labels.
func (e Encoder) Len() int {
	return len(e.labels)
}
