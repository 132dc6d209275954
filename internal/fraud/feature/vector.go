package feature

import (
	"fmt"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
)

// Column order of the feature vector. The artifact records it and refuses to
// load under a different order.
//
//nolint:gochecknoglobals // read-only table
var Columns = []string{"amount", "hour", "type_enc", "receiver_account", "sender_account"}

// Width is the number of features per transaction.
const Width = 5

const (
	IdxAmount = iota
	IdxHour
	IdxType
	IdxReceiver
	IdxSender
)

// Vector assembles the feature vector from already derived parts.
func Vector(tx entity.Transaction, hour, typeCode int) []float64 {
	x := make([]float64, Width)
	x[IdxAmount] = tx.Amount
	x[IdxHour] = float64(hour)
	x[IdxType] = float64(typeCode)
	x[IdxReceiver] = float64(tx.ReceiverAccount)
	x[IdxSender] = float64(tx.SenderAccount)
	return x
}

// Derive parses the timestamp, encodes the type and assembles the vector.
func Derive(tx entity.Transaction, enc Encoder) ([]float64, error) {
	hour, err := ParseHour(tx.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("derive features: %w", err)
	}

	code, _ := enc.Encode(string(tx.Type))
	return Vector(tx, hour, code), nil
}
