package dataset

import (
	"github.com/mohamkz/banking-app/internal/fraud/entity"
)

// Required header columns of a training file. sender_account is optional.
const (
	ColAmount   = "amount"
	ColTime     = "timestamp"
	ColType     = "type"
	ColReceiver = "receiver_account"
	ColSender   = "sender_account"
	ColLabel    = "is_fraud"
)

// Dataset is a labeled training set held in memory.
type Dataset struct {
	Rows    []entity.LabeledTransaction
	Columns int // columns in the source header
}

// Len is the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Labels returns the ground truth in row order.
func (d Dataset) Labels() []bool {
	labels := make([]bool, len(d.Rows))
	for i, row := range d.Rows {
		labels[i] = row.IsFraud
	}
	return labels
}

// Types returns the transaction type of every row in order.
func (d Dataset) Types() []string {
	types := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		types[i] = string(row.Type)
	}
	return types
}

// FraudCount is the number of positive rows.
func (d Dataset) FraudCount() int {
	n := 0
	for _, row := range d.Rows {
		if row.IsFraud {
			n++
		}
	}
	return n
}

// FraudRate is the proportion of positive rows, 0 for an empty set.
func (d Dataset) FraudRate() float64 {
	if len(d.Rows) == 0 {
		return 0
	}
	return float64(d.FraudCount()) / float64(len(d.Rows))
}
