package entity

// UnknownSender marks a transaction without a sender account (e.g. a cash deposit).
const UnknownSender int64 = -1

type Transaction struct {
	Amount          float64
	Timestamp       string
	Type            TxType
	ReceiverAccount int64
	SenderAccount   int64
}

// LabeledTransaction is one training row: a transaction and its ground truth.
type LabeledTransaction struct {
	Transaction
	IsFraud bool
}
