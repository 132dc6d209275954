package entity

// TxType is the categorical transaction type sent by the banking backend.
// Any string is accepted; these are the values the backend emits.
type TxType string

const (
	TxTypeDeposit    TxType = "DEPOSIT"
	TxTypeWithdrawal TxType = "WITHDRAWAL"
	TxTypeTransfer   TxType = "TRANSFER"
)
