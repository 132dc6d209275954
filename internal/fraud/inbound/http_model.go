package inbound

import "github.com/mohamkz/banking-app/internal/fraud/entity"

// PredictFraudRequest is the body of POST /predict-fraud. Pointers tell a
// missing field apart from a zero value; unknown fields are ignored.
type PredictFraudRequest struct {
	Amount          *float64 `json:"amount" validate:"required"`
	Timestamp       *string  `json:"timestamp" validate:"required"`
	Type            *string  `json:"type" validate:"required"`
	ReceiverAccount *int64   `json:"receiver_account" validate:"required"`
	SenderAccount   *int64   `json:"sender_account"`
}

func (r PredictFraudRequest) Transaction() entity.Transaction {
	tx := entity.Transaction{
		Amount:          *r.Amount,
		Timestamp:       *r.Timestamp,
		Type:            entity.TxType(*r.Type),
		ReceiverAccount: *r.ReceiverAccount,
		SenderAccount:   entity.UnknownSender,
	}
	if r.SenderAccount != nil {
		tx.SenderAccount = *r.SenderAccount
	}
	return tx
}

// PredictFraudResponse is the whole response body; callers read both fields
// at the top level.
type PredictFraudResponse struct {
	IsFraud   bool    `json:"is_fraud"`
	RiskScore float64 `json:"risk_score"`
}
