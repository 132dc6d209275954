package entity

// Prediction is the scorer verdict for a single transaction.
type Prediction struct {
	IsFraud   bool
	RiskScore float64
}
