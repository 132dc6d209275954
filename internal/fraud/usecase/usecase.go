package usecase

import (
	"context"
	"fmt"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
	"github.com/mohamkz/banking-app/internal/fraud/feature"
	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
	"github.com/shopspring/decimal"
)

// RiskScorePlaces is the number of decimals kept in a risk score.
const RiskScorePlaces = 2

type Dependency struct {
	Artifact model.Artifact
	// Strict rejects transaction types absent from the encoding table
	// instead of scoring them with the fallback code.
	Strict bool
}

// Usecase scores transactions against one loaded artifact. It holds no
// mutable state and is safe for concurrent use.
type Usecase struct {
	clf    model.Classifier
	enc    feature.Encoder
	strict bool
	info   ModelInfo
}

func New(dep Dependency) (*Usecase, error) {
	if err := dep.Artifact.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}

	clf, err := dep.Artifact.Classifier()
	if err != nil {
		return nil, err
	}

	enc, err := dep.Artifact.Encoder()
	if err != nil {
		return nil, err
	}

	return &Usecase{
		clf:    clf,
		enc:    enc,
		strict: dep.Strict,
		info: ModelInfo{
			RunID:     dep.Artifact.Metadata.RunID,
			TrainedAt: dep.Artifact.Metadata.TrainedAt,
			Accuracy:  dep.Artifact.Metadata.Accuracy,
			Types:     enc.Labels(),
		},
	}, nil
}

// Model describes the artifact this usecase scores with.
func (u *Usecase) Model() ModelInfo {
	return u.info
}

// PredictFraud classifies tx and reports its fraud probability rounded to
// RiskScorePlaces decimals.
func (u *Usecase) PredictFraud(ctx context.Context, tx entity.Transaction) (entity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Prediction{}, err
	}

	hour, err := feature.ParseHour(tx.Timestamp)
	if err != nil {
		return entity.Prediction{}, pkgerror.NewInvalidField("timestamp", err)
	}

	code, known := u.enc.Encode(string(tx.Type))
	if !known && u.strict {
		return entity.Prediction{}, pkgerror.NewInvalidField("type",
			fmt.Errorf("unknown transaction type %q", tx.Type))
	}

	x := feature.Vector(tx, hour, code)

	return entity.Prediction{
		IsFraud:   u.clf.Predict(x),
		RiskScore: roundScore(u.clf.Proba(x)),
	}, nil
}

// roundScore rounds half away from zero.
func roundScore(p float64) float64 {
	return decimal.NewFromFloat(p).Round(RiskScorePlaces).InexactFloat64()
}
