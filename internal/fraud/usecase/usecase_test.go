package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
	"github.com/mohamkz/banking-app/internal/fraud/feature"
	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testWeights = []float64{0.00012, -0.15, 1.3, 0.0000021, -0.0000017}
	testBias    = -2.4
)

func newArtifact(t *testing.T, types []string) model.Artifact {
	t.Helper()

	clf, err := model.NewClassifier(testWeights, testBias)
	require.NoError(t, err)

	enc := feature.LegacyEncoder()
	if types != nil {
		enc = feature.FitEncoder(types)
	}
	return model.NewArtifact(clf, enc, model.Metadata{RunID: 7, Accuracy: 0.9})
}

func newUsecase(t *testing.T, strict bool) *Usecase {
	t.Helper()

	uc, err := New(Dependency{Artifact: newArtifact(t, nil), Strict: strict})
	require.NoError(t, err)
	return uc
}

// recompute scores x directly from the raw parameters.
func recompute(x []float64) (bool, float64) {
	z := testBias
	for i, w := range testWeights {
		z += w * x[i]
	}
	p := 1 / (1 + math.Exp(-z))
	return z > 0, math.Round(p*100) / 100
}

func isTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func TestPredictFraudMatchesRecomputation(t *testing.T) {
	uc := newUsecase(t, false)

	tx := entity.Transaction{
		Amount:          50000,
		Timestamp:       "2024-01-01T03:00:00",
		Type:            entity.TxTypeTransfer,
		ReceiverAccount: 123,
		SenderAccount:   456,
	}

	got, err := uc.PredictFraud(context.Background(), tx)
	require.NoError(t, err)

	wantFraud, wantScore := recompute([]float64{50000, 3, 1, 123, 456})
	assert.Equal(t, wantFraud, got.IsFraud)
	assert.InDelta(t, wantScore, got.RiskScore, 1e-12)
}

func TestPredictFraudProperties(t *testing.T) {
	uc := newUsecase(t, false)
	ctx := context.Background()

	txs := []entity.Transaction{
		{Amount: 0, Timestamp: "2024-01-01T00:00:00", Type: entity.TxTypeDeposit, ReceiverAccount: 1, SenderAccount: entity.UnknownSender},
		{Amount: 1e15, Timestamp: "2024-01-01T23:59:59", Type: entity.TxTypeTransfer, ReceiverAccount: 1, SenderAccount: 2},
		{Amount: -1e15, Timestamp: "2024-06-30 12:00", Type: entity.TxTypeWithdrawal, ReceiverAccount: 99, SenderAccount: 3},
		{Amount: 1e300, Timestamp: "2024-01-01", Type: entity.TxTypeTransfer, ReceiverAccount: 5, SenderAccount: 5},
		{Amount: 17.5, Timestamp: "2024-01-01T14:30:00+07:00", Type: "CARD", ReceiverAccount: 5, SenderAccount: 5},
		{Amount: 19000, Timestamp: "2024-01-01T02:00", Type: entity.TxTypeTransfer, ReceiverAccount: 1000, SenderAccount: 2000},
	}

	for _, tx := range txs {
		got, err := uc.PredictFraud(ctx, tx)
		require.NoError(t, err, "%+v", tx)

		assert.False(t, math.IsNaN(got.RiskScore), "%+v", tx)
		assert.GreaterOrEqual(t, got.RiskScore, 0.0, "%+v", tx)
		assert.LessOrEqual(t, got.RiskScore, 1.0, "%+v", tx)
		assert.True(t, isTwoDecimals(got.RiskScore), "risk score %v has more than two decimals", got.RiskScore)

		if got.IsFraud {
			assert.GreaterOrEqual(t, got.RiskScore, 0.5, "%+v", tx)
		} else {
			assert.LessOrEqual(t, got.RiskScore, 0.5, "%+v", tx)
		}

		again, err := uc.PredictFraud(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, got, again, "scoring must be idempotent")
	}
}

func TestPredictFraudTypeEncoding(t *testing.T) {
	uc := newUsecase(t, false)
	ctx := context.Background()

	base := entity.Transaction{Amount: 100, Timestamp: "2024-01-01T10:00:00", ReceiverAccount: 1, SenderAccount: 1}
	score := func(typ entity.TxType) entity.Prediction {
		tx := base
		tx.Type = typ
		got, err := uc.PredictFraud(ctx, tx)
		require.NoError(t, err)
		return got
	}

	x := feature.Vector(base, 10, 0)
	_, deposit := recompute(x)
	x[feature.IdxType] = 1
	_, transfer := recompute(x)

	assert.InDelta(t, deposit, score(entity.TxTypeDeposit).RiskScore, 1e-12)
	assert.InDelta(t, transfer, score(entity.TxTypeTransfer).RiskScore, 1e-12)
	// unknown types score like the fallback code
	assert.Equal(t, score(entity.TxTypeDeposit), score(entity.TxTypeWithdrawal))
	assert.Equal(t, score(entity.TxTypeDeposit), score("SOMETHING_ELSE"))
}

func TestPredictFraudUsesPersistedEncoding(t *testing.T) {
	uc, err := New(Dependency{Artifact: newArtifact(t, []string{"TRANSFER", "DEPOSIT", "WITHDRAWAL"})})
	require.NoError(t, err)

	tx := entity.Transaction{Amount: 100, Timestamp: "2024-01-01T10:00:00", Type: entity.TxTypeWithdrawal, ReceiverAccount: 1, SenderAccount: 1}
	got, err := uc.PredictFraud(context.Background(), tx)
	require.NoError(t, err)

	_, want := recompute(feature.Vector(tx, 10, 2))
	assert.InDelta(t, want, got.RiskScore, 1e-12)
	assert.Equal(t, []string{"DEPOSIT", "TRANSFER", "WITHDRAWAL"}, uc.Model().Types)
	assert.Equal(t, int64(7), uc.Model().RunID)
}

func TestPredictFraudOmittedSender(t *testing.T) {
	uc := newUsecase(t, false)
	ctx := context.Background()

	explicit := entity.Transaction{Amount: 500, Timestamp: "2024-01-01T05:00:00", Type: entity.TxTypeDeposit, ReceiverAccount: 8, SenderAccount: -1}
	omitted := explicit
	omitted.SenderAccount = entity.UnknownSender

	a, err := uc.PredictFraud(ctx, explicit)
	require.NoError(t, err)
	b, err := uc.PredictFraud(ctx, omitted)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPredictFraudInvalidTimestamp(t *testing.T) {
	uc := newUsecase(t, false)

	for _, ts := range []string{"", "not a date", "2024-13-01T00:00:00", "03:00"} {
		_, err := uc.PredictFraud(context.Background(), entity.Transaction{Timestamp: ts, Type: entity.TxTypeDeposit})
		require.Error(t, err, ts)
		assert.ErrorIs(t, err, feature.ErrInvalidTimestamp)

		var perr *pkgerror.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, pkgerror.CodeInvalidInput, perr.Code())
		assert.Contains(t, perr.Fields(), "timestamp")
	}
}

func TestPredictFraudStrictTypes(t *testing.T) {
	uc := newUsecase(t, true)
	ctx := context.Background()

	_, err := uc.PredictFraud(ctx, entity.Transaction{Timestamp: "2024-01-01", Type: entity.TxTypeTransfer})
	require.NoError(t, err)

	_, err = uc.PredictFraud(ctx, entity.Transaction{Timestamp: "2024-01-01", Type: entity.TxTypeWithdrawal})
	var perr *pkgerror.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pkgerror.CodeInvalidInput, perr.Code())
	assert.Contains(t, perr.Fields(), "type")
}

func TestPredictFraudCanceledContext(t *testing.T) {
	uc := newUsecase(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.PredictFraud(ctx, entity.Transaction{Timestamp: "2024-01-01"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictFraudConcurrent(t *testing.T) {
	uc := newUsecase(t, false)
	tx := entity.Transaction{Amount: 50000, Timestamp: "2024-01-01T03:00:00", Type: entity.TxTypeTransfer, ReceiverAccount: 123, SenderAccount: 456}

	want, err := uc.PredictFraud(context.Background(), tx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				got, err := uc.PredictFraud(context.Background(), tx)
				if err != nil || got != want {
					t.Errorf("got %+v, %v; want %+v", got, err, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewRejectsInvalidArtifact(t *testing.T) {
	art := newArtifact(t, nil)
	art.Columns = []string{"amount"}

	_, err := New(Dependency{Artifact: art})
	require.Error(t, err)

	_, err = New(Dependency{})
	require.Error(t, err)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 0.13, roundScore(0.125))
	assert.Equal(t, 0.12, roundScore(0.1249))
	assert.Equal(t, 1.0, roundScore(0.999))
	assert.Equal(t, 0.0, roundScore(0.004))
	assert.Equal(t, 0.5, roundScore(0.4999))
}
