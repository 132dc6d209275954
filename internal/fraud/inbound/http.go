package inbound

import (
	"context"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
	"github.com/mohamkz/banking-app/internal/pkg/pkgvalidator"
)

type uc interface {
	PredictFraud(ctx context.Context, tx entity.Transaction) (entity.Prediction, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc, validator: pkgvalidator.New()}

	r.POST("/predict-fraud", end.PredictFraud)
}
