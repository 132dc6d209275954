package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mohamkz/banking-app/internal/fraud/inbound"
	"github.com/mohamkz/banking-app/internal/fraud/store"
	"github.com/mohamkz/banking-app/internal/fraud/usecase"
	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
)

const defaultLoadTimeout = 10 * time.Second

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Context context.Context
}

// New loads the model artifact and registers the scoring endpoint. It fails
// when no artifact can be loaded, so the scorer never serves without a model.
func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	storage, closer, err := store.Open(dep.Config)
	if err != nil {
		return nil, err
	}

	timeout := dep.Config.GetDuration("model.load_timeout")
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	artifact, err := storage.Load(loadCtx)
	if err != nil {
		//nolint:errcheck // the load error is what matters
		closer(ctx)
		return nil, fmt.Errorf("load model from %s: %w", storage.Location(), err)
	}

	uc, err := usecase.New(usecase.Dependency{
		Artifact: artifact,
		Strict:   dep.Config.GetBool("model.strict_types"),
	})
	if err != nil {
		//nolint:errcheck // the artifact error is what matters
		closer(ctx)
		return nil, err
	}

	info := uc.Model()
	slog.InfoContext(ctx, "fraud model loaded",
		"location", storage.Location(),
		"run_id", info.RunID,
		"trained_at", info.TrainedAt,
		"accuracy", info.Accuracy,
		"types", info.Types,
	)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return closer, nil
}
