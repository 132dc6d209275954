package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mohamkz/banking-app/internal/fraud/dataset"
	"github.com/mohamkz/banking-app/internal/fraud/store"
	"github.com/mohamkz/banking-app/internal/fraud/training"
	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
	"github.com/mohamkz/banking-app/internal/pkg/pkgrouter"
	"github.com/mohamkz/banking-app/internal/pkg/pkguid"
)

func newConfig(t *testing.T, values map[string]any) pkgconfig.Config {
	t.Helper()

	cfg, err := pkgconfig.NewViper(filepath.Join(t.TempDir(), "config.yaml"),
		pkgconfig.WithOptionalFile(), pkgconfig.WithDefaults(values))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func writeDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("amount,timestamp,type,receiver_account,sender_account,is_fraud\n")
	types := []string{"DEPOSIT", "WITHDRAWAL", "TRANSFER"}
	for i := range 100 {
		if i%10 == 3 {
			fmt.Fprintf(&b, "%d,2024-04-%02dT%02d:05:00,TRANSFER,%d,%d,1\n", 30000+i*250, 1+i%28, i%4, 4000+i, 8000+i)
			continue
		}
		sender := fmt.Sprint(8000 + i)
		if i%3 == 0 {
			sender = ""
		}
		fmt.Fprintf(&b, "%d.25,2024-04-%02d %02d:30:00,%s,%d,%s,0\n", 20+i*7, 1+i%28, 8+i%12, types[i%3], 4000+i, sender)
	}

	path := filepath.Join(t.TempDir(), "fraud_dataset.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

// rawArtifact is decoded straight from the file, independent of package model.
type rawArtifact struct {
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	TypeEncoding []string  `json:"type_encoding"`
}

func TestTrainThenServe(t *testing.T) {
	ctx := context.Background()
	modelPath := filepath.Join(t.TempDir(), "model", "fraud_model.json")

	trainer := training.New(training.Dependency{
		Store:  store.NewFileStore(modelPath),
		Out:    &bytes.Buffer{},
		Config: training.Config{Seed: dataset.DefaultSeed},
	})
	if _, err := trainer.RunFile(ctx, writeDataset(t)); err != nil {
		t.Fatalf("train: %v", err)
	}

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	closer, err := New(Dependency{
		Config:  newConfig(t, map[string]any{"model.store": "file", "model.path": modelPath}),
		Router:  router,
		Context: ctx,
	})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer closer(ctx) //nolint:errcheck // file store closer is a noop

	body := `{"amount":50000,"timestamp":"2024-01-01T03:00:00","type":"TRANSFER","receiver_account":123,"sender_account":456}`
	req := httptest.NewRequest(http.MethodPost, "/predict-fraud", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		IsFraud   bool    `json:"is_fraud"`
		RiskScore float64 `json:"risk_score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	data, err := os.ReadFile(modelPath)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	var art rawArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		t.Fatalf("decode model: %v", err)
	}

	typeCode := slices.Index(art.TypeEncoding, "TRANSFER")
	if typeCode < 0 {
		t.Fatalf("TRANSFER missing from encoding %v", art.TypeEncoding)
	}

	x := []float64{50000, 3, float64(typeCode), 123, 456}
	z := art.Bias
	for i, w := range art.Weights {
		z += w * x[i]
	}
	p := 1 / (1 + math.Exp(-z))

	if got.IsFraud != (z > 0) {
		t.Fatalf("is_fraud = %v, decision = %v", got.IsFraud, z)
	}
	if math.Abs(got.RiskScore-math.Round(p*100)/100) > 1e-9 {
		t.Fatalf("risk_score = %v, recomputed probability %v", got.RiskScore, p)
	}
}

func TestNewRefusesToStartWithoutModel(t *testing.T) {
	_, err := New(Dependency{
		Config: newConfig(t, map[string]any{"model.path": filepath.Join(t.TempDir(), "missing.json")}),
		Router: pkgrouter.NewRouter(pkguid.NewUUID()),
	})
	if err == nil {
		t.Fatal("expected an error without a model artifact")
	}
	if !strings.Contains(err.Error(), "missing.json") {
		t.Fatalf("error should name the location, got %v", err)
	}
	if !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewRejectsCorruptModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraud_model.json")
	if err := os.WriteFile(path, []byte(`{"format_version":1,"columns":["amount"],"weights":[1],"bias":0}`), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}

	_, err := New(Dependency{
		Config: newConfig(t, map[string]any{"model.path": path}),
		Router: pkgrouter.NewRouter(pkguid.NewUUID()),
	})
	if err == nil {
		t.Fatal("expected an error for a model with the wrong columns")
	}
}
