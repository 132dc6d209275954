package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
	"github.com/mohamkz/banking-app/internal/pkg/pkgvalidator"
)

type HTTPEndpoint struct {
	uc        uc
	validator *pkgvalidator.Validator
}

func (h *HTTPEndpoint) PredictFraud(ctx context.Context, r *http.Request) (any, error) {
	var req PredictFraudRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	result, err := h.uc.PredictFraud(ctx, req.Transaction())
	if err != nil {
		return nil, err
	}

	return PredictFraudResponse{
		IsFraud:   result.IsFraud,
		RiskScore: result.RiskScore,
	}, nil
}

// decodeJSON reads exactly one JSON value. Syntax errors and trailing data are
// a bad request; a value of the wrong type is reported against its field.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return pkgerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			if tooLarge := asTooLarge(err); tooLarge != nil {
				return tooLarge
			}
		}
		return pkgerror.NewInvalidFormat()
	}

	return nil
}

func decodeError(err error) error {
	if tooLarge := asTooLarge(err); tooLarge != nil {
		return tooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return pkgerror.NewInvalidField(typeErr.Field,
			fmt.Errorf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type.Kind())))
	}

	// syntax errors and empty bodies
	return pkgerror.NewInvalidFormat()
}

func asTooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return pkgerror.NewTooLarge(err)
	}
	return nil
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "a " + k.String()
	}
}
