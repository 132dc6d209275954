package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mohamkz/banking-app/internal/fraud/entity"
)

var ErrEmpty = errors.New("dataset has no rows")

// LoadFile reads a training CSV from disk.
func LoadFile(ctx context.Context, path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return LoadCSV(ctx, f)
}

// LoadCSV parses a header-addressed training CSV. Any malformed record fails
// the whole load; a half-read dataset is never returned.
func LoadCSV(ctx context.Context, r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, ErrEmpty
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("read header: %w", err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Columns: len(header)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := parseRecord(record, idx)
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, row)

		if line%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
			slog.DebugContext(ctx, "loading dataset", "rows", len(ds.Rows))
		}
	}

	if len(ds.Rows) == 0 {
		return Dataset{}, ErrEmpty
	}

	return ds, nil
}

type columns struct {
	amount, timestamp, typ, receiver, sender, label int
}

func indexHeader(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := pos[name]; dup {
			return columns{}, fmt.Errorf("duplicate column %q", name)
		}
		pos[name] = i
	}

	var missing []string
	need := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols := columns{
		amount:    need(ColAmount),
		timestamp: need(ColTime),
		typ:       need(ColType),
		receiver:  need(ColReceiver),
		label:     need(ColLabel),
		sender:    -1,
	}
	if i, ok := pos[ColSender]; ok {
		cols.sender = i
	}

	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRecord(record []string, idx columns) (entity.LabeledTransaction, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	amount, err := strconv.ParseFloat(record[idx.amount], 64)
	if err != nil {
		return entity.LabeledTransaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return entity.LabeledTransaction{}, fmt.Errorf("invalid amount: %q is not finite", record[idx.amount])
	}

	receiver, err := parseAccount(record[idx.receiver])
	if err != nil {
		return entity.LabeledTransaction{}, fmt.Errorf("invalid receiver_account: %w", err)
	}

	sender := entity.UnknownSender
	if idx.sender >= 0 && record[idx.sender] != "" {
		sender, err = parseAccount(record[idx.sender])
		if err != nil {
			return entity.LabeledTransaction{}, fmt.Errorf("invalid sender_account: %w", err)
		}
	}

	label, err := parseLabel(record[idx.label])
	if err != nil {
		return entity.LabeledTransaction{}, err
	}

	return entity.LabeledTransaction{
		Transaction: entity.Transaction{
			Amount:          amount,
			Timestamp:       record[idx.timestamp],
			Type:            entity.TxType(record[idx.typ]),
			ReceiverAccount: receiver,
			SenderAccount:   sender,
		},
		IsFraud: label,
	}, nil
}

// parseAccount accepts integral values written as floats ("123.0"), which is
// how pandas exports an id column that had blanks.
func parseAccount(value string) (int64, error) {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("%q is not an integer", value)
	}
	return int64(f), nil
}

func parseLabel(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "1.0", "true":
		return true, nil
	case "0", "0.0", "false":
		return false, nil
	case "":
		return false, errors.New("missing is_fraud label")
	default:
		return false, fmt.Errorf("invalid is_fraud label: %q", value)
	}
}
