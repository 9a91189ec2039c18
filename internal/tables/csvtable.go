package tables

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"spellfix/internal/corrector"
)

// eachRow calls fn for every data row of a CSV file with a header line.
// line is the 1-based line number in the file.
func eachRow(ctx context.Context, path string, width int, fn func(line int, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = width
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: failed to read header: %w", path, err)
	}
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w: %s", path, line, ErrMalformedRow, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(line, row); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

func parseCount(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid count %q", ErrMalformedRow, s)
	}
	return v, nil
}

// readCountTable reads (key, count) rows, e.g. unigrams or bigrams.
func readCountTable(ctx context.Context, path string) (map[string]int64, error) {
	out := make(map[string]int64)
	err := eachRow(ctx, path, 2, func(_ int, row []string) error {
		count, err := parseCount(row[1])
		if err != nil {
			return err
		}
		if _, ok := out[row[0]]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, row[0])
		}
		out[row[0]] = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readConfusionTable reads (context, letter, count) rows.
func readConfusionTable(ctx context.Context, path string) (map[corrector.ConfusionKey]int64, error) {
	out := make(map[corrector.ConfusionKey]int64)
	err := eachRow(ctx, path, 3, func(_ int, row []string) error {
		count, err := parseCount(row[2])
		if err != nil {
			return err
		}
		key := corrector.ConfusionKey{Context: row[0], Char: row[1]}
		if _, ok := out[key]; ok {
			return fmt.Errorf("%w: (%q, %q)", ErrDuplicateKey, row[0], row[1])
		}
		out[key] = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
