package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// Input formats.
const (
	FormatCSV    = "csv"
	FormatBasket = "basket"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune

	// WeightColumn names an integer column holding row multiplicities. The
	// column is removed from the returned table.
	WeightColumn string
}

// ReadCSV reads a table whose first record is the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.New(errs.ErrCodeInvalidDataset, "empty input: missing header row")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDataset, err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	weightCol := -1
	if opts.WeightColumn != "" {
		for i, name := range header {
			if name == opts.WeightColumn {
				weightCol = i
				break
			}
		}
		if weightCol < 0 {
			return nil, errs.New(errs.ErrCodeInvalidOption, "weight column %q not found", opts.WeightColumn)
		}
	}

	t := &Table{Columns: dropIndex(header, weightCol)}
	if weightCol >= 0 {
		t.Weights = []int{}
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDataset, err, "read row %d", len(t.Rows)+1)
		}
		if weightCol >= 0 {
			w, err := strconv.Atoi(strings.TrimSpace(record[weightCol]))
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidDataset, err, "row %d: invalid weight %q", len(t.Rows)+1, record[weightCol])
			}
			t.Weights = append(t.Weights, w)
		}
		t.Rows = append(t.Rows, dropIndex(record, weightCol))
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadBasket reads one transaction per line with items separated by delimiter
// (zero means ','). Blank lines and lines starting with '#' are skipped.
func ReadBasket(r io.Reader, delimiter rune) (*Table, error) {
	if delimiter == 0 {
		delimiter = ','
	}

	var transactions [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(c rune) bool { return c == delimiter })
		tx := make([]string, 0, len(fields))
		for _, f := range fields {
			if f = strings.TrimSpace(f); f != "" {
				tx = append(tx, f)
			}
		}
		transactions = append(transactions, tx)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDataset, err, "read transactions")
	}

	t := TransactionTable(transactions)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Read parses r in the given format. Delimiter and weight column follow
// CSVOptions; the weight column is ignored for baskets.
func Read(r io.Reader, format string, opts CSVOptions) (*Table, error) {
	switch format {
	case FormatCSV, "":
		return ReadCSV(r, opts)
	case FormatBasket:
		return ReadBasket(r, opts.Delimiter)
	default:
		return nil, errs.New(errs.ErrCodeInvalidOption, "invalid format: %q (must be one of: csv, basket)", format)
	}
}

// ReadFile opens path and parses it with Read.
func ReadFile(path, format string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open dataset %s", path)
	}
	defer f.Close()
	return Read(f, format, opts)
}

func dropIndex(s []string, i int) []string {
	if i < 0 {
		return s
	}
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
