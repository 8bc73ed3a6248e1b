// Package dataset loads tabular data and exposes it as binary columns for
// itemset mining.
//
// A [Table] is the raw form: named columns of string cells plus optional row
// weights. [Binarize] turns a Table into a [Binary] dataset in which every
// column has a single positive value, dropping columns that are not two-valued.
// [Binary] implements the dataset interface consumed by package fpgrowth.
//
// Two input formats are supported:
//   - CSV with a header row, one column per attribute ([ReadCSV])
//   - Basket files with one transaction per line ([ReadBasket])
package dataset

import (
	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// Cell values for columns derived from transactions.
const (
	Present = "1"
	Absent  = "0"
)

// Table is a dataset of string cells.
type Table struct {
	Columns []string
	Rows    [][]string

	// Weights holds the multiplicity of each row. Nil means every row has
	// weight 1.
	Weights []int
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// Weight returns the multiplicity of row i.
func (t *Table) Weight(i int) int {
	if t.Weights == nil {
		return 1
	}
	return t.Weights[i]
}

// Validate checks the table shape, column names and weights.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for _, name := range t.Columns {
		if err := errs.ValidateColumnName(name); err != nil {
			return err
		}
		if seen[name] {
			return errs.New(errs.ErrCodeInvalidDataset, "duplicate column %q", name)
		}
		seen[name] = true
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return errs.New(errs.ErrCodeInvalidDataset, "row %d has %d cells, want %d", i+1, len(row), len(t.Columns))
		}
	}
	if t.Weights != nil {
		if len(t.Weights) != len(t.Rows) {
			return errs.New(errs.ErrCodeInvalidDataset, "%d weights for %d rows", len(t.Weights), len(t.Rows))
		}
		for i, w := range t.Weights {
			if w <= 0 {
				return errs.New(errs.ErrCodeInvalidDataset, "row %d has non-positive weight %d", i+1, w)
			}
		}
	}
	return nil
}

// TransactionTable converts transactions into a table with one column per
// distinct item, in order of first appearance. A cell is Present if the
// transaction contains the item and Absent otherwise. Empty item names and
// duplicates within a transaction are ignored.
func TransactionTable(transactions [][]string) *Table {
	index := make(map[string]int)
	var columns []string
	for _, tx := range transactions {
		for _, item := range tx {
			if item == "" {
				continue
			}
			if _, ok := index[item]; !ok {
				index[item] = len(columns)
				columns = append(columns, item)
			}
		}
	}

	rows := make([][]string, len(transactions))
	for i, tx := range transactions {
		row := make([]string, len(columns))
		for j := range row {
			row[j] = Absent
		}
		for _, item := range tx {
			if item != "" {
				row[index[item]] = Present
			}
		}
		rows[i] = row
	}
	return &Table{Columns: columns, Rows: rows}
}
