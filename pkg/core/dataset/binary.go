package dataset

import (
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

var (
	truthy = map[string]bool{"1": true, "true": true, "t": true, "yes": true, "y": true, "on": true, "+": true, "positive": true}
	falsy  = map[string]bool{"0": true, "false": true, "f": true, "no": true, "n": true, "off": true, "-": true, "negative": true}
)

// IsMissing reports whether a cell holds no value. Missing cells are never
// positive and do not count towards a column's domain.
func IsMissing(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", "?", "NA", "N/A":
		return true
	}
	return false
}

// Warning describes a column that was dropped during binarization.
type Warning struct {
	Column string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("column %q dropped: %s", w.Column, w.Reason)
}

// Binary is a dataset in which every column has one positive value.
//
// Positive cells are stored as one bitset per column. Binary implements the
// dataset interface of package fpgrowth and is read-only after construction.
type Binary struct {
	names    []string
	domains  [][]string
	positive []int
	bits     [][]uint64
	weights  []int
}

// Binarize converts t into a Binary dataset.
//
// For each column the distinct non-missing values form its domain. A column
// with more than two values, or one whose positive value cannot be determined,
// is dropped and reported as a Warning. The positive value is:
//   - positive, if non-empty; columns whose two values do not include it are
//     dropped
//   - otherwise the truthy token of the domain (1, true, yes, ...), or the
//     value opposite a falsy token (0, false, no, ...)
//   - otherwise the lexicographically greater of the two values
//
// A single-valued column is kept if that value is positive and dropped if it is
// falsy. If no column survives, Binarize returns an error with code
// NO_BINARY_COLUMNS.
func Binarize(t *Table, positive string) (*Binary, []Warning, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	b := &Binary{weights: make([]int, t.NumRows())}
	for i := range b.weights {
		b.weights[i] = t.Weight(i)
	}

	var warnings []Warning
	for col, name := range t.Columns {
		domain := columnDomain(t, col)
		pos, reason := resolvePositive(domain, positive)
		if reason != "" {
			warnings = append(warnings, Warning{Column: name, Reason: reason})
			continue
		}
		if pos == len(domain) {
			domain = append(domain, positive)
		}
		b.names = append(b.names, name)
		b.domains = append(b.domains, domain)
		b.positive = append(b.positive, pos)
		b.bits = append(b.bits, columnBits(t, col, domain[pos]))
	}

	if len(b.names) == 0 {
		return nil, warnings, errs.New(errs.ErrCodeNoBinaryColumns, "dataset has no usable binary columns (%d columns dropped)", len(warnings))
	}
	return b, warnings, nil
}

// FromTransactions builds a Binary dataset with one column per distinct item.
func FromTransactions(transactions [][]string) (*Binary, error) {
	b, _, err := Binarize(TransactionTable(transactions), "")
	return b, err
}

func columnDomain(t *Table, col int) []string {
	var domain []string
	for _, row := range t.Rows {
		v := row[col]
		if IsMissing(v) || slices.Contains(domain, v) {
			continue
		}
		domain = append(domain, v)
		if len(domain) > 2 {
			break
		}
	}
	return domain
}

// resolvePositive returns the domain index of the positive value, or a reason
// why the column is unusable. An index equal to len(domain) means the override
// value never occurs in the column.
func resolvePositive(domain []string, override string) (int, string) {
	switch {
	case len(domain) == 0:
		return 0, "no values"
	case len(domain) > 2:
		return 0, "more than two distinct values"
	}

	if override != "" {
		if i := slices.Index(domain, override); i >= 0 {
			return i, ""
		}
		if len(domain) == 2 {
			return 0, fmt.Sprintf("positive value %q is not one of %q, %q", override, domain[0], domain[1])
		}
		return len(domain), ""
	}

	norm := func(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
	if len(domain) == 1 {
		if falsy[norm(domain[0])] {
			return 0, fmt.Sprintf("only negative value %q", domain[0])
		}
		return 0, ""
	}

	a, b := norm(domain[0]), norm(domain[1])
	switch {
	case truthy[a] && !truthy[b]:
		return 0, ""
	case truthy[b] && !truthy[a]:
		return 1, ""
	case falsy[a] && !falsy[b]:
		return 1, ""
	case falsy[b] && !falsy[a]:
		return 0, ""
	case domain[0] > domain[1]:
		return 0, ""
	default:
		return 1, ""
	}
}

func columnBits(t *Table, col int, positive string) []uint64 {
	bits := make([]uint64, (t.NumRows()+63)/64)
	for i, row := range t.Rows {
		if row[col] == positive {
			bits[i/64] |= 1 << (uint(i) % 64)
		}
	}
	return bits
}

// NumRows returns the number of rows.
func (b *Binary) NumRows() int { return len(b.weights) }

// NumColumns returns the number of binary columns.
func (b *Binary) NumColumns() int { return len(b.names) }

// ColumnName returns the name of column col.
func (b *Binary) ColumnName(col int) string { return b.names[col] }

// ColumnNames returns a copy of all column names.
func (b *Binary) ColumnNames() []string { return slices.Clone(b.names) }

// Domain returns the values of column col. The slice must not be modified.
func (b *Binary) Domain(col int) []string { return b.domains[col] }

// PositiveValue returns the domain index of column col's positive value.
func (b *Binary) PositiveValue(col int) int { return b.positive[col] }

// Positive returns the positive value of column col.
func (b *Binary) Positive(col int) string { return b.domains[col][b.positive[col]] }

// IsPositive reports whether row carries the positive value of col.
func (b *Binary) IsPositive(row, col int) bool {
	return b.bits[col][row/64]&(1<<(uint(row)%64)) != 0
}

// Weight returns the multiplicity of row.
func (b *Binary) Weight(row int) int { return b.weights[row] }
