// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds the decoded tabular result returned to callers,
// plus exporters to common interchange formats.
package table

// ColumnKind is the storage type of a column. Transport files only
// distinguish numerics and fixed-width character fields.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Character
)

func (k ColumnKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Character:
		return "character"
	default:
		return "unknown"
	}
}

// Column describes one variable of a dataset.
type Column struct {
	Name  string
	Label string
	Kind  ColumnKind
}

// Table is a decoded dataset: ordered columns and row-major cells.
// Cells hold float64 for numerics, string for character fields, and nil
// for missing values. The caller owns the Table after it is returned;
// the engine keeps no reference.
type Table struct {
	// Name is the dataset member name from the transport file
	// (e.g. "H171").
	Name string

	// Label is the dataset label, often empty.
	Label string

	Columns []Column
	Rows    [][]any
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports structural equality: same member name, same columns in
// order, same cells. Labels participate; two decodes of the same file
// compare equal.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.Label != other.Label {
		return false
	}
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, c := range t.Columns {
		if c != other.Columns[i] {
			return false
		}
	}
	for i, row := range t.Rows {
		if len(row) != len(other.Rows[i]) {
			return false
		}
		for j, cell := range row {
			if cell != other.Rows[i][j] {
				return false
			}
		}
	}
	return true
}

// rowMap returns row i as a name-keyed map, used by the JSONL exporter.
func (t *Table) rowMap(i int) map[string]any {
	m := make(map[string]any, len(t.Columns))
	for j, c := range t.Columns {
		m[c.Name] = t.Rows[i][j]
	}
	return m
}
