// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes t as a snappy-compressed parquet file. Numeric
// columns map to optional doubles, character columns to optional
// strings; missing cells become nulls.
func WriteParquet(w io.Writer, t *Table) error {
	schema, err := buildSchema(t)
	if err != nil {
		return err
	}

	buf := parquet.NewBuffer(schema)
	fieldOrder := make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		fieldOrder[i] = f.Name()
	}
	// Parquet sorts group fields by name; map table column positions to
	// schema positions so each value lands in its own column.
	colBySchema := make([]int, len(fieldOrder))
	for i, name := range fieldOrder {
		colBySchema[i] = t.ColumnIndex(name)
	}

	for i, row := range t.Rows {
		pqRow := make(parquet.Row, len(fieldOrder))
		for j := range fieldOrder {
			cell := row[colBySchema[j]]
			if cell == nil {
				pqRow[j] = parquet.NullValue().Level(0, 0, j)
				continue
			}
			val, err := cellValue(cell, t.Columns[colBySchema[j]])
			if err != nil {
				return fmt.Errorf("parquet: row %d: %w", i, err)
			}
			pqRow[j] = val.Level(0, 1, j)
		}
		if _, err := buf.WriteRows([]parquet.Row{pqRow}); err != nil {
			return fmt.Errorf("parquet: write row %d: %w", i, err)
		}
	}

	pw := parquet.NewWriter(w, schema, parquet.Compression(&parquet.Snappy))
	if _, err := pw.WriteRowGroup(buf); err != nil {
		pw.Close()
		return fmt.Errorf("parquet: write row group: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet: close writer: %w", err)
	}
	return nil
}

func buildSchema(t *Table) (*parquet.Schema, error) {
	group := make(parquet.Group, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("parquet: empty column name")
		}
		if _, dup := group[c.Name]; dup {
			return nil, fmt.Errorf("parquet: duplicate column name %q", c.Name)
		}
		switch c.Kind {
		case Numeric:
			group[c.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		case Character:
			group[c.Name] = parquet.Optional(parquet.String())
		default:
			return nil, fmt.Errorf("parquet: column %q has unknown kind %d", c.Name, c.Kind)
		}
	}
	name := t.Name
	if name == "" {
		name = "dataset"
	}
	return parquet.NewSchema(name, group), nil
}

func cellValue(cell any, col Column) (parquet.Value, error) {
	switch v := cell.(type) {
	case float64:
		if col.Kind != Numeric {
			return parquet.Value{}, fmt.Errorf("column %q: numeric cell in character column", col.Name)
		}
		return parquet.DoubleValue(v), nil
	case string:
		if col.Kind != Character {
			return parquet.Value{}, fmt.Errorf("column %q: character cell in numeric column", col.Name)
		}
		return parquet.ByteArrayValue([]byte(v)), nil
	default:
		return parquet.Value{}, fmt.Errorf("column %q: unsupported cell type %T", col.Name, cell)
	}
}
