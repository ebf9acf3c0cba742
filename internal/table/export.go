// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"
	jsoniter "github.com/json-iterator/go"

	"github.com/meshintel/meps-engine/pkg/types"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Export writes t to w in the configured format. Compress wraps JSONL
// and CSV output in gzip; parquet carries its own internal compression
// and ignores the flag.
func Export(w io.Writer, t *Table, cfg types.ExportConfig) error {
	if cfg.Compress && cfg.Format != types.ExportParquet {
		gz := gzip.NewWriter(w)
		if err := exportPlain(gz, t, cfg.Format); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}
	return exportPlain(w, t, cfg.Format)
}

func exportPlain(w io.Writer, t *Table, format types.ExportFormat) error {
	switch format {
	case types.ExportJSONL:
		return WriteJSONL(w, t)
	case types.ExportCSV:
		return WriteCSV(w, t)
	case types.ExportParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSONL writes one JSON object per row, keyed by column name.
// Missing cells serialize as null.
func WriteJSONL(w io.Writer, t *Table) error {
	enc := jsonCodec.NewEncoder(w)
	for i := range t.Rows {
		if err := enc.Encode(t.rowMap(i)); err != nil {
			return fmt.Errorf("jsonl: row %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes a header row of column names followed by the data.
// Missing cells become empty fields; numerics use the shortest
// round-trippable representation.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, cell := range row {
			record[j] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
