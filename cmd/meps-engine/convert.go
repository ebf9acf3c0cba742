package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/meps-engine/internal/table"
	"github.com/meshintel/meps-engine/internal/xport"
	"github.com/meshintel/meps-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local SAS transport files to JSONL, CSV, or Parquet",
	Long: `Convert decodes one or more local SAS transport (.ssp) files and writes
each as JSONL, CSV, or Parquet next to the input (or under --output-dir).
Existing outputs are overwritten.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("format", "jsonl", "output format: jsonl, csv, or parquet")
	convertCmd.Flags().Bool("compress", false, "gzip jsonl/csv outputs")
	convertCmd.Flags().String("output-dir", "", "directory for converted files (default: next to each input)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more transport files")
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := types.ParseExportFormat(formatName)
	if err != nil {
		return err
	}
	compress, _ := cmd.Flags().GetBool("compress")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	failed := 0
	for _, path := range args {
		out := outputPath(path, outputDir, format, compress)
		if err := convertOne(path, out, format, compress); err != nil {
			fmt.Fprintf(os.Stderr, "Failed: %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "Converted %s -> %s\n", path, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", failed)
	}
	return nil
}

func convertOne(path, out string, format types.ExportFormat, compress bool) error {
	tbl, err := xport.DecodeFile(path)
	if err != nil {
		return err
	}
	return writeExport(tbl, out, types.ExportConfig{Format: format, Compress: compress})
}

// outputPath swaps the input's extension for the format's, honoring
// --output-dir when set.
func outputPath(input, outputDir string, format types.ExportFormat, compress bool) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + string(format)
	if compress && format != types.ExportParquet {
		base += ".gz"
	}
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	}
	return filepath.Join(outputDir, base)
}

// exportToFile writes the table per the command's --format/--compress
// flags.
func exportToFile(cmd *cobra.Command, tbl *table.Table, path string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := types.ParseExportFormat(formatName)
	if err != nil {
		return err
	}
	compress, _ := cmd.Flags().GetBool("compress")
	if err := writeExport(tbl, path, types.ExportConfig{Format: format, Compress: compress}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported %s\n", path)
	return nil
}

func writeExport(tbl *table.Table, path string, cfg types.ExportConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := table.Export(f, tbl, cfg); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
