// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/meps-engine/internal/catalog"
	"github.com/meshintel/meps-engine/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the local dataset catalog",
	Long: `Cache inspects the catalog of datasets the engine has read: where each
transport file lives, where it came from, and its shape.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged datasets",
	RunE:  runCacheList,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Show the catalog record for one dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheInfo,
}

func init() {
	cacheCmd.PersistentFlags().String("dir", ".", "cache directory containing catalog.db")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	dir := flagOr(cmd, "dir", "catalog.dir", ".")
	return catalog.Open(types.CatalogConfig{Dir: dir})
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-6s  %-9s  %-6s  %8s  %8s  %s\n",
		"ID", "Year", "Type", "Source", "Rows", "Cols", "Path")
	for _, rec := range records {
		year := ""
		if rec.Year != 0 {
			year = fmt.Sprintf("%d", rec.Year)
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-6s  %-9s  %-6s  %8d  %8d  %s\n",
			rec.ID, year, rec.FileType, rec.Source, rec.Rows, rec.Columns, rec.Path)
	}
	return nil
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "ID:         %s\n", rec.ID)
	if rec.Year != 0 {
		fmt.Fprintf(os.Stdout, "Year:       %d\n", rec.Year)
	}
	if rec.FileType != "" {
		fmt.Fprintf(os.Stdout, "Type:       %s\n", rec.FileType)
	}
	fmt.Fprintf(os.Stdout, "Path:       %s\n", rec.Path)
	fmt.Fprintf(os.Stdout, "Source:     %s\n", rec.Source)
	if rec.SourceURL != "" {
		fmt.Fprintf(os.Stdout, "URL:        %s\n", rec.SourceURL)
	}
	fmt.Fprintf(os.Stdout, "Fetched:    %s\n", rec.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(os.Stdout, "Rows:       %d\n", rec.Rows)
	fmt.Fprintf(os.Stdout, "Columns:    %d\n", rec.Columns)
	fmt.Fprintf(os.Stdout, "Size:       %d bytes\n", rec.SizeBytes)
	return nil
}
