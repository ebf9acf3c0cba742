// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/meshintel/meps-engine/internal/catalog"
	"github.com/meshintel/meps-engine/internal/fetch"
	"github.com/meshintel/meps-engine/internal/names"
	"github.com/meshintel/meps-engine/internal/request"
	"github.com/meshintel/meps-engine/internal/retrieve"
	"github.com/meshintel/meps-engine/internal/source"
	"github.com/meshintel/meps-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "meps-engine/0.1"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read a MEPS public use file into a table",
	Long: `Read resolves a dataset request to a canonical file number, looks for
the transport file in the local directory, and downloads it from the AHRQ
site (or an S3 mirror) when it is not there. The decoded table is
summarized on stdout and can be exported with --output.

Identify the dataset either directly:

  meps-engine read --id h171

or by year and file type:

  meps-engine read --year 2014 --type FYC`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().String("id", "", "dataset file number (e.g. h171)")
	readCmd.Flags().Int("year", 0, "data year (e.g. 2014)")
	readCmd.Flags().String("type", "", "file type (e.g. FYC, COND, RX)")
	readCmd.Flags().String("dir", ".", "local directory probed for transport files")
	readCmd.Flags().Bool("remote", false, "skip the local probe and always download")
	readCmd.Flags().String("base-url", "", "download endpoint override")
	readCmd.Flags().String("s3-bucket", "", "fetch from this S3 mirror bucket instead of the download site")
	readCmd.Flags().String("s3-prefix", "", "key prefix inside the mirror bucket")
	readCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	readCmd.Flags().String("output", "", "export the table to this file")
	readCmd.Flags().String("format", "jsonl", "export format: jsonl, csv, or parquet")
	readCmd.Flags().Bool("compress", false, "gzip jsonl/csv exports")
	readCmd.Flags().Bool("no-catalog", false, "skip catalog recording")

	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	dir := flagOr(cmd, "dir", "retrieval.cache_dir", ".")
	preferRemote, _ := cmd.Flags().GetBool("remote")

	fetcher, err := fetcherFromFlags(cmd, dir)
	if err != nil {
		return err
	}

	opts := retrieve.Options{
		Dir:          dir,
		PreferRemote: preferRemote,
		Fetcher:      fetcher,
		Notify:       printNotice,
	}

	tbl, outcome, err := retrieve.Read(context.Background(), req, opts)
	if err != nil {
		return err
	}

	origin := "remote"
	if outcome.Local {
		origin = "local"
	}
	fmt.Fprintf(os.Stdout, "%s: %d rows, %d columns (%s, %s)\n",
		outcome.Identifier, tbl.NumRows(), tbl.NumCols(), origin, outcome.Path)

	if noCatalog, _ := cmd.Flags().GetBool("no-catalog"); !noCatalog {
		if err := recordOutcome(cmd, req, outcome, tbl.NumRows(), tbl.NumCols()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: catalog update failed: %v\n", err)
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return nil
	}
	return exportToFile(cmd, tbl, output)
}

// requestFromFlags builds the dataset request from --id or --year/--type.
func requestFromFlags(cmd *cobra.Command) (request.Request, error) {
	id, _ := cmd.Flags().GetString("id")
	year, _ := cmd.Flags().GetInt("year")
	typeName, _ := cmd.Flags().GetString("type")

	if id != "" {
		if year != 0 || typeName != "" {
			return request.Request{}, fmt.Errorf("--id cannot be combined with --year/--type")
		}
		return request.ByIdentifier(id)
	}
	if year == 0 && typeName == "" {
		return request.Request{}, fmt.Errorf("provide --id, or --year and --type")
	}
	ft, err := names.ParseFileType(typeName)
	if err != nil {
		return request.Request{}, err
	}
	return request.ByYearType(year, ft)
}

// fetcherFromFlags selects the S3 mirror fetcher when a bucket is
// configured, and the HTTP download fetcher otherwise.
func fetcherFromFlags(cmd *cobra.Command, dir string) (fetch.Fetcher, error) {
	bucket := flagOr(cmd, "s3-bucket", "retrieval.s3_bucket", "")
	if bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return &fetch.S3Fetcher{
			Client: s3.NewFromConfig(awsCfg),
			Bucket: bucket,
			Prefix: flagOr(cmd, "s3-prefix", "retrieval.s3_prefix", ""),
			Dir:    dir,
		}, nil
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &fetch.HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   flagOr(cmd, "base-url", "retrieval.base_url", ""),
		Dir:       dir,
		UserAgent: defaultUserAgent,
	}, nil
}

// printNotice renders selector notices on stderr, away from the data
// output.
func printNotice(n source.Notice) {
	switch n.Kind {
	case source.NoticeWarning:
		fmt.Fprintf(os.Stderr, "Warning: %s\n", n.Message)
	default:
		fmt.Fprintf(os.Stderr, "%s\n", n.Message)
	}
}

// recordOutcome upserts the read into the cache catalog next to the
// transport file.
func recordOutcome(cmd *cobra.Command, req request.Request, outcome retrieve.Outcome, rows, cols int) error {
	store, err := catalog.Open(types.CatalogConfig{Dir: flagOr(cmd, "dir", "retrieval.cache_dir", ".")})
	if err != nil {
		return err
	}
	defer store.Close()

	rec := types.DatasetRecord{
		ID:        outcome.Identifier,
		Path:      outcome.Path,
		Source:    types.SourceLocal,
		FetchedAt: time.Now(),
		Rows:      rows,
		Columns:   cols,
	}
	if year, ft := req.YearType(); year != 0 {
		rec.Year = year
		rec.FileType = string(ft)
	}
	if !outcome.Local {
		rec.Source = types.SourceWeb
		if bucket := flagOr(cmd, "s3-bucket", "retrieval.s3_bucket", ""); bucket != "" {
			rec.Source = types.SourceS3
		} else {
			f := &fetch.HTTPFetcher{BaseURL: flagOr(cmd, "base-url", "retrieval.base_url", "")}
			rec.SourceURL = f.URL(outcome.Identifier)
		}
	}
	if info, err := os.Stat(outcome.Path); err == nil {
		rec.SizeBytes = info.Size()
	}
	return store.Record(cmd.Context(), rec)
}
