// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubfetch/internal/export"
	"github.com/pdiddy/pubfetch/internal/orcid"
	"github.com/pdiddy/pubfetch/internal/pipeline"
	"github.com/pdiddy/pubfetch/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [orcid-id]",
	Short: "Fetch the publication list for an ORCID iD",
	Long: `Fetch discovers the DOIs registered for an ORCID iD, resolves each one
against CrossRef and Altmetric, and prints the merged records.

With --stdin, iDs are read one per line. A new line cancels the lookup
still running for the previous one, and only the newest result is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("format", "table", "output format: table, json, csl, csv")
	fetchCmd.Flags().String("save", "", "also save the result to this YAML file")
	fetchCmd.Flags().Bool("export", false, "also write the CSV download file to --out-dir")
	fetchCmd.Flags().String("out-dir", ".", "directory for --export files")
	fetchCmd.Flags().Bool("stdin", false, "read ORCID iDs from stdin, one per line")
	fetchCmd.Flags().Int("workers", 0, "number of DOIs resolved concurrently")
	fetchCmd.Flags().Duration("timeout", 0, "deadline for each upstream call")
	fetchCmd.Flags().String("cache", "", "cache backend: memory or sqlite")
	fetchCmd.Flags().Bool("no-altmetric", false, "skip Altmetric lookups")

	viper.BindPFlag("workers", fetchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("http.timeout", fetchCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("cache.backend", fetchCmd.Flags().Lookup("cache"))

	rootCmd.AddCommand(fetchCmd)
}

// fetchOptions controls what a completed fetch writes.
type fetchOptions struct {
	Format   string
	SavePath string
	Export   bool
	OutDir   string
}

func runFetch(cmd *cobra.Command, args []string) error {
	opts := fetchOptions{}
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.SavePath, _ = cmd.Flags().GetString("save")
	opts.Export, _ = cmd.Flags().GetBool("export")
	opts.OutDir, _ = cmd.Flags().GetString("out-dir")
	fromStdin, _ := cmd.Flags().GetBool("stdin")

	if !validFormat(opts.Format) {
		return fmt.Errorf("unknown format %q (want table, json, csl, or csv)", opts.Format)
	}
	if fromStdin == (len(args) == 1) {
		return fmt.Errorf("give exactly one ORCID iD or --stdin")
	}

	cfg, err := loadPipelineConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if skip, _ := cmd.Flags().GetBool("no-altmetric"); skip {
		cfg.Altmetric.Enabled = false
	}

	store, closeStore, err := openStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	latest := &pipeline.Latest{Aggregator: buildAggregator(cfg, store, slog.Default())}
	if fromStdin {
		return fetchLines(cmd.Context(), latest, cmd.InOrStdin(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return fetchOne(cmd.Context(), latest, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// fetchOne runs a single lookup and reports its outcome.
func fetchOne(ctx context.Context, latest *pipeline.Latest, raw string, opts fetchOptions, stdout, stderr io.Writer) error {
	warnChecksum(raw)
	res, err := latest.Run(ctx, raw)
	return report(res, err, opts, stdout, stderr)
}

// fetchLines starts a lookup per input line. Each new line supersedes the
// previous lookup; superseded lookups print nothing. Every other failure is
// logged and returned, joined, once input is exhausted.
func fetchLines(ctx context.Context, latest *pipeline.Latest, in io.Reader, opts fetchOptions, stdout, stderr io.Writer) error {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = &lockedWriter{mu: &mu, w: stdout}
		log = &lockedWriter{mu: &mu, w: stderr}

		errMu sync.Mutex
		errs  []error
	)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		warnChecksum(raw)
		delivery := latest.Start(ctx, raw)

		wg.Add(1)
		go func() {
			defer wg.Done()
			d := <-delivery
			err := report(d.Result, d.Err, opts, out, log)
			if err == nil || errors.Is(err, pipeline.ErrSuperseded) {
				return
			}
			slog.Warn("lookup failed", "input", raw, "err", err)
			errMu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", raw, err))
			errMu.Unlock()
		}()
	}
	wg.Wait()

	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading input: %w", err))
	}
	return errors.Join(errs...)
}

func warnChecksum(raw string) {
	if id, err := orcid.Validate(raw); err == nil && !orcid.ValidChecksum(id) {
		slog.Warn("ORCID iD check character does not match; continuing", "orcid", id)
	}
}

// report writes a finished lookup. Invalid input and discovery failures
// are returned as errors after their message is printed.
func report(res pipeline.Result, err error, opts fetchOptions, stdout, stderr io.Writer) error {
	outcome := pipeline.Classify(res, err)
	switch outcome {
	case pipeline.OutcomeFound:
	case pipeline.OutcomeEmpty:
		fmt.Fprintln(stderr, outcome.Message())
		return nil
	default:
		if !errors.Is(err, pipeline.ErrSuperseded) {
			fmt.Fprintln(stderr, outcome.Message())
		}
		return err
	}

	slog.Info("fetched publications", "orcid", res.ORCID, "request_id", res.RequestID, "records", len(res.Records))
	if err := writeRecords(res, opts.Format, stdout); err != nil {
		return err
	}
	if opts.SavePath != "" {
		if err := export.WriteResultFile(opts.SavePath, export.NewResultFile(res.ORCID.String(), res.RequestID, res.Records)); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Saved %s\n", opts.SavePath)
	}
	if opts.Export {
		path, err := writeCSVFile(opts.OutDir, res.ORCID.String(), res.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Exported %s\n", path)
	}
	return nil
}

func validFormat(f string) bool {
	switch f {
	case "table", "json", "csl", "csv":
		return true
	}
	return false
}

func writeRecords(res pipeline.Result, format string, w io.Writer) error {
	switch format {
	case "json":
		return export.FormatJSON(res.Records, w)
	case "csl":
		return export.FormatCSL(res.Records, w)
	case "csv":
		data, err := export.CSV(res.Records)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		export.FormatTable(res.Records, w)
		return nil
	}
}

// writeCSVFile writes the download file for orcidID into dir and returns
// its path.
func writeCSVFile(dir, orcidID string, records types.PublicationCollection) (string, error) {
	data, err := export.CSV(records)
	if err != nil {
		return "", fmt.Errorf("encoding CSV: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, export.Filename(orcidID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// lockedWriter serializes writes from concurrent lookups.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
