package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/config"
	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/sheets"
	"github.com/dispatchd/bookingflow/internal/storage"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [files or directories...]",
		Short: "Process booking request files into dispatch-ready records",
		Long: `Process one or more booking request text files. Directory
arguments are expanded to the .txt and .eml files they contain. With no
arguments the request is read from stdin.

Examples:
  # Process a single request file
  bookingflow process inbox/request.txt

  # Process every request in a directory
  bookingflow process inbox/*.txt

  # Pipe a request in
  pbpaste | bookingflow process

  # Export resulting bookings to the Google Sheets dispatch log
  bookingflow process inbox/*.txt --export`,
		RunE: runProcess,
	}

	cmd.Flags().Bool("json", false, "Print full result envelopes as JSON")
	cmd.Flags().Bool("export", false, "Append extracted bookings to the Google Sheets dispatch log")
	cmd.Flags().Bool("no-store", false, "Skip recording runs in the local history database")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	export, _ := cmd.Flags().GetBool("export")
	noStore, _ := cmd.Flags().GetBool("no-store")
	ctx := cmd.Context()

	requests, err := collectRequests(args)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("no booking requests to process")
	}

	pipe := initPipeline()

	var store *storage.SQLiteStorage
	if !noStore {
		s, storeErr := initStorage(ctx)
		if storeErr != nil {
			return common.NewUserError("failed to open run history", storeErr)
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	var writer sheets.RowWriter
	if export {
		sheetsCfg, cfgErr := config.LoadSheetsConfig()
		if cfgErr != nil {
			return common.NewUserError("sheets export not configured", cfgErr)
		}
		w, writerErr := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if writerErr != nil {
			return common.NewUserError("failed to create sheets writer", writerErr)
		}
		writer = w
	}

	var bar *progressbar.ProgressBar
	if len(requests) > 1 && !asJSON {
		bar = progressbar.NewOptions(len(requests),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Processing requests..."),
		)
	}

	var processed, succeeded, failed int
	for _, req := range requests {
		result := pipe.Process(ctx, req.text, req.source)
		processed++
		if result.Success {
			succeeded++
		} else {
			failed++
		}

		if store != nil {
			if _, saveErr := store.SaveRun(ctx, req.source, &result); saveErr != nil {
				slog.Warn("Failed to record run", "source", req.source, "error", saveErr)
			}
		}

		exportRecords(ctx, writer, req.source, &result)

		if asJSON {
			if err := printJSON(cmd.OutOrStdout(), &result); err != nil {
				return err
			}
		} else {
			printSummary(cmd.OutOrStdout(), req.source, &result)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	stats := pipe.Stats()
	slog.Info("Processing complete",
		"requests", processed,
		"succeeded", succeeded,
		"failed", failed,
		"single", stats.SingleRequests,
		"multiple", stats.MultipleRequests,
		"structured", stats.StructuredRequests,
		"fallbacks", stats.FallbackResults,
		"records", stats.TotalRecords)

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, processed)
	}
	return nil
}

// exportRecords appends a result's bookings to the dispatch sheet. Export
// failures are logged, not fatal; the run itself already succeeded.
func exportRecords(ctx context.Context, writer sheets.RowWriter, source string, result *model.ProcessResult) {
	if writer == nil || len(result.Records) == 0 {
		return
	}
	if err := writer.Append(ctx, result.Records); err != nil {
		slog.Warn("Failed to export bookings", "source", source, "error", err)
	}
}

type request struct {
	source string
	text   string
}

// collectRequests expands file globs into request payloads, or reads stdin
// when no files are named.
func collectRequests(args []string) ([]request, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []request{{source: "stdin", text: string(data)}}, nil
	}

	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}

	expanded, err := expandDirectories(files)
	if err != nil {
		return nil, err
	}

	requests := make([]request, 0, len(expanded))
	for _, file := range expanded {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		requests = append(requests, request{source: file, text: string(data)})
	}

	return requests, nil
}

// expandDirectories replaces directory entries with the request files they
// contain. Only .txt and .eml files count as requests; anything else in
// the directory is skipped.
func expandDirectories(files []string) ([]string, error) {
	expanded := make([]string, 0, len(files))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", file, err)
		}
		if !info.IsDir() {
			expanded = append(expanded, file)
			continue
		}

		entries, err := os.ReadDir(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", file, err)
		}
		found := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".txt", ".eml":
				expanded = append(expanded, filepath.Join(file, entry.Name()))
				found++
			}
		}
		if found == 0 {
			slog.Warn("No request files found in directory", "dir", file)
		}
	}
	return expanded, nil
}

func printJSON(w io.Writer, result *model.ProcessResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, source string, result *model.ProcessResult) {
	if !result.Success {
		fmt.Fprintf(w, "✗ %s: %s\n", source, result.Error)
		return
	}

	fmt.Fprintf(w, "✓ %s: %d booking(s), confidence %.2f\n", source, result.Count, result.Confidence)
	for i := range result.Records {
		fmt.Fprintf(w, "    %s\n", result.Records[i].Summary())
	}
	if result.CountMismatch {
		fmt.Fprintf(w, "    ⚠ expected %d booking(s), extracted %d\n", result.ExpectedCount, result.Count)
	}
}
