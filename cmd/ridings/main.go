// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command ridings regenerates the FSA → federal riding table bundled with the
// Canada resolver by probing the Represent postcode API.
//
//	ridings --out internal/core/jurisdiction/canada/data/fsa_ridings.json --merge
//	ridings --fsa M5V --fsa K1A --out -
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction/canada"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/canada/ridingsetl"
)

const defaultOutput = "internal/core/jurisdiction/canada/data/fsa_ridings.json"

type options struct {
	fsas        []string
	output      string
	merge       bool
	baseURL     string
	concurrency int
	batchDelay  time.Duration
	timeout     time.Duration
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	defaults := ridingsetl.DefaultConfig()
	opts := &options{}

	command := &cobra.Command{
		Use:           "ridings",
		Short:         "Build the Canadian FSA to federal riding table",
		Long:          `Queries the Represent postcode API for every Forward Sortation Area and writes the FSA → riding id table as sorted JSON. An interrupted run still writes the FSAs queried so far.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := command.Flags()
	flags.StringSliceVar(&opts.fsas, "fsa", nil, "FSA to query (repeatable); default is every valid FSA")
	flags.StringVarP(&opts.output, "out", "o", defaultOutput, `output file, "-" for stdout`)
	flags.BoolVar(&opts.merge, "merge", false, "overlay results on the existing output file")
	flags.StringVar(&opts.baseURL, "base-url", defaults.BaseURL, "Represent API base URL")
	flags.IntVar(&opts.concurrency, "concurrency", defaults.Concurrency, "lookups in flight per batch")
	flags.DurationVar(&opts.batchDelay, "batch-delay", defaults.BatchDelay, "pause between batches")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return command
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "lettertool-ridings"))

	fsas, err := targetFSAs(opts.fsas)
	if err != nil {
		return err
	}

	runner := ridingsetl.NewRunner(ridingsetl.Config{
		BaseURL:     opts.baseURL,
		Concurrency: opts.concurrency,
		BatchDelay:  opts.batchDelay,
		Timeout:     opts.timeout,
	}, log)
	defer runner.Close()

	log.Info("ridings_lookup_started", slog.Int("fsas", len(fsas)), slog.Int("concurrency", opts.concurrency))

	table, report, runErr := runner.Run(ctx, fsas)

	log.Info("ridings_lookup_finished",
		slog.Int("queried", report.Queried),
		slog.Int("mapped", report.Mapped),
		slog.Int("missing", len(report.Missing)),
	)
	if runErr != nil {
		log.Error("ridings_lookup_aborted", slog.String("error", runErr.Error()))
		if len(table) == 0 {
			return runErr
		}
		// Keep what was queried before the interruption.
		if err := writeOutput(opts, stdout, table, log); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	}

	return writeOutput(opts, stdout, table, log)
}

// writeOutput writes table to stdout or the output file, overlaying it on
// the existing file when --merge is set.
func writeOutput(opts *options, stdout io.Writer, table map[string]string, log *slog.Logger) (err error) {
	if opts.output == "-" {
		return ridingsetl.WriteTable(stdout, table)
	}

	if opts.merge {
		previous, err := readExisting(opts.output)
		if err != nil {
			return err
		}
		table = ridingsetl.Merge(previous, table)
	}

	file, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", opts.output, closeErr)
		}
	}()

	if err := ridingsetl.WriteTable(file, table); err != nil {
		return err
	}

	log.Info("ridings_table_written", slog.String("path", opts.output), slog.Int("entries", len(table)))
	return nil
}

// targetFSAs validates explicit --fsa values or falls back to every valid FSA.
func targetFSAs(explicit []string) ([]string, error) {
	if len(explicit) == 0 {
		return ridingsetl.AllFSAs(), nil
	}

	fsas := make([]string, 0, len(explicit))
	for _, raw := range explicit {
		fsa := canada.FSA(raw)
		if fsa == "" {
			return nil, fmt.Errorf("invalid FSA %q", raw)
		}
		fsas = append(fsas, fsa)
	}
	return fsas, nil
}

func readExisting(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return ridingsetl.ReadTable(file)
}
