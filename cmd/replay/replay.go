package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/checkin/internal/adapters/sheet"
	app "github.com/okian/checkin/internal/app"
	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/pkg/logger"
)

var (
	errNoScans     = errors.New("no scans to replay")
	errScansNeeded = errors.New(`required flag "scans" not set`)
)

// runReplay loads the roster, verifies every line of the scans input in
// order, prints the log and summary, and saves the report.
func runReplay(ctx context.Context, opts *replayOptions, stdin io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := logger.Init(logger.WithWriter(errOut)); err != nil {
		return err
	}
	if err := logger.SetLevelString(opts.logLevel); err != nil {
		return err
	}
	log := logger.Named("replay")

	if opts.listSheets {
		return listSheets(opts.rosterPath, out)
	}
	if opts.scansPath == "" {
		return errScansNeeded
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", opts.timezone, err)
	}

	scans, err := readScans(opts.scansPath, stdin)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithQueueSize(len(scans)),
		app.WithDisplayTruncate(opts.truncate),
		app.WithReportOptions(report.WithLocation(loc), report.WithTimeLayout(opts.timeLayout)),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	info, err := svc.LoadRosterFile(ctx, opts.rosterPath, opts.sheet, opts.mapping())
	if err != nil {
		return err
	}
	log.Info(ctx, "roster loaded",
		logger.String("sheet", info.Sheet),
		logger.Int("records", info.Records),
		logger.String("idColumn", info.Mapping.ID),
	)

	for _, text := range scans {
		if _, err := svc.Verify(ctx, text); err != nil {
			return fmt.Errorf("scan %q: %w", text, err)
		}
	}

	m, err := svc.Mapping()
	if err != nil {
		return err
	}
	entries := svc.Entries()
	table, name, err := svc.Report(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, logTable(entries, m, loc, opts.timeLayout))
	fmt.Fprintln(out, summaryTable(entries, table))

	path := opts.reportPath
	if path == "" {
		path = filepath.Join(filepath.Dir(opts.rosterPath), name)
	}
	if err := sheet.SaveReport(path, table); err != nil {
		return err
	}
	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}

// readScans returns the non-empty lines of path, or of stdin for "-".
func readScans(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open scans: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var scans []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSuffix(sc.Text(), "\r"); line != "" {
			scans = append(scans, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scans: %w", err)
	}
	if len(scans) == 0 {
		return nil, errNoScans
	}
	return scans, nil
}

// listSheets prints the worksheet names of the roster workbook.
func listSheets(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open roster: %w", err)
	}
	defer func() { _ = f.Close() }()

	names, err := sheet.Sheets(f)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
