package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/output"
	"github.com/Aman-CERP/docindex/internal/profiling"
)

type ingestOptions struct {
	batch           int
	continueOnError bool
	noProgress      bool
}

// ingestResult summarizes one ingest run.
type ingestResult struct {
	Path      string        `json:"path"`
	Lines     int           `json:"lines"`
	Added     int           `json:"added"`
	Rejected  int           `json:"rejected"`
	Commits   int           `json:"commits"`
	Duration  time.Duration `json:"duration_ns"`
	HeapInUse string        `json:"heap_in_use"`
	Failures  []lineFailure `json:"failures,omitempty"`
}

type lineFailure struct {
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// maxReportedFailures caps the failures kept for the summary.
const maxReportedFailures = 20

func newIngestCmd(a *app) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest <index-path> [file.jsonl ...]",
		Short: "Add JSON-lines documents to an index",
		Long: `Open a writer on the index and add one document per input line.

Input comes from the named files, or stdin when none are given. Blank
lines are skipped. Documents are committed every --batch lines and once
more at the end; a rejected document stops the run unless
--continue-on-error is set, in which case it is reported and skipped.`,
		Example: `  docindex ingest ./idx docs.jsonl
  docindex ingest ./idx --batch 1000 --continue-on-error a.jsonl b.jsonl
  producer | docindex ingest ./idx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIngest(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.batch, "batch", "b", 0, "Commit after this many documents (0 commits once at the end)")
	cmd.Flags().BoolVar(&opts.continueOnError, "continue-on-error", false, "Report and skip rejected documents")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func (a *app) runIngest(cmd *cobra.Command, path string, files []string, opts *ingestOptions) error {
	if opts.batch < 0 {
		return errors.ValidationError(errors.ErrCodeConfigInvalid, "--batch must not be negative")
	}

	h, err := a.backend.OpenWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.backend.CloseWriter(h); cerr != nil {
			slog.Warn("writer_close_failed", slog.String("path", path), slog.String("error", cerr.Error()))
		}
	}()

	out := output.New(cmd.ErrOrStderr())
	showProgress := !opts.noProgress && !a.jsonOutput && output.IsTTY(cmd.ErrOrStderr())

	res := &ingestResult{Path: path}
	start := time.Now()
	pending := 0

	feed := func(source string, r io.Reader, size int64) error {
		var read int64
		return eachLine(r, func(n int, line []byte) error {
			res.Lines++
			read += int64(len(line)) + 1
			if showProgress && size > 0 {
				out.Progress(int(min(read, size)), int(size), source)
			}

			if err := a.backend.AddDocument(h, string(line)); err != nil {
				res.Rejected++
				if !opts.continueOnError {
					return atLine(source, n, err)
				}
				if len(res.Failures) < maxReportedFailures {
					res.Failures = append(res.Failures, lineFailure{
						Source:  source,
						Line:    n,
						Code:    errors.NumericCode(err),
						Message: message(err),
					})
				}
				return nil
			}
			res.Added++
			pending++

			if opts.batch > 0 && pending >= opts.batch {
				if err := a.backend.CommitWriter(h); err != nil {
					return err
				}
				res.Commits++
				pending = 0
			}
			return nil
		})
	}

	if len(files) == 0 {
		err = feed("stdin", cmd.InOrStdin(), 0)
	}
	for _, name := range files {
		if err = ingestFile(name, feed); err != nil {
			break
		}
	}
	if err != nil {
		return err
	}

	if pending > 0 {
		if err := a.backend.CommitWriter(h); err != nil {
			return err
		}
		res.Commits++
	}

	res.Duration = time.Since(start)
	res.HeapInUse = profiling.FormatBytes(profiling.HeapInUse())
	slog.Info("ingest_complete",
		slog.String("path", path),
		slog.Int("added", res.Added),
		slog.Int("rejected", res.Rejected),
		slog.Duration("duration", res.Duration))

	return a.report(cmd, res, func(w *output.Writer) { printIngestSummary(w, res) })
}

func ingestFile(name string, feed func(string, io.Reader, int64) error) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to open %s", name), err)
	}
	defer func() { _ = f.Close() }()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return feed(name, f, size)
}

// eachLine calls fn with every non-blank line of r and its 1-based number.
// Lines of any length are supported.
func eachLine(r io.Reader, fn func(n int, line []byte) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for n := 1; ; n++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimRight(line, "\r\n")
			if len(bytes.TrimSpace(line)) > 0 {
				if ferr := fn(n, line); ferr != nil {
					return ferr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.IOError("failed to read input", err)
		}
	}
}

// atLine prefixes err's message with its input position.
func atLine(source string, n int, err error) error {
	e, ok := errors.As(err)
	if !ok {
		return fmt.Errorf("%s:%d: %w", source, n, err)
	}
	return errors.New(e.Code, fmt.Sprintf("%s:%d: %s", source, n, e.Message), e.Cause)
}

func message(err error) string {
	if e, ok := errors.As(err); ok {
		return e.Message
	}
	return err.Error()
}

func printIngestSummary(w *output.Writer, res *ingestResult) {
	if res.Rejected == 0 {
		w.Successf("Added %d documents to %s", res.Added, res.Path)
	} else {
		w.Warningf("Added %d documents to %s, rejected %d", res.Added, res.Path, res.Rejected)
	}
	w.KeyValue("Commits", res.Commits)
	w.KeyValue("Duration", res.Duration.Round(time.Millisecond))
	w.KeyValue("Heap", res.HeapInUse)
	for _, f := range res.Failures {
		w.Errorf("%s:%d: %s", f.Source, f.Line, f.Message)
	}
	if extra := res.Rejected - len(res.Failures); extra > 0 {
		w.Status("", fmt.Sprintf("... and %d more", extra))
	}
}
