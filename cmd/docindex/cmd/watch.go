package cmd

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/output"
	"github.com/Aman-CERP/docindex/internal/watcher"
)

type watchOptions struct {
	pattern  string
	debounce time.Duration
	fromEnd  bool
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <index-path> <dir>",
		Short: "Follow JSON-lines files in a directory and ingest new lines",
		Long: `Hold a writer on the index and follow every file in dir that matches
--pattern. Complete lines appended to those files are added and committed
after each burst of changes settles. Rejected documents are reported and
skipped. Runs until interrupted.`,
		Example: `  docindex watch ./idx /var/spool/articles
  docindex watch ./idx ./drop --pattern '*.ndjson' --from-end`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "pattern", "*.jsonl", "File name pattern to follow")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "Quiet period before changes are read")
	cmd.Flags().BoolVar(&opts.fromEnd, "from-end", false, "Skip lines already present in existing files")

	return cmd
}

// follower tracks how far each followed file has been read.
type follower struct {
	a       *app
	h       int64
	out     *output.Writer
	offsets map[string]int64
	added   int
	skipped int
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, path, dir string, opts *watchOptions) error {
	w, err := watcher.New(dir, watcher.Options{DebounceWindow: opts.debounce, Pattern: opts.pattern})
	if err != nil {
		return errors.IOError(fmt.Sprintf("cannot watch %s", dir), err)
	}
	defer func() { _ = w.Stop() }()

	h, err := a.backend.OpenWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.backend.CloseWriter(h); cerr != nil {
			slog.Warn("writer_close_failed", slog.String("path", path), slog.String("error", cerr.Error()))
		}
	}()

	f := &follower{a: a, h: h, out: output.New(cmd.OutOrStdout()), offsets: make(map[string]int64)}

	existing, err := filepath.Glob(filepath.Join(w.Dir(), opts.pattern))
	if err != nil {
		return errors.IOError("failed to list existing files", err)
	}
	sort.Strings(existing)
	for _, name := range existing {
		if opts.fromEnd {
			if info, err := os.Stat(name); err == nil {
				f.offsets[name] = info.Size()
			}
			continue
		}
		f.offsets[name] = 0
	}
	if !opts.fromEnd {
		if err := f.catchUp(existing); err != nil {
			return err
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	f.out.Statusf("👀", "Watching %s for %s", w.Dir(), opts.pattern)
	slog.Info("watch_started", slog.String("index", path), slog.String("dir", w.Dir()))

	for {
		select {
		case batch, ok := <-w.Events():
			if !ok {
				return f.finish(<-runErr)
			}
			if err := f.apply(batch); err != nil {
				return err
			}
		case err := <-w.Errors():
			slog.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

func (f *follower) apply(batch []watcher.FileEvent) error {
	var changed []string
	for _, ev := range batch {
		if ev.Operation == watcher.OpDelete {
			delete(f.offsets, ev.Path)
			continue
		}
		changed = append(changed, ev.Path)
	}
	return f.catchUp(changed)
}

// catchUp reads new complete lines from files and commits them together.
func (f *follower) catchUp(files []string) error {
	before := f.added
	for _, name := range files {
		if err := f.readFrom(name); err != nil {
			return err
		}
	}
	if f.added == before {
		return nil
	}
	if err := f.a.backend.CommitWriter(f.h); err != nil {
		return err
	}
	f.out.Successf("Committed %d documents (%d total)", f.added-before, f.added)
	return nil
}

func (f *follower) readFrom(name string) error {
	file, err := os.Open(name)
	if err != nil {
		// Gone between the event and the read.
		delete(f.offsets, name)
		return nil
	}
	defer func() { _ = file.Close() }()

	offset := f.offsets[name]
	if info, err := file.Stat(); err == nil && info.Size() < offset {
		slog.Info("watch_file_truncated", slog.String("file", name))
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return errors.IOError(fmt.Sprintf("failed to seek %s", name), err)
	}

	br := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := br.ReadBytes('\n')
		if stderrors.Is(err, io.EOF) {
			// A trailing partial line is read again once it is complete.
			break
		}
		if err != nil {
			return errors.IOError(fmt.Sprintf("failed to read %s", name), err)
		}
		offset += int64(len(line))

		line = bytes.TrimRight(line, "\r\n")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := f.a.backend.AddDocument(f.h, string(line)); err != nil {
			f.skipped++
			f.out.Warningf("%s: %s", filepath.Base(name), message(err))
			continue
		}
		f.added++
	}
	f.offsets[name] = offset
	return nil
}

func (f *follower) finish(runErr error) error {
	f.out.Statusf("", "Stopped after %d documents, %d rejected", f.added, f.skipped)
	if runErr != nil && !stderrors.Is(runErr, context.Canceled) {
		return errors.IOError("watch failed", runErr)
	}
	return nil
}
