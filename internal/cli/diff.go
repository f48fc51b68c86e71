package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/jsonstudio/internal/core/diff"
	"github.com/agenthands/jsonstudio/internal/worker"
)

const (
	watchWorkers  = 2
	watchQueue    = 8
	watchDebounce = 100 * time.Millisecond
)

func newDiffCmd() *cobra.Command {
	var (
		asJSON bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "diff LEFT RIGHT",
		Short: "Compare two JSON documents",
		Long: `Compare two JSON documents structurally. Array items are matched by their
"id" or "_id" field, so reordered records show up as moves rather than
edits. An empty file counts as {}.

With --watch the diff is recomputed whenever either file changes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &diffPrinter{w: cmd.OutOrStdout(), styles: newStyles(cmd.OutOrStdout()), json: asJSON}
			if watch {
				if args[0] == stdinName || args[1] == stdinName {
					return errors.New("--watch needs two files, not stdin")
				}
				return runWatch(cmd.Context(), args[0], args[1], p, commandLogger(cmd))
			}

			left, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			right, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			res := worker.Compute(diff.New(), worker.Request{LeftJSON: left, RightJSON: right})
			if res.Error != "" {
				return fmt.Errorf("failed to diff: %s", res.Error)
			}
			return p.print(res)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "recompute when either file changes")
	return cmd
}

type diffPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
	json   bool
	// watching prefixes each result with its generation and prints JSON
	// one document per line.
	watching bool
}

func (p *diffPrinter) print(res worker.Response) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		enc := json.NewEncoder(p.w)
		if !p.watching {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(res)
	}

	if p.watching {
		_, _ = fmt.Fprintln(p.w, p.styles.title.Render(fmt.Sprintf("diff #%d", res.Seq)))
		if res.Error != "" {
			_, _ = fmt.Fprintln(p.w, p.styles.removed.Render("error: "+res.Error))
			return nil
		}
	}
	for _, line := range res.ChangeSummary {
		_, _ = fmt.Fprintln(p.w, p.styles.summaryLine(line))
	}
	return nil
}

// diffWatcher recomputes a diff through the worker pool and prints only the
// newest generation.
type diffWatcher struct {
	left, right string
	pool        *worker.Pool
	tracker     worker.Tracker
	printer     *diffPrinter
	logger      *slog.Logger
}

func runWatch(ctx context.Context, left, right string, p *diffPrinter, logger *slog.Logger) error {
	p.watching = true
	w := &diffWatcher{
		left:    filepath.Clean(left),
		right:   filepath.Clean(right),
		pool:    worker.NewPool(diff.New(), watchWorkers, watchQueue, logger),
		printer: p,
		logger:  logger,
	}

	eg, egctx := errgroup.WithContext(ctx)
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()

	eg.Go(func() error {
		return w.pool.Run(poolCtx)
	})
	eg.Go(func() error {
		defer stopPool()
		return w.watch(egctx)
	})
	return eg.Wait()
}

func (w *diffWatcher) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]bool, 2)
	for _, name := range []string{w.left, w.right} {
		abs, err := filepath.Abs(name)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		targets[abs] = true
	}
	// Editors often replace files by rename, so watch the directories.
	for name := range targets {
		if err := watcher.Add(filepath.Dir(name)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(name), err)
		}
	}

	w.refresh(ctx)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				w.logger.Debug("file changed, recomputing diff", "file", event.Name)
				w.refresh(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *diffWatcher) refresh(ctx context.Context) {
	left, err := os.ReadFile(w.left)
	if err != nil {
		w.logger.Warn("failed to read file", "file", w.left, "error", err)
		return
	}
	right, err := os.ReadFile(w.right)
	if err != nil {
		w.logger.Warn("failed to read file", "file", w.right, "error", err)
		return
	}

	req := worker.Request{Seq: w.tracker.Next(), LeftJSON: string(left), RightJSON: string(right)}
	reply, err := w.pool.Submit(ctx, req)
	if err != nil {
		w.logger.Debug("diff not submitted", "seq", req.Seq, "error", err)
		return
	}

	go func() {
		res := <-reply
		if !w.tracker.IsCurrent(res.Seq) {
			w.logger.Debug("dropping stale diff", "seq", res.Seq)
			return
		}
		if err := w.printer.print(res); err != nil {
			w.logger.Error("failed to print diff", "error", err)
		}
	}()
}
