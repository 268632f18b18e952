package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"precheck.dev/pkg/precheck/internal/adapter"
	"precheck.dev/pkg/precheck/internal/controller"
	m "precheck.dev/pkg/precheck/internal/model"
	"precheck.dev/pkg/precheck/pkg"
)

// ErrInvalidFiles is returned by Check when at least one file failed.
var ErrInvalidFiles = errors.New("invalid files")

// ListArgs selects the files of a batch.
type ListArgs struct {
	// Names are files or directories, resolved under the source root.
	// Empty means the root itself.
	Names []string
	// KindTag forces the kind of explicit names and filters walked files.
	KindTag   string
	Exclude   []string
	Recursive bool
}

// CheckArgs contains the arguments for checking a batch.
type CheckArgs struct {
	ListArgs
	Threads     int
	Reports     m.Path
	ShowContent bool
	// SpillDir holds the temporary result spill; empty uses the default.
	SpillDir string
}

// ViewArgs contains the arguments for replaying saved reports.
type ViewArgs struct {
	Reports     m.Path
	ShowContent bool
	SpillDir    string
}

// Workflow drives the batch commands.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ScriptEngine
	adapter.ReportStore
	controller.UI

	scriptMu sync.Mutex
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	scriptEngine adapter.ScriptEngine,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ScriptEngine:    scriptEngine,
		ReportStore:     reportStore,
		UI:              ui,
	}
}

// loadedFile is a file of the batch after its content was read.
type loadedFile struct {
	file    m.File
	content string
	err     error
}

// List displays the files a check with the same arguments would cover.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	files, err := w.collectFiles(args)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}

	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return err
	}

	defer w.Close(ctx)

	if err := w.DisplayFiles(ctx, files); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Check loads every file, validates them in parallel, presents the
// results in batch order and saves them as reports.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	files, err := w.collectFiles(args.ListArgs)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}

	slog.Info("checking files", "count", len(files), "threads", args.Threads)

	if err := w.Start(ctx, controller.WithCheckMode(len(files)), controller.WithShowContent(args.ShowContent)); err != nil {
		return err
	}

	defer w.Close(ctx)

	spill, err := pkg.NewFileSpill[m.FileResult](args.SpillDir)
	if err != nil {
		return fmt.Errorf("spill results: %w", err)
	}

	defer removeSpill(spill)

	if err := w.checkFiles(ctx, files, args.Threads, spill); err != nil {
		return err
	}

	summary, err := w.present(ctx, spill)
	if err != nil {
		return err
	}

	if args.Reports != "" {
		if err := w.SaveReports(args.Reports, spill); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}

	w.Wait(ctx)

	if failed := summary.Failed(); failed > 0 {
		slog.Info("check failed", "failed", failed, "total", summary.Total)
		return fmt.Errorf("%w: %d of %d", ErrInvalidFiles, failed, summary.Total)
	}

	return nil
}

// View replays the reports saved by a previous check.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	spill, err := pkg.NewFileSpill[m.FileResult](args.SpillDir)
	if err != nil {
		return fmt.Errorf("spill results: %w", err)
	}

	defer removeSpill(spill)

	if err := w.LoadReports(args.Reports, spill); err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode(), controller.WithShowContent(args.ShowContent)); err != nil {
		return err
	}

	defer w.Close(ctx)

	if _, err := w.present(ctx, spill); err != nil {
		return err
	}

	w.Wait(ctx)

	return nil
}

// collectFiles expands names into the files of the batch. Directories are
// walked for files with a known kind tag; other names are kept as given so
// a missing file surfaces as an input error of its own.
func (w *workflow) collectFiles(args ListArgs) ([]m.File, error) {
	excludes, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	names := args.Names
	if len(names) == 0 {
		names = []string{"."}
	}

	var files []m.File

	for _, name := range names {
		info, statErr := w.FileInfo(w.Resolve(name))
		if statErr != nil || !info.IsDir() {
			tag := args.KindTag
			if tag == "" {
				tag = strings.TrimPrefix(filepath.Ext(name), ".")
			}

			files = append(files, m.File{Name: name, KindTag: tag})

			continue
		}

		walked, err := w.walkDir(name, args)
		if err != nil {
			return nil, err
		}

		files = append(files, walked...)
	}

	kept := files[:0]

	for _, file := range files {
		if matchesAny(excludes, file.Name) {
			slog.Debug("excluded file", "name", file.Name)
			continue
		}

		kept = append(kept, file)
	}

	return kept, nil
}

func (w *workflow) walkDir(name string, args ListArgs) ([]m.File, error) {
	var files []m.File

	root := w.Resolve(name)
	filter := m.KindFromTag(args.KindTag)

	err := w.Walk(root, args.Recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == string(root) {
				return err
			}

			slog.Warn("skipping unreadable path", "path", path, "error", err)

			return nil
		}

		if info.IsDir() {
			return nil
		}

		tag := strings.TrimPrefix(filepath.Ext(path), ".")
		if !m.KnownTag(tag) {
			return nil
		}

		if args.KindTag != "" && m.KindFromTag(tag) != filter {
			return nil
		}

		rel, err := w.RelPath(root, m.Path(path))
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}

		files = append(files, m.File{Name: filepath.Join(name, string(rel)), KindTag: tag})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", name, err)
	}

	return files, nil
}

// checkFiles streams the batch into spill. Files are loaded one at a time
// in batch order and evaluated by at most threads workers; a file is only
// loaded once a slot of the reorder window is free, so contents and
// results are held for in-flight files only.
func (w *workflow) checkFiles(ctx context.Context, files []m.File, threads int, spill pkg.FileSpill[m.FileResult]) error {
	workers := max(threads, 1)
	sink := newOrderedSink(spill, workers*reorderWindowPerWorker)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var (
		progressMu sync.Mutex
		completed  int
		feedErr    error
	)

	for i, file := range files {
		if feedErr = sink.acquire(groupCtx); feedErr != nil {
			break
		}

		var input loadedFile

		input, feedErr = w.loadFile(groupCtx, file)
		if feedErr != nil {
			break
		}

		i := i
		group.Go(func() error {
			result, err := w.evaluate(groupCtx, input)
			if err != nil {
				return err
			}

			progressMu.Lock()
			completed++
			w.DisplayProgress(groupCtx, completed, len(files), result)
			progressMu.Unlock()

			return sink.commit(i, result)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("check files: %w", err)
	}

	if feedErr != nil {
		return fmt.Errorf("check files: %w", feedErr)
	}

	return nil
}

// reorderWindowPerWorker bounds how far loading may run ahead of the
// oldest file whose result is not yet committed.
const reorderWindowPerWorker = 4

// orderedSink commits results to a spill in batch order, whatever order
// the workers finish in.
type orderedSink struct {
	mu      sync.Mutex
	next    int
	pending map[int]m.FileResult
	spill   pkg.FileSpill[m.FileResult]
	window  chan struct{}
}

func newOrderedSink(spill pkg.FileSpill[m.FileResult], size int) *orderedSink {
	return &orderedSink{
		pending: make(map[int]m.FileResult),
		spill:   spill,
		window:  make(chan struct{}, max(size, 1)),
	}
}

// acquire blocks until the window has room for one more file.
func (s *orderedSink) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case s.window <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// commit records the result of file index and flushes every result that
// is now contiguous with the committed prefix.
func (s *orderedSink) commit(index int, result m.FileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[index] = result

	for {
		ready, ok := s.pending[s.next]
		if !ok {
			return nil
		}

		if err := s.spill.Append(ready); err != nil {
			return fmt.Errorf("spill result %d: %w", s.next, err)
		}

		delete(s.pending, s.next)
		s.next++
		<-s.window
	}
}

// loadFile reads one file. An input error is kept with the file; any other
// error aborts the batch.
func (w *workflow) loadFile(ctx context.Context, file m.File) (loadedFile, error) {
	loaded, content, err := w.Load(ctx, file.Name, file.KindTag)
	if err != nil {
		var inputErr *adapter.InputError
		if !errors.As(err, &inputErr) {
			return loadedFile{}, fmt.Errorf("load %s: %w", file.Name, err)
		}

		slog.Warn("failed to load file", "name", file.Name, "error", err)
	}

	return loadedFile{file: loaded, content: content, err: err}, nil
}

func (w *workflow) evaluate(ctx context.Context, input loadedFile) (m.FileResult, error) {
	kind := m.KindFromTag(input.file.KindTag)
	result := m.FileResult{File: input.file, Kind: kind, Report: m.NewReport(nil)}

	if input.err != nil {
		result.Status = m.StatusInputError
		result.InputError = input.err.Error()

		return result, nil
	}

	switch {
	case kind == m.JavaScript:
		script, err := w.execute(ctx, input)
		if err != nil {
			return result, fmt.Errorf("execute %s: %w", input.file.Name, err)
		}

		result.Script = &script
		result.Status = m.StatusExecuted

		if script.Exception != nil {
			result.Status = m.StatusScriptError
		}
	case !HasRuleSet(kind):
		result.Status = m.StatusPassthrough
		result.Content = input.content
	default:
		result.Report = Validate(input.content, kind)
		result.Status = m.StatusValid

		if !result.Report.Valid {
			result.Status = m.StatusInvalid
		}
	}

	slog.Debug("file evaluated", "name", input.file.Name, "kind", kind.String(), "status", result.Status.String())

	return result, nil
}

// execute runs one script at a time.
func (w *workflow) execute(ctx context.Context, input loadedFile) (m.ScriptResult, error) {
	w.scriptMu.Lock()
	defer w.scriptMu.Unlock()

	return w.Execute(ctx, input.file.Name, input.content)
}

// present hands every result to the UI in batch order, then the summary.
func (w *workflow) present(ctx context.Context, results pkg.FileSpill[m.FileResult]) (m.Summary, error) {
	summary, err := summarize(results)
	if err != nil {
		return summary, fmt.Errorf("summarize: %w", err)
	}

	if err := results.Range(func(_ uint64, result m.FileResult) error {
		return w.DisplayFileResult(ctx, result)
	}); err != nil {
		return summary, fmt.Errorf("display: %w", err)
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return summary, fmt.Errorf("display: %w", err)
	}

	return summary, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func matchesAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}

func removeSpill(spill pkg.FileSpill[m.FileResult]) {
	if err := spill.Remove(); err != nil {
		slog.Warn("failed to remove spill", "path", spill.Path(), "error", err)
	}
}
