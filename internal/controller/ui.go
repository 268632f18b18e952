// Package controller provides the presenters for batch results: a plain
// text UI for pipes and logs, and an interactive TUI for terminals.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "precheck.dev/pkg/precheck/internal/model"
)

// StartMode defines what the UI is about to show.
type StartMode int

// Available StartMode values.
const (
	ModeCheck StartMode = iota
	ModeList
	ModeView
)

func (s StartMode) String() string {
	switch s {
	case ModeCheck:
		return "check"
	case ModeList:
		return "list"
	case ModeView:
		return "view"
	default:
		return "unknown"
	}
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode        StartMode
	total       int
	showContent bool
}

// Mode returns the configured mode.
func (c StartConfig) Mode() StartMode { return c.mode }

// Total returns the number of files announced for a check.
func (c StartConfig) Total() int { return c.total }

// ShowContent reports whether pass-through content should be echoed.
func (c StartConfig) ShowContent() bool { return c.showContent }

// WithCheckMode prepares the UI for a check over total files.
func WithCheckMode(total int) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCheck
		c.total = total
	}
}

// WithListMode prepares the UI to list the files a check would cover.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithViewMode prepares the UI to replay saved reports.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithShowContent echoes the content of pass-through files.
func WithShowContent(show bool) StartOption {
	return func(c *StartConfig) {
		c.showContent = show
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI receives the events of a batch. DisplayProgress may be called from
// several goroutines; the other methods are called from one.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayFiles(ctx context.Context, files []m.File) error
	DisplayProgress(ctx context.Context, done, total int, result m.FileResult)
	DisplayFileResult(ctx context.Context, result m.FileResult) error
	DisplaySummary(ctx context.Context, summary m.Summary) error
}

// NewUI picks the TUI for terminals and the simple UI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
