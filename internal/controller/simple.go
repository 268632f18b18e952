package controller

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "precheck.dev/pkg/precheck/internal/model"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	neutralColor = color.New(color.FgCyan)
	faintColor   = color.New(color.Faint)
)

// statusOrder is the row order of the summary table.
var statusOrder = []m.FileStatus{
	m.StatusValid,
	m.StatusInvalid,
	m.StatusPassthrough,
	m.StatusExecuted,
	m.StatusScriptError,
	m.StatusInputError,
}

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait returns immediately; SimpleUI never blocks.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayFiles prints the files a check would cover.
func (s *SimpleUI) DisplayFiles(ctx context.Context, files []m.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderFilesTable(files))

	return nil
}

// DisplayProgress only logs; results are printed in batch order afterwards.
func (s *SimpleUI) DisplayProgress(_ context.Context, done, total int, result m.FileResult) {
	slog.Debug("file checked", "name", result.File.Name, "status", result.Status.String(), "done", done, "total", total)
}

// DisplayFileResult prints one file outcome followed by its diagnostics.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s %s %s\n", statusLabel(result.Status), result.File.Name, faintColor.Sprintf("(%s)", result.Kind))

	for _, line := range detailLines(result, s.config.showContent) {
		s.printf("    %s\n", line)
	}

	return nil
}

// DisplaySummary prints per-status counts as a table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))
	s.printf("Errors: %d | Warnings: %d\n", summary.Errors, summary.Warnings)

	return nil
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func statusLabel(status m.FileStatus) string {
	label := fmt.Sprintf("%-12s", strings.ToUpper(status.String()))

	switch status {
	case m.StatusValid, m.StatusExecuted:
		return okColor.Sprint(label)
	case m.StatusInvalid, m.StatusScriptError, m.StatusInputError:
		return failColor.Sprint(label)
	default:
		return neutralColor.Sprint(label)
	}
}

// detailLines renders what follows the status line of a file, shared by
// the plain and interactive presenters.
func detailLines(result m.FileResult, showContent bool) []string {
	var lines []string

	switch result.Status {
	case m.StatusInputError:
		lines = append(lines, failColor.Sprint(result.InputError))
	case m.StatusPassthrough:
		if showContent && result.Content != "" {
			lines = append(lines, strings.Split(strings.TrimRight(result.Content, "\n"), "\n")...)
		}
	case m.StatusExecuted, m.StatusScriptError:
		lines = append(lines, scriptLines(result.Script)...)
	}

	for _, d := range result.Report.Diagnostics {
		if d.Severity == m.SeverityWarning {
			lines = append(lines, warnColor.Sprint(d.String()))
		} else {
			lines = append(lines, failColor.Sprint(d.String()))
		}
	}

	return lines
}

func scriptLines(script *m.ScriptResult) []string {
	if script == nil {
		return nil
	}

	lines := make([]string, 0, len(script.Console)+1)
	for _, out := range script.Console {
		lines = append(lines, faintColor.Sprint("console: ")+out)
	}

	switch {
	case script.Exception != nil && script.Exception.Line > 0:
		lines = append(lines, failColor.Sprintf("exception at line %d: %s", script.Exception.Line, script.Exception.Message))
	case script.Exception != nil:
		lines = append(lines, failColor.Sprintf("exception: %s", script.Exception.Message))
	case script.Undefined:
		lines = append(lines, faintColor.Sprint("=> undefined"))
	default:
		lines = append(lines, "=> "+script.Value)
	}

	return lines
}

func renderFilesTable(files []m.File) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Kind"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, file := range files {
		table.Append([]string{file.Name, m.KindFromTag(file.KindTag).String()})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), ""})
	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, status := range statusOrder {
		count := summary.ByStatus[status]
		if count == 0 {
			continue
		}

		table.Append([]string{status.String(), fmt.Sprintf("%d", count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", summary.Total)})
	table.Render()

	return tableBuffer.String()
}
