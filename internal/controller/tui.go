package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	m "precheck.dev/pkg/precheck/internal/model"
)

const (
	recentResults = 8
	reservedLines = 10
	statusWidth   = 12
)

// TUI implements UI using Bubble Tea: a live progress view while a check
// runs, then a scrollable report once the results are in.
type TUI struct {
	output io.Writer
	config StartConfig

	mu      sync.Mutex
	events  chan progressEvent
	done    chan struct{}
	lines   []string
	summary []string
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start resets the report and, for a non-empty check, starts the live
// progress program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.config = newStartConfig(options)
	t.lines = nil
	t.summary = nil

	if t.config.mode != ModeCheck || t.config.total == 0 {
		return nil
	}

	// One event per file: sends never block.
	t.events = make(chan progressEvent, t.config.total)
	t.done = make(chan struct{})

	program := tea.NewProgram(
		newProgressModel(t.config.total, t.events),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	go func(done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Warn("progress view stopped", "error", err)
		}
	}(t.done)

	return nil
}

// Close stops the progress view if it is still running.
func (t *TUI) Close(_ context.Context) {
	t.stopProgress()
}

// Wait shows the collected report, paging it when it does not fit the
// terminal, and returns once the user quits.
func (t *TUI) Wait(ctx context.Context) {
	t.stopProgress()

	t.mu.Lock()
	model := newReportModel(t.config.mode, t.lines, t.summary)
	t.mu.Unlock()

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	if !model.needsPagination() {
		_, _ = fmt.Fprint(t.output, model.View())
		return
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		slog.Warn("report view stopped", "error", err)
		_, _ = fmt.Fprint(t.output, model.View())
	}
}

// DisplayFiles adds one line per file to the report.
func (t *TUI) DisplayFiles(ctx context.Context, files []m.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, file := range files {
		kind := m.KindFromTag(file.KindTag)
		t.lines = append(t.lines, fmt.Sprintf("  %s %s", styleForKind(kind).Render(fmt.Sprintf("%-*s", statusWidth, kind)), file.Name))
	}

	t.summary = []string{fmt.Sprintf("  Total: %d file(s)", len(files))}

	return nil
}

// DisplayProgress feeds the live progress view. Safe for concurrent use.
func (t *TUI) DisplayProgress(_ context.Context, done, total int, result m.FileResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.events == nil {
		return
	}

	select {
	case t.events <- progressEvent{name: result.File.Name, status: result.Status, done: done, total: total}:
	default:
		slog.Debug("progress event dropped", "name", result.File.Name)
	}
}

// DisplayFileResult adds the outcome of one file to the report.
func (t *TUI) DisplayFileResult(ctx context.Context, result m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.stopProgress()

	t.mu.Lock()
	defer t.mu.Unlock()

	label := styleForStatus(result.Status).Render(fmt.Sprintf("%-*s", statusWidth, result.Status))
	t.lines = append(t.lines, fmt.Sprintf("  %s %s (%s)", label, result.File.Name, result.Kind))

	for _, line := range detailLines(result, t.config.showContent) {
		t.lines = append(t.lines, "      "+line)
	}

	return nil
}

// DisplaySummary sets the summary shown under the report.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make([]string, 0, len(statusOrder))
	for _, status := range statusOrder {
		if n := summary.ByStatus[status]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s: %d", status, n))
		}
	}

	t.summary = []string{
		fmt.Sprintf("  Total: %d | %s", summary.Total, strings.Join(counts, " | ")),
		fmt.Sprintf("  Errors: %d | Warnings: %d", summary.Errors, summary.Warnings),
	}

	return nil
}

func (t *TUI) stopProgress() {
	t.mu.Lock()

	if t.events != nil {
		close(t.events)
		t.events = nil
	}

	done := t.done
	t.done = nil
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

func styleForStatus(status m.FileStatus) lipgloss.Style {
	switch status {
	case m.StatusValid, m.StatusExecuted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case m.StatusInvalid, m.StatusScriptError, m.StatusInputError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func styleForKind(kind m.LanguageKind) lipgloss.Style {
	if kind == m.PassthroughText {
		return lipgloss.NewStyle().Faint(true)
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}

	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}

	// The tail counts towards width.
	return runewidth.Truncate(value, width, "...")
}

// progressEvent is emitted once per checked file.
type progressEvent struct {
	name   string
	status m.FileStatus
	done   int
	total  int
}

type progressMsg progressEvent

type progressDoneMsg struct{}

// progressModel renders a spinner, the most recent results and a bar.
type progressModel struct {
	events   <-chan progressEvent
	spinner  spinner.Model
	prog     progress.Model
	total    int
	done     int
	failed   int
	recent   []progressEvent
	width    int
	finished bool
}

func newProgressModel(total int, events <-chan progressEvent) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		width:   80,
	}
}

func (pm *progressModel) Init() tea.Cmd {
	return tea.Batch(pm.spinner.Tick, pm.listenForEvent())
}

func (pm *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		cmd := pm.apply(progressEvent(msg))
		return pm, tea.Batch(cmd, pm.listenForEvent())
	case progressDoneMsg:
		pm.finished = true
		return pm, tea.Quit
	case spinner.TickMsg:
		if pm.finished {
			return pm, nil
		}

		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			pm.width = msg.Width
			pm.prog.Width = msg.Width - 4
		}

		return pm, nil
	case progress.FrameMsg:
		updated, cmd := pm.prog.Update(msg)
		if prog, ok := updated.(progress.Model); ok {
			pm.prog = prog
		}

		return pm, cmd
	}

	return pm, nil
}

func (pm *progressModel) apply(ev progressEvent) tea.Cmd {
	pm.done = max(pm.done+1, ev.done)
	if ev.total > 0 {
		pm.total = ev.total
	}

	if ev.status.Failed() {
		pm.failed++
	}

	pm.recent = append(pm.recent, ev)
	if len(pm.recent) > recentResults {
		pm.recent = pm.recent[len(pm.recent)-recentResults:]
	}

	if pm.total == 0 {
		return nil
	}

	return pm.prog.SetPercent(float64(pm.done) / float64(pm.total))
}

func (pm *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-pm.events
		if !ok {
			return progressDoneMsg{}
		}

		return progressMsg(ev)
	}
}

func (pm *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

	header := fmt.Sprintf("checking %d/%d file(s), %d failed", pm.done, pm.total, pm.failed)
	if pm.finished {
		header = "done: " + header
	} else {
		header = pm.spinner.View() + " " + header
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := pm.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, ev := range pm.recent {
		status := styleForStatus(ev.status).Render(fmt.Sprintf("%*s", statusWidth, ev.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(ev.name, nameWidth))
	}

	b.WriteString("\n")

	if pm.finished {
		b.WriteString(pm.prog.ViewAs(1.0))
	} else {
		b.WriteString(pm.prog.View())
	}

	b.WriteString("\n")

	return b.String()
}

// reportModel is a scrollable list of report lines with a fixed summary.
type reportModel struct {
	mode    StartMode
	lines   []string
	summary []string
	height  int
	width   int
	offset  int
}

func newReportModel(mode StartMode, lines, summary []string) reportModel {
	return reportModel{
		mode:    mode,
		lines:   lines,
		summary: summary,
	}
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.height = msg.Height
		rm.width = msg.Width

		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	}

	return rm, nil
}

func (rm reportModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return rm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		return rm, tea.Quit
	case "down", "j":
		rm.offset++
	case "up", "k":
		rm.offset--
	case "g", "home":
		rm.offset = 0
	case "G", "end":
		rm.offset = rm.maxOffset()
	case "d", "pgdown":
		rm.offset += rm.linesPerPage()
	case "u", "pgup":
		rm.offset -= rm.linesPerPage()
	}

	rm.offset = max(0, min(rm.offset, rm.maxOffset()))

	return rm, nil
}

func (rm reportModel) linesPerPage() int {
	if rm.height == 0 {
		return len(rm.lines)
	}

	available := rm.height - reservedLines - len(rm.summary)
	if available < 1 {
		return 1
	}

	return available
}

func (rm reportModel) maxOffset() int {
	return max(0, len(rm.lines)-rm.linesPerPage())
}

func (rm reportModel) needsPagination() bool {
	return rm.height > 0 && len(rm.lines) > rm.linesPerPage()
}

func (rm reportModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true)
	b.WriteString(titleStyle.Render("precheck " + rm.mode.String()))
	b.WriteString("\n\n")

	if len(rm.lines) == 0 {
		b.WriteString("  No files\n")
		return b.String()
	}

	visible := rm.lines
	if rm.needsPagination() {
		end := min(rm.offset+rm.linesPerPage(), len(rm.lines))
		visible = rm.lines[rm.offset:end]
	}

	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(rm.summary) > 0 {
		b.WriteString("\n")

		for _, line := range rm.summary {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if rm.needsPagination() {
		end := min(rm.offset+rm.linesPerPage(), len(rm.lines))
		fmt.Fprintf(&b, "\n  Lines %d-%d of %d\n", rm.offset+1, end, len(rm.lines))
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}

	return b.String()
}
