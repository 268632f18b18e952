package adapter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "precheck.dev/pkg/precheck/internal/model"
	"precheck.dev/pkg/precheck/pkg"
)

// ReportsFileName is the file written inside the reports directory.
const ReportsFileName = "reports.yaml"

// The file is a yaml stream: a header document, then one document per file.
const reportsFormatVersion = 2

// ErrNoReports is returned by LoadReports when the directory holds no reports.
var ErrNoReports = errors.New("no reports found")

// ReportStore persists the results of a batch so they can be viewed later.
type ReportStore interface {
	SaveReports(dir m.Path, results pkg.FileSpill[m.FileResult]) error
	// LoadReports appends the saved results to into, in batch order.
	LoadReports(dir m.Path, into pkg.FileSpill[m.FileResult]) error
}

// YAMLReportStore keeps reports as a stream of yaml documents so neither
// saving nor loading holds the whole batch in memory.
type YAMLReportStore struct{}

// NewReportStore returns the yaml-backed report store.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

type reportsHeader struct {
	Version int `yaml:"version"`
	Files   int `yaml:"files"`
}

type fileDocument struct {
	Name        string               `yaml:"name"`
	Path        string               `yaml:"path,omitempty"`
	KindTag     string               `yaml:"kind_tag,omitempty"`
	Hash        string               `yaml:"hash,omitempty"`
	Kind        string               `yaml:"kind"`
	Status      string               `yaml:"status"`
	Valid       bool                 `yaml:"valid"`
	InputError  string               `yaml:"input_error,omitempty"`
	Script      *scriptDocument      `yaml:"script,omitempty"`
	Diagnostics []diagnosticDocument `yaml:"diagnostics,omitempty"`
}

type diagnosticDocument struct {
	Line     int    `yaml:"line"`
	Kind     string `yaml:"kind"`
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

type scriptDocument struct {
	Value         string   `yaml:"value,omitempty"`
	Undefined     bool     `yaml:"undefined,omitempty"`
	Console       []string `yaml:"console,omitempty"`
	Exception     string   `yaml:"exception,omitempty"`
	ExceptionLine int      `yaml:"exception_line,omitempty"`
}

// SaveReports writes every result of the spill to dir/reports.yaml. The
// file is replaced only once it was written completely.
func (s *YAMLReportStore) SaveReports(dir m.Path, results pkg.FileSpill[m.FileResult]) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	tmp, err := os.CreateTemp(string(dir), "reports-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("create reports: %w", err)
	}

	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove temporary reports", "path", tmp.Name(), "error", err)
		}
	}()

	if err := encodeReports(tmp, results); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	path := filepath.Join(string(dir), ReportsFileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		slog.Error("failed to write reports", "path", path, "error", err)
		return fmt.Errorf("write reports: %w", err)
	}

	slog.Info("saved reports", "path", path, "files", results.Len())

	return nil
}

func encodeReports(w io.Writer, results pkg.FileSpill[m.FileResult]) error {
	encoder := yaml.NewEncoder(w)

	if err := encoder.Encode(reportsHeader{Version: reportsFormatVersion, Files: int(results.Len())}); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	if err := results.Range(func(i uint64, result m.FileResult) error {
		if err := encoder.Encode(toFileDocument(result)); err != nil {
			return fmt.Errorf("encode report %d: %w", i, err)
		}

		return nil
	}); err != nil {
		return err
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	return nil
}

// LoadReports reads the results saved by SaveReports one document at a time.
func (s *YAMLReportStore) LoadReports(dir m.Path, into pkg.FileSpill[m.FileResult]) error {
	path := filepath.Join(string(dir), ReportsFileName)

	// #nosec G304 - the reports directory is chosen by the user
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w in %s", ErrNoReports, dir)
		}

		return fmt.Errorf("read reports: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)

	var header reportsHeader
	if err := decoder.Decode(&header); err != nil {
		return fmt.Errorf("decode reports %s: %w", path, err)
	}

	if header.Version != reportsFormatVersion {
		return fmt.Errorf("unsupported reports version %d in %s", header.Version, path)
	}

	loaded := 0

	for {
		var doc fileDocument

		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("decode report %d in %s: %w", loaded, path, err)
		}

		if err := into.Append(doc.toFileResult()); err != nil {
			return fmt.Errorf("spill report %d: %w", loaded, err)
		}

		loaded++
	}

	if loaded != header.Files {
		return fmt.Errorf("truncated reports in %s: %d of %d files", path, loaded, header.Files)
	}

	slog.Debug("loaded reports", "path", path, "files", loaded)

	return nil
}

func toFileDocument(result m.FileResult) fileDocument {
	doc := fileDocument{
		Name:       result.File.Name,
		Path:       string(result.File.Path),
		KindTag:    result.File.KindTag,
		Hash:       result.File.Hash,
		Kind:       result.Kind.String(),
		Status:     result.Status.String(),
		Valid:      result.Report.Valid,
		InputError: result.InputError,
	}

	for _, d := range result.Report.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, diagnosticDocument{
			Line:     d.Line,
			Kind:     string(d.Kind),
			Severity: d.Severity.String(),
			Message:  d.Message,
		})
	}

	if script := result.Script; script != nil {
		doc.Script = &scriptDocument{
			Value:     script.Value,
			Undefined: script.Undefined,
			Console:   script.Console,
		}

		if script.Exception != nil {
			doc.Script.Exception = script.Exception.Message
			doc.Script.ExceptionLine = script.Exception.Line
		}
	}

	return doc
}

func (doc fileDocument) toFileResult() m.FileResult {
	result := m.FileResult{
		File: m.File{
			Name:    doc.Name,
			Path:    m.Path(doc.Path),
			KindTag: doc.KindTag,
			Hash:    doc.Hash,
		},
		Kind:       m.KindFromName(doc.Kind),
		Status:     m.StatusFromName(doc.Status),
		InputError: doc.InputError,
	}

	diags := make([]m.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		diags = append(diags, m.Diagnostic{
			Line:     d.Line,
			Kind:     m.ErrorKind(d.Kind),
			Severity: m.SeverityFromName(d.Severity),
			Message:  d.Message,
		})
	}

	result.Report = m.NewReport(diags)

	if doc.Script != nil {
		result.Script = &m.ScriptResult{
			Value:     doc.Script.Value,
			Undefined: doc.Script.Undefined,
			Console:   doc.Script.Console,
		}

		if doc.Script.Exception != "" {
			result.Script.Exception = &m.ScriptException{
				Message: doc.Script.Exception,
				Line:    doc.Script.ExceptionLine,
			}
		}
	}

	return result
}
