package model

import "sort"

// ValidationReport is the outcome of validating one piece of content.
// Valid is true iff no diagnostic has error severity.
type ValidationReport struct {
	Valid       bool
	Diagnostics []Diagnostic
}

// NewReport builds a report from diagnostics, ordering them by line.
// File-level diagnostics come first; emission order is kept within a line.
func NewReport(diagnostics []Diagnostic) ValidationReport {
	ordered := make([]Diagnostic, len(diagnostics))
	copy(ordered, diagnostics)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Line < ordered[j].Line
	})

	valid := true

	for _, d := range ordered {
		if d.Severity == SeverityError {
			valid = false
			break
		}
	}

	return ValidationReport{Valid: valid, Diagnostics: ordered}
}

// Errors returns the number of error diagnostics.
func (r ValidationReport) Errors() int {
	return r.count(SeverityError)
}

// Warnings returns the number of warning diagnostics.
func (r ValidationReport) Warnings() int {
	return r.count(SeverityWarning)
}

// OfKind returns the diagnostics of the given kind, in report order.
func (r ValidationReport) OfKind(kind ErrorKind) []Diagnostic {
	var out []Diagnostic

	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}

	return out
}

func (r ValidationReport) count(severity Severity) int {
	n := 0

	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			n++
		}
	}

	return n
}

// FileStatus summarizes what happened to one file of a batch.
type FileStatus int

const (
	// StatusValid means the heuristics found no errors.
	StatusValid FileStatus = iota
	// StatusInvalid means at least one error diagnostic was reported.
	StatusInvalid
	// StatusPassthrough means no checks are defined for the kind.
	StatusPassthrough
	// StatusExecuted means the content went to the script engine without an exception.
	StatusExecuted
	// StatusScriptError means the script engine reported an exception.
	StatusScriptError
	// StatusInputError means the content could not be loaded.
	StatusInputError
)

func (s FileStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPassthrough:
		return "passthrough"
	case StatusExecuted:
		return "executed"
	case StatusScriptError:
		return "script-error"
	case StatusInputError:
		return "input-error"
	default:
		return "unknown"
	}
}

// StatusFromName is the inverse of FileStatus.String. Unknown names map to
// StatusInputError so a damaged report never reads as a success.
func StatusFromName(name string) FileStatus {
	for status := StatusValid; status <= StatusInputError; status++ {
		if status.String() == name {
			return status
		}
	}

	return StatusInputError
}

// Failed reports whether the status should fail a batch.
func (s FileStatus) Failed() bool {
	return s == StatusInvalid || s == StatusScriptError || s == StatusInputError
}

// FileResult associates a report (or a script outcome, or a load failure)
// with the file it came from.
type FileResult struct {
	File    File
	Kind    LanguageKind
	Status  FileStatus
	Report  ValidationReport
	Script  *ScriptResult
	Content string
	// InputError holds the load failure message; empty when the file loaded.
	InputError string
}

// Summary aggregates the outcome of a batch.
type Summary struct {
	Total    int
	ByStatus map[FileStatus]int
	Errors   int
	Warnings int
}

// NewSummary returns an empty summary.
func NewSummary() Summary {
	return Summary{ByStatus: make(map[FileStatus]int)}
}

// Add accounts for one file result.
func (s *Summary) Add(result FileResult) {
	if s.ByStatus == nil {
		s.ByStatus = make(map[FileStatus]int)
	}

	s.Total++
	s.ByStatus[result.Status]++
	s.Errors += result.Report.Errors()
	s.Warnings += result.Report.Warnings()
}

// Failed returns the number of files whose status fails the batch.
func (s Summary) Failed() int {
	n := 0

	for status, count := range s.ByStatus {
		if status.Failed() {
			n += count
		}
	}

	return n
}
