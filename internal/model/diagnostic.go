package model

import "fmt"

// FileLevel is the line number used for diagnostics not tied to a line.
const FileLevel = -1

// Severity tells whether a diagnostic fails the report.
type Severity int

const (
	// SeverityError fails the report.
	SeverityError Severity = iota
	// SeverityWarning is informational only.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// SeverityFromName is the inverse of Severity.String. Anything but
// "warning" is an error.
func SeverityFromName(name string) Severity {
	if name == SeverityWarning.String() {
		return SeverityWarning
	}

	return SeverityError
}

// ErrorKind classifies a diagnostic.
type ErrorKind string

const (
	UnbalancedDelimiter        ErrorKind = "UnbalancedDelimiter"
	UnterminatedLiteral        ErrorKind = "UnterminatedLiteral"
	UnexpectedClosingBlock     ErrorKind = "UnexpectedClosingBlock"
	UnclosedBlock              ErrorKind = "UnclosedBlock"
	InvalidIndentation         ErrorKind = "InvalidIndentation"
	MissingBlockColon          ErrorKind = "MissingBlockColon"
	MalformedTag               ErrorKind = "MalformedTag"
	InvalidIdentifier          ErrorKind = "InvalidIdentifier"
	MissingStatementTerminator ErrorKind = "MissingStatementTerminator"
	MalformedInputStructure    ErrorKind = "MalformedInputStructure"
	// StyleWarning marks stylistic oddities reported with warning severity.
	StyleWarning ErrorKind = "StyleWarning"
)

// Diagnostic is one located, classified complaint about the input text.
type Diagnostic struct {
	Line     int
	Kind     ErrorKind
	Message  string
	Severity Severity
}

// NewError creates an error diagnostic.
func NewError(line int, kind ErrorKind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Line:     line,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

// NewWarning creates a warning diagnostic.
func NewWarning(line int, kind ErrorKind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Line:     line,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	}
}

// IsFileLevel reports whether the diagnostic is not tied to a line.
func (d Diagnostic) IsFileLevel() bool {
	return d.Line == FileLevel
}

func (d Diagnostic) String() string {
	if d.IsFileLevel() {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Kind, d.Message)
	}

	return fmt.Sprintf("line %d: %s %s: %s", d.Line, d.Severity, d.Kind, d.Message)
}
