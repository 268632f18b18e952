package domain

import (
	m "precheck.dev/pkg/precheck/internal/model"
	"precheck.dev/pkg/precheck/pkg"
)

// summarize counts the results of a batch without loading them all at once.
func summarize(results pkg.FileSpill[m.FileResult]) (m.Summary, error) {
	summary := m.NewSummary()

	err := results.Range(func(_ uint64, result m.FileResult) error {
		summary.Add(result)
		return nil
	})
	if err != nil {
		return m.NewSummary(), err
	}

	return summary, nil
}
