package bundle

import (
	"fmt"

	"github.com/llmsforge/ingest/pkg/failure"
)

// BundleError is the one run-level failure a bundle generation can
// raise: the run was cancelled before every page had been rendered
// (Generate checks the context before each page).
// A single page's re-extraction failing is never fatal, it just moves
// that page to the excluded tail section.
type BundleError struct {
	Message string
}

func (e *BundleError) Error() string {
	return fmt.Sprintf("bundle error: %s", e.Message)
}

func (e *BundleError) Severity() failure.Severity {
	return failure.SeverityFatal
}
