package extractor

import (
	"fmt"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNoContent      ExtractionErrorCause = "no content"
	ErrCauseUnparseableDOM ExtractionErrorCause = "unparseable dom"
)

// ExtractionError is always page-scoped: the orchestrator logs it and
// skips the page, never aborts the run.
type ExtractionError struct {
	Message string
	Cause   ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Cause)
}

func (e *ExtractionError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNoContent, ErrCauseUnparseableDOM:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
