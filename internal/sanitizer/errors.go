package sanitizer

import (
	"fmt"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
)

type SanitizationErrorCause string

const (
	ErrCauseEmptyInput SanitizationErrorCause = "empty input"
)

// SanitizationError is always page-scoped: a page that fails to
// sanitize is skipped by the orchestrator, never treated as fatal.
type SanitizationError struct {
	Message string
	Cause   SanitizationErrorCause
}

func (e *SanitizationError) Error() string {
	return fmt.Sprintf("sanitization error: %s", e.Cause)
}

func (e *SanitizationError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapSanitizationErrorToMetadataCause maps sanitizer-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapSanitizationErrorToMetadataCause(err *SanitizationError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseEmptyInput:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
