package index

import (
	"fmt"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
)

type IndexErrorCause string

const (
	ErrCauseReadFailure   IndexErrorCause = "read failed"
	ErrCauseParseFailure  IndexErrorCause = "parse failed"
	ErrCauseWriteFailure  IndexErrorCause = "write failed"
	ErrCauseRenameFailure IndexErrorCause = "rename failed"
)

type IndexError struct {
	Message   string
	Retryable bool
	Cause     IndexErrorCause
	Path      string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error: %s", e.Cause)
}

func (e *IndexError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapIndexErrorToMetadataCause is observational only, per the teacher's
// invariant that ErrorCause MUST NOT influence control flow.
func mapIndexErrorToMetadataCause(err *IndexError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseReadFailure, ErrCauseWriteFailure, ErrCauseRenameFailure:
		return metadata.CauseStorageFailure
	case ErrCauseParseFailure:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
