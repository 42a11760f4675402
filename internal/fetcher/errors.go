package fetcher

import (
	"fmt"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout        FetchErrorCause = "timeout"
	ErrCauseNetworkFailure FetchErrorCause = "network issues"
	ErrCauseTransientHTTP  FetchErrorCause = "non-2xx transient response"
)

// FetchError is always recoverable at the page level per §7: "Retries
// are not attempted at this layer" — the orchestrator logs it, skips
// the page, and continues. It never aborts the run.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
	Status    int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseTransientHTTP:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
