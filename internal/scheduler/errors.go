package scheduler

import (
	"fmt"

	"github.com/llmsforge/ingest/pkg/failure"
)

// OrchestratorError wraps a run-level failure (bad config, fingerprint
// computation, index write) as the one SeverityFatal error the CLI
// surfaces as exit code 1. Every other failure in the crawl loop is
// page-scoped and already SeverityRecoverable by construction.
type OrchestratorError struct {
	Message string
}

func (e *OrchestratorError) Error() string {
	return fmt.Sprintf("scheduler error: %s", e.Message)
}

func (e *OrchestratorError) Severity() failure.Severity {
	return failure.SeverityFatal
}
