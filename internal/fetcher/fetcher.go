package fetcher

import (
	"context"
	"net/http"

	"github.com/llmsforge/ingest/pkg/failure"
)

// Fetcher acquires a Rate Limiter permit, issues a single GET with a
// fixed timeout, and returns the raw payload. It never parses content
// and never retries; a 404 is reported as FetchResult.NotFound(), not
// as an error.
type Fetcher interface {
	Init(httpClient *http.Client)
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
	) (FetchResult, failure.ClassifiedError)
}
