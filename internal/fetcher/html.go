package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
	"github.com/llmsforge/ingest/pkg/limiter"
)

/*
Responsibilities

- Acquire a Rate Limiter permit before every request
- Issue a single GET with a fixed timeout
- Classify the response without parsing it
- Report every fetch, successful or not, through the metadata sink

A 404 is not an error: it is reported as FetchResult.NotFound() so the
orchestrator can skip the page without logging a failure. The fetcher
never retries; a failed fetch is always page-scoped and recoverable.
*/

const fetchTimeout = 15 * time.Second

type HtmlFetcher struct {
	metadataSink metadata.MetadataSink
	rateLimiter  limiter.RateLimiter
	userAgent    string
	httpClient   *http.Client
}

func NewHtmlFetcher(
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	userAgent string,
) HtmlFetcher {
	return HtmlFetcher{
		metadataSink: metadataSink,
		rateLimiter:  rateLimiter,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: fetchTimeout},
	}
}

// Init lets the orchestrator swap in a preconfigured client (e.g. one
// wired with test transport) after construction.
func (h *HtmlFetcher) Init(httpClient *http.Client) {
	h.httpClient = httpClient
}

func (h *HtmlFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam FetchParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HtmlFetcher.Fetch"

	if err := h.rateLimiter.Acquire(ctx); err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("rate limiter acquire: %v", err),
			Cause:   ErrCauseNetworkFailure,
		}
	}

	startTime := time.Now()
	result, fetchErr := h.performFetch(ctx, fetchParam.fetchUrl, h.userAgent)
	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	if fetchErr != nil {
		var fe *FetchError
		if errors.As(fetchErr, &fe) {
			statusCode = fe.Status
		}
	} else {
		statusCode = result.Code()
		contentType = result.ContentType()
		result.duration = duration
	}

	h.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		statusCode,
		duration,
		contentType,
		crawlDepth,
	)

	if fetchErr != nil {
		h.recordFetchError(callerMethod, fetchParam.fetchUrl, fetchErr)
		return FetchResult{}, fetchErr
	}

	return result, nil
}

func (h *HtmlFetcher) recordFetchError(callerMethod string, fetchUrl url.URL, err failure.ClassifiedError) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		h.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fetchUrl.String()),
			},
		)
	}
}

func (h *HtmlFetcher) performFetch(ctx context.Context, fetchUrl url.URL, userAgent string) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseNetworkFailure,
		}
	}

	for key, value := range requestHeaders(userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		if errors.Is(err, context.DeadlineExceeded) {
			cause = ErrCauseTimeout
		}
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("request failed: %v", err),
			Cause:   cause,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("transient response: %d", resp.StatusCode),
			Cause:   ErrCauseTransientHTTP,
			Status:  resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Cause:   ErrCauseNetworkFailure,
			Status:  resp.StatusCode,
		}
	}

	responseHeaders := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	contentType := resp.Header.Get("Content-Type")

	return FetchResult{
		url:         fetchUrl,
		body:        body,
		statusCode:  resp.StatusCode,
		contentType: contentType,
		headers:     responseHeaders,
		notFound:    resp.StatusCode == http.StatusNotFound,
		plainText:   isPlainTextPayload(contentType, fetchUrl),
		fetchedAt:   time.Now(),
	}, nil
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.7",
		"Accept-Language": "en-US,en;q=0.5",
	}
}
