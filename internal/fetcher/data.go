package fetcher

import (
	"net/url"
	"strings"
	"time"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl  url.URL
	userAgent string
}

func NewFetchParam(fetchUrl url.URL, userAgent string) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
	}
}

func (p FetchParam) URL() url.URL      { return p.fetchUrl }
func (p FetchParam) UserAgent() string { return p.userAgent }

type FetchResult struct {
	url         url.URL
	body        []byte
	statusCode  int
	contentType string
	headers     map[string]string
	notFound    bool
	plainText   bool
	fetchedAt   time.Time
	duration    time.Duration
}

func (f *FetchResult) URL() url.URL               { return f.url }
func (f *FetchResult) Body() []byte               { return f.body }
func (f *FetchResult) Code() int                  { return f.statusCode }
func (f *FetchResult) ContentType() string        { return f.contentType }
func (f *FetchResult) Headers() map[string]string { return f.headers }
func (f *FetchResult) NotFound() bool             { return f.notFound }
func (f *FetchResult) PlainText() bool            { return f.plainText }
func (f *FetchResult) FetchedAt() time.Time       { return f.fetchedAt }
func (f *FetchResult) Duration() time.Duration    { return f.duration }
func (f *FetchResult) SizeByte() uint64           { return uint64(len(f.body)) }

// isPlainTextPayload tags a fetch as plain text per §4.2: either the
// Content-Type is text/plain or the URL ends in .txt.
func isPlainTextPayload(contentType string, u url.URL) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/plain") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".txt")
}

// NewFetchResultForTest constructs a FetchResult for test packages
// without exposing the unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	contentType string,
	headers map[string]string,
	fetchedAt time.Time,
) FetchResult {
	return FetchResult{
		url:         url,
		body:        body,
		statusCode:  statusCode,
		contentType: contentType,
		headers:     headers,
		notFound:    statusCode == 404,
		plainText:   isPlainTextPayload(contentType, url),
		fetchedAt:   fetchedAt,
	}
}
