package extractor

import (
	"net/url"

	"github.com/llmsforge/ingest/pkg/failure"
)

// Extractor is the strategy-cascade boundary: give it a fetched page's
// body and the site's configured selectors, get back sanitized text,
// a title, and which strategy produced it.
type Extractor interface {
	Extract(
		sourceUrl url.URL,
		htmlByte []byte,
		siteSelectorsTitle []string,
		siteSelectorsContent []string,
	) (ExtractionResult, failure.ClassifiedError)
}
