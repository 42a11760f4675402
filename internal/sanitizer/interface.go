package sanitizer

import (
	"github.com/llmsforge/ingest/pkg/failure"
	"golang.org/x/net/html"
)

// Sanitizer is the trust boundary between raw DOM content and anything
// persisted or handed to a language model: its output has no executable
// constructs, a bounded set of structural cues, and decoded entities.
type Sanitizer interface {
	Sanitize(inputContentNode *html.Node) (SanitizedText, failure.ClassifiedError)
}

var _ Sanitizer = (*HtmlSanitizer)(nil)
