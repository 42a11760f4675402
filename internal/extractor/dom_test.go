package extractor_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/extractor"
	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/internal/sanitizer"
	"github.com/llmsforge/ingest/pkg/failure"
)

func newExtractor() extractor.DomExtractor {
	sink := metadata.NoopSink{}
	s := sanitizer.NewHTMLSanitizer(sink)
	return extractor.NewDomExtractor(sink, &s, extractor.DefaultExtractParam())
}

func TestExtractSemanticSelectorStrategy(t *testing.T) {
	e := newExtractor()
	u, _ := url.Parse("https://docs.example.com/guide/getting-started")

	htmlDoc := `<html><head><title>Docs</title></head><body>
<nav>site nav links here and there and everywhere indeed</nav>
<main>
<h1>Getting Started</h1>
<p>This is a fairly long paragraph describing how to get started with the product, covering installation, configuration, and first steps in reasonable depth so that the word count clears the extraction success threshold comfortably for this strategy.</p>
<p>A second paragraph adds more detail about usage patterns, common pitfalls, and links to further reading so that the overall extracted text is substantial enough to be considered meaningful content by every heuristic involved in this pipeline.</p>
</main>
</body></html>`

	result, err := e.Extract(*u, []byte(htmlDoc), []string{"h1"}, nil)
	require.Nil(t, err)
	require.Contains(t, result.Text, "Getting Started")
	require.NotContains(t, result.Text, "site nav")
	require.GreaterOrEqual(t, result.WordCount, 10)
}

func TestExtractTitleSynthesisFromURL(t *testing.T) {
	e := newExtractor()
	u, _ := url.Parse("https://docs.example.com/guides/rate-limiting_basics")

	htmlDoc := `<html><head><title>Home</title></head><body><main><p>` +
		strings.Repeat("word ", 60) + `</p></main></body></html>`

	result, err := e.Extract(*u, []byte(htmlDoc), nil, nil)
	require.Nil(t, err)
	require.Equal(t, "Rate Limiting Basics", result.Title)
}

func TestExtractNoContentReturnsRecoverableError(t *testing.T) {
	e := newExtractor()
	u, _ := url.Parse("https://docs.example.com/empty")

	_, err := e.Extract(*u, []byte(`<html><body></body></html>`), nil, nil)
	require.NotNil(t, err)
	require.Equal(t, failure.SeverityRecoverable, err.Severity())
}
