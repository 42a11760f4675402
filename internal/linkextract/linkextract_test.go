package linkextract_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/llmsforge/ingest/internal/linkextract"
)

type noExcludes struct{}

func (noExcludes) MatchesExcludePattern(string) bool { return false }

func TestExtractFiltersOutOfScopeLinks(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body>
<a href="/guide/page2">page2</a>
<a href="https://other.example.com/x">external</a>
<a href="/guide/page2#section">fragment</a>
<a href="/assets/logo.png">asset</a>
<a href="/guide/page2">dup</a>
</body></html>`))
	require.NoError(t, err)

	page, _ := url.Parse("https://docs.example.com/guide/page1")
	base, _ := url.Parse("https://docs.example.com/")

	links := linkextract.Extract(doc, *page, *base, noExcludes{})
	require.Len(t, links, 1)
	require.Equal(t, "https://docs.example.com/guide/page2", links[0].String())
}
