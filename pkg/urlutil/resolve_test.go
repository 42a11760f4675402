package urlutil_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/pkg/urlutil"
)

func TestResolveAgainstRelativeLink(t *testing.T) {
	page, err := url.Parse("https://docs.example.com/guides/deep/page.html")
	require.NoError(t, err)

	resolved, err := urlutil.ResolveAgainst(*page, "../sibling.html")
	require.NoError(t, err)
	require.Equal(t, "https://docs.example.com/guides/sibling.html", resolved.String())
}

func TestResolveAgainstStripsFragment(t *testing.T) {
	page, err := url.Parse("https://docs.example.com/guides/page.html")
	require.NoError(t, err)

	resolved, err := urlutil.ResolveAgainst(*page, "other.html#section-2")
	require.NoError(t, err)
	require.Empty(t, resolved.Fragment)
}

func TestSameOrigin(t *testing.T) {
	a, _ := url.Parse("https://docs.example.com/a")
	b, _ := url.Parse("https://docs.example.com/b")
	c, _ := url.Parse("https://other.example.com/b")

	require.True(t, urlutil.SameOrigin(*a, *b))
	require.False(t, urlutil.SameOrigin(*a, *c))
}
