package discovery_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/discovery"
)

func mustURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestInferPatternFindsCommonPrefixAndSuffix(t *testing.T) {
	links := []url.URL{
		mustURL(t, "https://docs.example.com/guide/install-arweave.html"),
		mustURL(t, "https://docs.example.com/guide/install-ao.html"),
	}

	pattern, ok := discovery.InferPattern(links)
	require.True(t, ok)
	require.Equal(t, "install-a", pattern.Prefix)
	require.Equal(t, ".html", pattern.Suffix)
}

func TestExtractVocabularyDropsStopWordsAndShortTokens(t *testing.T) {
	vocab := discovery.ExtractVocabulary("The Arweave network and the AO compute layer are great for storage.")
	require.Contains(t, vocab, "arweave")
	require.NotContains(t, vocab, "the")
	require.NotContains(t, vocab, "are")
	require.NotContains(t, vocab, "ao")
}

func TestCandidateURLsSubstituteVocabulary(t *testing.T) {
	seed := mustURL(t, "https://docs.example.com/guide/install-arweave.html")
	pattern := discovery.Pattern{Prefix: "install-", Suffix: ".html"}

	candidates := discovery.CandidateURLs(seed, pattern, []string{"ao", "wallet"})
	require.Len(t, candidates, 2)
	require.Equal(t, "/guide/install-ao.html", candidates[0].Path)
}

type fakeHeadChecker struct {
	ok map[string]bool
}

func (f fakeHeadChecker) Head(u url.URL) (int, error) {
	if f.ok[u.String()] {
		return 200, nil
	}
	return 404, nil
}

func TestValidateAcceptsOnly2xx(t *testing.T) {
	candidates := []url.URL{
		mustURL(t, "https://docs.example.com/guide/install-ao.html"),
		mustURL(t, "https://docs.example.com/guide/install-wallet.html"),
	}
	checker := fakeHeadChecker{ok: map[string]bool{
		"https://docs.example.com/guide/install-ao.html": true,
	}}

	accepted := discovery.Validate(checker, candidates)
	require.Len(t, accepted, 1)
	require.Equal(t, "https://docs.example.com/guide/install-ao.html", accepted[0].String())
}
