package bundle_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/bundle"
	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/extractor"
	"github.com/llmsforge/ingest/internal/fetcher"
	"github.com/llmsforge/ingest/internal/index"
	"github.com/llmsforge/ingest/pkg/failure"
)

type mapFetcher struct {
	results map[string]fetcher.FetchResult
}

func (m *mapFetcher) Init(*http.Client) {}

func (m *mapFetcher) Fetch(ctx context.Context, crawlDepth int, param fetcher.FetchParam) (fetcher.FetchResult, failure.ClassifiedError) {
	if res, ok := m.results[param.URL().String()]; ok {
		return res, nil
	}
	return fetcher.NewFetchResultForTest(param.URL(), nil, 404, "text/html", nil, time.Now()), nil
}

type mapExtractor struct {
	results map[string]extractor.ExtractionResult
}

func (m *mapExtractor) Extract(sourceUrl url.URL, htmlByte []byte, titleSelectors, contentSelectors []string) (extractor.ExtractionResult, failure.ClassifiedError) {
	if res, ok := m.results[sourceUrl.String()]; ok {
		return res, nil
	}
	return extractor.ExtractionResult{}, &extractor.ExtractionError{Cause: extractor.ErrCauseNoContent}
}

func mustParseURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func richText() string {
	return "# Getting Started\n\n" +
		"This guide walks through installing the client, configuring a project, " +
		"and running your first crawl against a documentation site. It covers " +
		"the command line flags, the configuration file format, and the most " +
		"common errors you might encounter along the way.\n\n" +
		"- Install the binary from the releases page.\n" +
		"- Create a configuration file describing each site you want indexed.\n" +
		"- Run the tool once to build a baseline index, then again whenever " +
		"content changes to refresh it incrementally without redoing work " +
		"that already succeeded. See https://example.com/docs for the full " +
		"reference and additional troubleshooting tips that explain each flag."
}

func testSite(t *testing.T) config.SiteConfig {
	site, err := config.WithDefault("docs", "Docs").
		WithBaseURL(mustParseURL(t, "https://docs.example.com/")).
		WithSeedPaths([]string{"/guide/page1"}).
		Build()
	require.NoError(t, err)
	return site
}

func TestGenerateIncludesAcceptedPageWithMetadataLines(t *testing.T) {
	pageURL := mustParseURL(t, "https://docs.example.com/guide/page1")
	fetch := &mapFetcher{
		results: map[string]fetcher.FetchResult{
			pageURL.String(): fetcher.NewFetchResultForTest(
				pageURL, []byte("<html><body>ok</body></html>"), 200, "text/html", nil, time.Now(),
			),
		},
	}
	extract := &mapExtractor{
		results: map[string]extractor.ExtractionResult{
			pageURL.String(): {
				Title: "Page One", Text: richText(), WordCount: 90, ExtractionMethod: "semantic-selector",
			},
		},
	}

	gen := bundle.NewGenerator(fetch, extract, "test-agent/1.0")
	out, err := gen.Generate(context.Background(), testSite(t), []index.PageRecord{
		{URL: pageURL.String(), Title: "Page One", Depth: 0},
	})
	require.Nil(t, err)

	require.Contains(t, out, "# Docs\n")
	require.Contains(t, out, "Documents: 1")
	require.Contains(t, out, "## Table of Contents")
	require.Contains(t, out, "1. Page One")
	require.Contains(t, out, "Source: https://docs.example.com/guide/page1")
	require.Contains(t, out, "Words: 90")
	require.Contains(t, out, "Extraction Method: semantic-selector")
	require.Contains(t, out, "Extraction Reason:")
	require.Contains(t, out, "---")
	require.NotContains(t, out, "<html>")
	require.NotContains(t, out, "&amp;")
}

func TestGenerateMovesNotFoundPageToExcludedSection(t *testing.T) {
	pageURL := mustParseURL(t, "https://docs.example.com/guide/gone")
	fetch := &mapFetcher{results: map[string]fetcher.FetchResult{}}
	extract := &mapExtractor{results: map[string]extractor.ExtractionResult{}}

	gen := bundle.NewGenerator(fetch, extract, "test-agent/1.0")
	out, err := gen.Generate(context.Background(), testSite(t), []index.PageRecord{
		{URL: pageURL.String(), Title: "Gone", Depth: 0},
	})
	require.Nil(t, err)

	require.Contains(t, out, "Documents: 0")
	require.Contains(t, out, "# Excluded")
	require.Contains(t, out, pageURL.String())
}

func TestGenerateAbortsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := bundle.NewGenerator(&mapFetcher{}, &mapExtractor{}, "test-agent/1.0")
	_, err := gen.Generate(ctx, testSite(t), []index.PageRecord{
		{URL: "https://docs.example.com/guide/page1", Title: "Page One"},
	})
	require.NotNil(t, err)
}
