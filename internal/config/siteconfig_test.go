package config_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/config"
)

func TestSiteConfigBuildRequiresBaseURL(t *testing.T) {
	_, err := config.WithDefault("docs", "Docs").WithSeedPaths([]string{"/intro"}).Build()
	require.ErrorIs(t, err, config.ErrInvalidBaseURL)
}

func TestSiteConfigBuildRequiresSeedsOrSingleFile(t *testing.T) {
	base, _ := url.Parse("https://example.test")
	_, err := config.WithDefault("docs", "Docs").WithBaseURL(*base).Build()
	require.ErrorIs(t, err, config.ErrNoSeeds)
}

func TestSiteConfigBuildDefaultsSelectors(t *testing.T) {
	base, _ := url.Parse("https://example.test")
	site, err := config.WithDefault("docs", "Docs").
		WithBaseURL(*base).
		WithSeedPaths([]string{"/intro"}).
		Build()
	require.NoError(t, err)
	require.NotEmpty(t, site.SelectorsTitle())
	require.NotEmpty(t, site.SelectorsContent())
}

func TestSiteConfigExcludePatternMatch(t *testing.T) {
	base, _ := url.Parse("https://example.test")
	builder, err := config.WithDefault("docs", "Docs").
		WithBaseURL(*base).
		WithSeedPaths([]string{"/intro"}).
		WithExcludePatterns([]string{"/\\/changelog/i"})
	require.NoError(t, err)
	site, err := builder.Build()
	require.NoError(t, err)

	require.True(t, site.MatchesExcludePattern("/CHANGELOG"))
	require.False(t, site.MatchesExcludePattern("/guides/intro"))
}

func TestSiteConfigExcludePatternRejectsUnsupportedFlag(t *testing.T) {
	base, _ := url.Parse("https://example.test")
	_, err := config.WithDefault("docs", "Docs").
		WithBaseURL(*base).
		WithSeedPaths([]string{"/intro"}).
		WithExcludePatterns([]string{"/foo/s"})
	require.ErrorIs(t, err, config.ErrInvalidExcludePattern)
}

func TestSingleFileConfigSkipsSeedRequirement(t *testing.T) {
	base, _ := url.Parse("https://example.test")
	site, err := config.WithDefault("glossary", "Glossary").
		WithBaseURL(*base).
		WithSingleFile("https://example.test/glossary.txt").
		Build()
	require.NoError(t, err)
	require.True(t, site.IsSingleFile())
	require.Equal(t, "https://example.test/glossary.txt", site.FileURL())
}
