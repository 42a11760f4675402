package config_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/config"
)

func buildSite(t *testing.T, maxDepth int) config.SiteConfig {
	t.Helper()
	base, err := url.Parse("https://example.test")
	require.NoError(t, err)
	site, err := config.WithDefault("docs", "Docs").
		WithBaseURL(*base).
		WithSeedPaths([]string{"/intro"}).
		WithMaxDepth(maxDepth).
		Build()
	require.NoError(t, err)
	return site
}

func TestFingerprintStableAcrossIdenticalConfig(t *testing.T) {
	set1 := config.NewConfigSet(map[string]config.SiteConfig{"docs": buildSite(t, 2)})
	set2 := config.NewConfigSet(map[string]config.SiteConfig{"docs": buildSite(t, 2)})

	fp1, err := set1.Fingerprint()
	require.NoError(t, err)
	fp2, err := set2.Fingerprint()
	require.NoError(t, err)

	require.Equal(t, fp1, fp2)
	require.Len(t, fp1, 8)
}

func TestFingerprintChangesWithConfig(t *testing.T) {
	set1 := config.NewConfigSet(map[string]config.SiteConfig{"docs": buildSite(t, 2)})
	set2 := config.NewConfigSet(map[string]config.SiteConfig{"docs": buildSite(t, 3)})

	fp1, err := set1.Fingerprint()
	require.NoError(t, err)
	fp2, err := set2.Fingerprint()
	require.NoError(t, err)

	require.NotEqual(t, fp1, fp2)
}
