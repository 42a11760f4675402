package cmd_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cmd "github.com/llmsforge/ingest/internal/cli"
)

const samplePage = `<html><head><title>Intro</title></head><body>
<main>
<h1>Getting Started</h1>
<p>This guide walks through installing the client, configuring a project,
and running your first crawl against a documentation site. It covers the
command line flags, the configuration file format, and the most common
errors you might encounter along the way.</p>
<ul>
<li>Install the binary from the releases page.</li>
<li>Create a configuration file describing each site you want indexed.</li>
</ul>
<p>Run the tool once to build a baseline index, then again whenever content
changes to refresh it incrementally without redoing work that already
succeeded.</p>
</main>
</body></html>`

func writeTempConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "sites.json")
	contents := fmt.Sprintf(`{
		"docs": {
			"name": "Docs",
			"baseUrl": %q,
			"seedUrls": ["/guide/intro"]
		}
	}`, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunIngestMissingConfigFileFails(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist.json")

	err := cmd.RunIngestForTest(missing, "", "", false)
	require.Error(t, err)
}

func TestRunIngestCrawlsAndWritesIndexAndBundle(t *testing.T) {
	t.Setenv("CI", "true")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/guide/intro" {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(samplePage))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := writeTempConfig(t, dir, srv.URL)
	indexPath := filepath.Join(dir, "index.json")

	err := cmd.RunIngestForTest(cfgPath, indexPath, "", false)
	require.NoError(t, err)

	_, statErr := os.Stat(indexPath)
	require.NoError(t, statErr, "index.json should have been written")

	bundlePath := filepath.Join(dir, "docs.llms.txt")
	contents, statErr := os.ReadFile(bundlePath)
	require.NoError(t, statErr, "docs.llms.txt should have been written")
	require.Contains(t, string(contents), "Getting Started")
	require.NotContains(t, string(contents), "<h1>")
}

func TestRunIngestUnknownSiteKeyCrawlsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := writeTempConfig(t, dir, srv.URL)
	indexPath := filepath.Join(dir, "index.json")

	err := cmd.RunIngestForTest(cfgPath, indexPath, "nonexistent-site", false)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "docs.llms.txt"))
	require.True(t, os.IsNotExist(statErr), "no bundle should be written for a site that never ran")
}

func TestResetFlagsRestoresDefaults(t *testing.T) {
	cmd.SetConfigFileForTest("/tmp/other.json")
	cmd.SetForceReindexForTest(true)
	cmd.SetOutputPathForTest("/tmp/out.json")

	cmd.ResetFlags()
}
