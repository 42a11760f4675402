/*
Responsibilities
- Register the CLI surface named in §6: an optional [site] positional,
  --force/--force-reindex, --output, and cobra's built-in --help
- Load the multi-site ConfigSet from a JSON config file
- Wire an Orchestrator, run it, and generate bundles for whichever
  sites actually produced pages
- Translate a run's outcome into the §6 exit codes: 0 success, 1
  unrecoverable error (config load failed, output write failed)

Execute is the sole entry point cmd/llmsforge/main.go calls.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llmsforge/ingest/internal/build"
	"github.com/llmsforge/ingest/internal/bundle"
	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/extractor"
	"github.com/llmsforge/ingest/internal/fetcher"
	"github.com/llmsforge/ingest/internal/index"
	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/internal/sanitizer"
	"github.com/llmsforge/ingest/internal/scheduler"
	"github.com/llmsforge/ingest/pkg/limiter"
)

var (
	cfgFile      string
	forceReindex bool
	outputPath   string
)

const defaultConfigFile = "sites.json"
const defaultUserAgent = "llmsforge-ingest/1.0 (+https://github.com/llmsforge/ingest)"

var rootCmd = &cobra.Command{
	Use:   "llmsforge [site]",
	Short: "Crawl configured documentation sites into an index and llms.txt bundles.",
	Long: `llmsforge crawls the documentation sites named in a JSON config file,
maintains a persistent per-site index keyed by a fingerprint of that config,
and emits a concatenated plain-text bundle per site suitable as grounding
context for language models.

Run with no arguments to crawl every configured site. Pass a site key to
crawl just that one.`,
	Args:    cobra.MaximumNArgs(1),
	Version: build.FullVersion(),
	RunE:    runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", defaultConfigFile, "path to the JSON site configuration document")
	rootCmd.PersistentFlags().BoolVar(&forceReindex, "force", false, "bypass existing-index reuse (cache miss)")
	rootCmd.PersistentFlags().BoolVar(&forceReindex, "force-reindex", false, "alias of --force")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "override the canonical index output path")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	var siteKey string
	if len(args) == 1 {
		siteKey = args[0]
	}

	if err := runIngest(cfgFile, outputPath, siteKey, forceReindex); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return nil
}

// runIngest loads the config, runs the crawl, and writes bundles. It
// never calls os.Exit so tests can exercise the error paths directly;
// runRoot is the only caller that turns a returned error into exit 1.
func runIngest(cfgFile, outputPath, siteKey string, forceReindex bool) error {
	configSet, err := config.WithConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mode := config.RuntimeModeFromEnv()
	indexPath := outputPath
	if indexPath == "" {
		indexPath = filepath.Join(filepath.Dir(cfgFile), "index.json")
	}

	recorder := metadata.NewRecorder(os.Stderr)
	orchestrator := scheduler.NewOrchestrator(recorder, recorder, defaultUserAgent)

	idx, runErr := orchestrator.Run(context.Background(), configSet, indexPath, mode, forceReindex, siteKey)
	if runErr != nil {
		return fmt.Errorf("crawl failed: %w", runErr)
	}

	if err := writeBundles(recorder, configSet, idx, filepath.Dir(indexPath)); err != nil {
		return fmt.Errorf("bundle generation failed: %w", err)
	}
	return nil
}

// writeBundles generates and persists one llms.txt per site that has
// pages in the freshly produced index.
func writeBundles(recorder *metadata.Recorder, configSet config.ConfigSet, idx index.Index, outDir string) error {
	generator := bundle.NewGenerator(newBundleFetcher(recorder), newBundleExtractor(recorder), defaultUserAgent)

	for key, siteIndex := range idx.Sites {
		if len(siteIndex.Pages) == 0 {
			continue
		}
		site, err := configSet.Site(key)
		if err != nil {
			continue
		}

		text, bundleErr := generator.Generate(context.Background(), site, siteIndex.Pages)
		if bundleErr != nil {
			return fmt.Errorf("site %q: %w", key, bundleErr)
		}

		path := filepath.Join(outDir, key+".llms.txt")
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("site %q: writing %s: %w", key, path, err)
		}
	}
	return nil
}

// newBundleFetcher and newBundleExtractor build independent instances
// from the crawl's, so bundle generation's rate limiting and metadata
// never interleave with the orchestrator's.
func newBundleFetcher(sink metadata.MetadataSink) fetcher.Fetcher {
	f := fetcher.NewHtmlFetcher(sink, limiter.NewTokenBucketLimiter(), defaultUserAgent)
	return &f
}

func newBundleExtractor(sink metadata.MetadataSink) extractor.Extractor {
	s := sanitizer.NewHTMLSanitizer(sink)
	e := extractor.NewDomExtractor(sink, &s, extractor.DefaultExtractParam())
	return &e
}

func ResetFlags() {
	cfgFile = defaultConfigFile
	forceReindex = false
	outputPath = ""
}

func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetForceReindexForTest(force bool) {
	forceReindex = force
}

func SetOutputPathForTest(path string) {
	outputPath = path
}

// RunIngestForTest exposes runIngest to the external test package.
func RunIngestForTest(cfgFile, outputPath, siteKey string, forceReindex bool) error {
	return runIngest(cfgFile, outputPath, siteKey, forceReindex)
}
