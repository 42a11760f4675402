/*
Responsibilities
- Own the per-site crawl lifecycle: existing-index reuse, entry-point
  discovery, the stack-based DFS loop, and per-site telemetry
- Decide, page by page, whether a SeverityFatal error aborts the run or
  a SeverityRecoverable one is logged and the page skipped
- Assemble and persist the final Index once every site has finished

Orchestrator is the sole authority on retry, continue, or abort for a
crawl run. Pipeline stages (Fetcher, Extractor, Validator) only
classify failures; they never decide what happens next.

Metadata emission is observational only and MUST NOT influence
scheduling, continuation, or termination.
*/
package scheduler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"runtime"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/discovery"
	"github.com/llmsforge/ingest/internal/extractor"
	"github.com/llmsforge/ingest/internal/fetcher"
	"github.com/llmsforge/ingest/internal/frontier"
	"github.com/llmsforge/ingest/internal/index"
	"github.com/llmsforge/ingest/internal/linkextract"
	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/internal/quality"
	"github.com/llmsforge/ingest/internal/sanitizer"
	"github.com/llmsforge/ingest/internal/validator"
	"github.com/llmsforge/ingest/pkg/failure"
	"github.com/llmsforge/ingest/pkg/limiter"
	"github.com/llmsforge/ingest/pkg/urlutil"
)

// minQualityScore and minEstimatedWords are the §4.9 success gate: a
// page only becomes a PageRecord when both hold. The extractor already
// enforces minWordCountForSuccess (50) inside its readability, semantic
// and site-selector strategies, but its raw fallback accepts any
// non-empty text, so the word count is re-checked here.
const (
	minQualityScore   = 0.1
	minEstimatedWords = 50
	maxEntryPaths     = 15
)

type Orchestrator struct {
	metadataSink   metadata.MetadataSink
	crawlFinalizer metadata.CrawlFinalizer
	htmlFetcher    fetcher.Fetcher
	domExtractor   extractor.Extractor
	rateLimiter    limiter.RateLimiter
	headChecker    discovery.HeadChecker
	indexStore     index.Store
	userAgent      string
	thresholds     validator.Thresholds
}

func NewOrchestrator(
	metadataSink metadata.MetadataSink,
	crawlFinalizer metadata.CrawlFinalizer,
	userAgent string,
) Orchestrator {
	rateLimiter := limiter.NewTokenBucketLimiter()
	httpClient := &http.Client{}

	htmlFetcher := fetcher.NewHtmlFetcher(metadataSink, rateLimiter, userAgent)
	htmlFetcher.Init(httpClient)

	htmlSanitizer := sanitizer.NewHTMLSanitizer(metadataSink)
	domExtractor := extractor.NewDomExtractor(metadataSink, &htmlSanitizer, extractor.DefaultExtractParam())

	return Orchestrator{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		htmlFetcher:    &htmlFetcher,
		domExtractor:   &domExtractor,
		rateLimiter:    rateLimiter,
		headChecker:    newHTTPHeadChecker(httpClient, userAgent),
		indexStore:     index.NewStore(metadataSink),
		userAgent:      userAgent,
		thresholds:     validator.DefaultThresholds(),
	}
}

// NewOrchestratorWithDeps injects every collaborator, for tests.
func NewOrchestratorWithDeps(
	metadataSink metadata.MetadataSink,
	crawlFinalizer metadata.CrawlFinalizer,
	htmlFetcher fetcher.Fetcher,
	domExtractor extractor.Extractor,
	rateLimiter limiter.RateLimiter,
	headChecker discovery.HeadChecker,
	userAgent string,
) Orchestrator {
	return Orchestrator{
		metadataSink:   metadataSink,
		crawlFinalizer: crawlFinalizer,
		htmlFetcher:    htmlFetcher,
		domExtractor:   domExtractor,
		rateLimiter:    rateLimiter,
		headChecker:    headChecker,
		indexStore:     index.NewStore(metadataSink),
		userAgent:      userAgent,
		thresholds:     validator.DefaultThresholds(),
	}
}

// Run executes every site in configSet (or just siteKey, if non-empty),
// reusing the existing index at canonicalIndexPath unless forceReindex
// is set, and atomically persists the combined result per mode.
func (o *Orchestrator) Run(
	ctx context.Context,
	configSet config.ConfigSet,
	canonicalIndexPath string,
	mode config.RuntimeMode,
	forceReindex bool,
	siteKey string,
) (index.Index, failure.ClassifiedError) {
	runStart := time.Now()

	fingerprint, err := configSet.Fingerprint()
	if err != nil {
		return index.Index{}, &OrchestratorError{Message: err.Error()}
	}

	var existing index.Index
	if forceReindex {
		existing = index.Empty(fingerprint, runStart)
	} else {
		existing = o.indexStore.Load(canonicalIndexPath, fingerprint, runStart)
	}

	keys := configSet.Keys()
	if siteKey != "" {
		keys = []string{siteKey}
	}

	results := o.runSites(ctx, configSet, existing, keys)

	result := index.Empty(fingerprint, runStart)
	for _, r := range results {
		result.Sites[r.SiteKey] = toSiteIndex(r)
	}

	if ctx.Err() != nil {
		// §5 "On cancellation, the Index is not written."
		return result, nil
	}

	if writeErr := o.indexStore.Write(canonicalIndexPath, result, mode); writeErr != nil {
		return result, writeErr
	}
	return result, nil
}

// runSites executes each site concurrently, bounded by GOMAXPROCS,
// per SPEC_FULL.md's expansion of §4.9/§5's open cross-site choice.
// The shared Rate Limiter is the only coordination point between them.
func (o *Orchestrator) runSites(ctx context.Context, configSet config.ConfigSet, existing index.Index, keys []string) []SiteResult {
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	resultsCh := make(chan SiteResult, len(keys))

	for _, key := range keys {
		site, err := configSet.Site(key)
		if err != nil {
			continue
		}

		wg.Add(1)
		go func(site config.SiteConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			existingSite, reuse := existing.Sites[site.Key()]
			resultsCh <- o.crawlSite(ctx, site, existingSite, reuse)
		}(site)
	}

	wg.Wait()
	close(resultsCh)

	results := make([]SiteResult, 0, len(keys))
	for r := range resultsCh {
		results = append(results, r)
		o.crawlFinalizer.RecordFinalCrawlStats(metadata.CrawlStats{
			Site:        r.SiteKey,
			TotalPages:  len(r.Pages),
			TotalErrors: r.TotalErrors,
			DurationMs:  r.Duration.Milliseconds(),
		})
	}
	return results
}

// crawlSite is §4.9's per-site state machine.
func (o *Orchestrator) crawlSite(ctx context.Context, site config.SiteConfig, existingSite index.SiteIndex, reuseExisting bool) SiteResult {
	startTime := time.Now()

	var pages []PageRecord
	var totalErrors int
	var requestCount int

	visited := frontier.NewSet[string]()
	seen := frontier.NewSet[string]()
	existingURLs := frontier.NewSet[string]()

	if reuseExisting {
		for _, rec := range existingSite.Pages {
			pages = append(pages, pageRecordFromIndex(rec))
			seen.Add(rec.URL)
			existingURLs.Add(rec.URL)
		}
	}

	if site.IsSingleFile() {
		fileURL, parseErr := url.Parse(site.FileURL())
		if parseErr == nil {
			if rec, _, ok := o.processPage(ctx, site, *fileURL, 0, &requestCount); ok {
				pages = append(pages, rec)
			} else {
				totalErrors++
			}
		}
		return SiteResult{
			SiteKey: site.Key(), Name: site.DisplayName(), BaseURL: site.BaseURL().String(),
			Pages: pages, TotalErrors: totalErrors, RequestCount: requestCount,
			Duration: time.Since(startTime),
		}
	}

	seedURLs := make([]url.URL, 0, len(site.SeedPaths()))
	for _, p := range site.SeedPaths() {
		resolved, err := urlutil.ResolveAgainst(site.BaseURL(), p)
		if err != nil {
			continue
		}
		seedURLs = append(seedURLs, resolved)
	}

	entryPaths := o.discoverEntryPaths(ctx, site, seedURLs)
	if len(entryPaths) > maxEntryPaths {
		entryPaths = entryPaths[:maxEntryPaths]
	}

	stack := frontier.NewStack[frontier.CrawlToken]()
	for i := len(entryPaths) - 1; i >= 0; i-- {
		u := entryPaths[i]
		stack.Push(frontier.NewCrawlToken(u, pathSegmentCount(u.Path)))
		seen.Add(u.String())
	}

	for stack.Size() > 0 && len(pages) < site.MaxPages() {
		if ctx.Err() != nil {
			break
		}

		token, ok := stack.Pop()
		if !ok {
			break
		}
		tokenURL := token.URL()
		tokenDepth := token.Depth()
		key := tokenURL.String()

		if visited.Contains(key) || tokenDepth > site.MaxDepth() {
			continue
		}
		if reuseExisting && existingURLs.Contains(key) {
			continue
		}
		visited.Add(key)

		record, links, ok := o.processPage(ctx, site, tokenURL, tokenDepth, &requestCount)
		if !ok {
			totalErrors++
			continue
		}
		pages = append(pages, record)

		if len(pages) < site.MaxPages() && tokenDepth < site.MaxDepth() {
			nextDepth := tokenDepth + 1
			var toPush []url.URL
			for _, link := range links {
				linkKey := link.String()
				if seen.Contains(linkKey) {
					continue
				}
				seen.Add(linkKey)
				toPush = append(toPush, link)
			}
			for i := len(toPush) - 1; i >= 0; i-- {
				stack.Push(frontier.NewCrawlToken(toPush[i], nextDepth))
			}
		}
	}

	return SiteResult{
		SiteKey: site.Key(), Name: site.DisplayName(), BaseURL: site.BaseURL().String(),
		Pages: pages, TotalErrors: totalErrors, RequestCount: requestCount,
		Duration: time.Since(startTime),
	}
}

// processPage fetches, extracts, validates, and scores one URL,
// returning its PageRecord, the in-scope links discovered on the page,
// and whether the page was accepted. A false return is never a hard
// failure: the error, if any, has already been recorded by the
// failing stage's own metadataSink call.
func (o *Orchestrator) processPage(
	ctx context.Context,
	site config.SiteConfig,
	pageURL url.URL,
	depth int,
	requestCount *int,
) (PageRecord, []url.URL, bool) {
	fetchResult, fetchErr := o.htmlFetcher.Fetch(ctx, depth, fetcher.NewFetchParam(pageURL, o.userAgent))
	*requestCount++
	if fetchErr != nil {
		return PageRecord{}, nil, false
	}
	if fetchResult.NotFound() {
		return PageRecord{}, nil, false
	}

	extraction, extractErr := o.domExtractor.Extract(
		pageURL, fetchResult.Body(), site.SelectorsTitle(), site.SelectorsContent(),
	)
	if extractErr != nil {
		return PageRecord{}, nil, false
	}
	if isNotFoundByContent(extraction.Title, extraction.Text) {
		return PageRecord{}, nil, false
	}
	if extraction.WordCount < minEstimatedWords {
		return PageRecord{}, nil, false
	}

	report := validator.Validate(extraction.Text, o.thresholds)
	if !report.Passed {
		return PageRecord{}, nil, false
	}

	qualityResult := quality.Score(extraction.Text, quality.DefaultParam())
	if qualityResult.Overall < minQualityScore {
		return PageRecord{}, nil, false
	}

	now := time.Now()
	record := PageRecord{
		URL:            pageURL.String(),
		Title:          extraction.Title,
		Description:    truncateDescription(extraction.Text),
		EstimatedWords: extraction.WordCount,
		LastModified:   now,
		Breadcrumbs:    breadcrumbsFromPath(pageURL),
		SiteKey:        site.Key(),
		SiteName:       site.DisplayName(),
		Depth:          depth,
		CrawledAt:      now,
	}

	var links []url.URL
	if doc, parseErr := html.Parse(bytes.NewReader(fetchResult.Body())); parseErr == nil {
		links = linkextract.Extract(doc, pageURL, site.BaseURL(), site)
	}

	return record, links, true
}

func pageRecordFromIndex(rec index.PageRecord) PageRecord {
	lastModified, _ := time.Parse(time.RFC3339, rec.LastModified)
	crawledAt, _ := time.Parse(time.RFC3339, rec.CrawledAt)
	return PageRecord{
		URL: rec.URL, Title: rec.Title, Description: rec.Description,
		EstimatedWords: rec.EstimatedWords, LastModified: lastModified,
		Breadcrumbs: rec.Breadcrumbs, SiteKey: rec.SiteKey, SiteName: rec.SiteName,
		Depth: rec.Depth, CrawledAt: crawledAt,
	}
}

func toSiteIndex(r SiteResult) index.SiteIndex {
	pages := make([]index.PageRecord, 0, len(r.Pages))
	var totalWords int
	for _, p := range r.Pages {
		pages = append(pages, index.PageRecord{
			URL: p.URL, Title: p.Title, Description: p.Description,
			EstimatedWords: p.EstimatedWords,
			LastModified:   p.LastModified.UTC().Format(time.RFC3339),
			Breadcrumbs:    p.Breadcrumbs, SiteKey: p.SiteKey, SiteName: p.SiteName,
			Depth: p.Depth, CrawledAt: p.CrawledAt.UTC().Format(time.RFC3339),
		})
		totalWords += p.EstimatedWords
	}

	var averageWords, averageResponseTime, pagesPerSecond float64
	if len(pages) > 0 {
		averageWords = float64(totalWords) / float64(len(pages))
	}
	if r.RequestCount > 0 {
		averageResponseTime = float64(r.Duration.Milliseconds()) / float64(r.RequestCount)
	}
	if seconds := r.Duration.Seconds(); seconds > 0 {
		pagesPerSecond = float64(len(pages)) / seconds
	}

	return index.SiteIndex{
		Name:        r.Name,
		BaseURL:     r.BaseURL,
		Pages:       pages,
		LastCrawled: time.Now().UTC().Format(time.RFC3339),
		Stats: index.SiteStats{
			TotalPages:          len(pages),
			AverageWords:        averageWords,
			DurationMs:          r.Duration.Milliseconds(),
			RequestCount:        r.RequestCount,
			AverageResponseTime: averageResponseTime,
			PagesPerSecond:      pagesPerSecond,
		},
	}
}
