package scheduler

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/discovery"
	"github.com/llmsforge/ingest/internal/fetcher"
	"github.com/llmsforge/ingest/internal/linkextract"
)

// discoverEntryPaths runs §4.8 Discovery for every configured seed path
// and returns the union of the seeds themselves plus whatever sibling
// candidates each seed's naming pattern yields. Discovery is
// best-effort: a seed that fails to fetch, parse, or yield a pattern
// simply contributes only itself.
func (o *Orchestrator) discoverEntryPaths(ctx context.Context, site config.SiteConfig, seeds []url.URL) []url.URL {
	seen := make(map[string]bool, len(seeds))
	var out []url.URL

	addUnique := func(u url.URL) {
		key := u.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, u)
	}

	for _, seed := range seeds {
		addUnique(seed)

		siblings := o.discoverSiblings(ctx, site, seed)
		for _, s := range siblings {
			addUnique(s)
		}
	}
	return out
}

func (o *Orchestrator) discoverSiblings(ctx context.Context, site config.SiteConfig, seed url.URL) []url.URL {
	fetchResult, fetchErr := o.htmlFetcher.Fetch(ctx, 0, fetcher.NewFetchParam(seed, o.userAgent))
	if fetchErr != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(string(fetchResult.Body())))
	if err != nil {
		return nil
	}

	allLinks := linkextract.Extract(doc, seed, site.BaseURL(), site)
	siblings := discovery.SiblingsInSameSection(seed, allLinks)

	pattern, ok := discovery.InferPattern(siblings)
	if !ok {
		return nil
	}

	extraction, extractErr := o.domExtractor.Extract(seed, fetchResult.Body(), site.SelectorsTitle(), site.SelectorsContent())
	if extractErr != nil {
		return nil
	}

	vocabulary := discovery.ExtractVocabulary(extraction.Text)
	if len(vocabulary) == 0 {
		return nil
	}

	candidates := discovery.CandidateURLs(seed, pattern, vocabulary)
	return discovery.Validate(o.headChecker, candidates)
}
