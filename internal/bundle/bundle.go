/*
Responsibilities
- Re-derive each PageRecord's content on demand (PageRecord never
  stores full content, §3) by re-fetching and re-extracting it
- Assemble the accepted pages into the §6 plain-text bundle format:
  header, numbered table of contents, numbered sections separated by
  "---" lines, and a tail section for pages excluded on re-check
- Guarantee the output is free of HTML tags and entity references —
  it is built entirely from ExtractionResult.Text, which the Extractor
  already ran through the Sanitizer

Generator does not write to disk: callers decide the destination path
and write mode.
*/
package bundle

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/llmsforge/ingest/internal/config"
	"github.com/llmsforge/ingest/internal/extractor"
	"github.com/llmsforge/ingest/internal/fetcher"
	"github.com/llmsforge/ingest/internal/index"
	"github.com/llmsforge/ingest/internal/quality"
	"github.com/llmsforge/ingest/pkg/failure"
)

const minQualityScore = 0.1

type Generator struct {
	htmlFetcher  fetcher.Fetcher
	domExtractor extractor.Extractor
	userAgent    string
}

func NewGenerator(htmlFetcher fetcher.Fetcher, domExtractor extractor.Extractor, userAgent string) Generator {
	return Generator{htmlFetcher: htmlFetcher, domExtractor: domExtractor, userAgent: userAgent}
}

// Generate renders one site's accepted pages as the full bundle text.
// Pages are rendered in the order given; callers that want a stable
// table of contents should sort pages (e.g. by Depth then URL) first.
func (g *Generator) Generate(ctx context.Context, site config.SiteConfig, pages []index.PageRecord) (string, failure.ClassifiedError) {
	var sections []section
	var excluded []excludedPage

	for _, p := range pages {
		if ctx.Err() != nil {
			return "", &BundleError{Message: ctx.Err().Error()}
		}
		sec, reason, ok := g.renderPage(ctx, site, p)
		if !ok {
			excluded = append(excluded, excludedPage{url: p.URL, reason: reason})
			continue
		}
		sections = append(sections, sec)
	}

	return render(site.DisplayName(), sections, excluded), nil
}

func (g *Generator) renderPage(ctx context.Context, site config.SiteConfig, p index.PageRecord) (section, string, bool) {
	pageURL, err := url.Parse(p.URL)
	if err != nil {
		return section{}, fmt.Sprintf("unparseable url: %v", err), false
	}

	fetchResult, fetchErr := g.htmlFetcher.Fetch(ctx, p.Depth, fetcher.NewFetchParam(*pageURL, g.userAgent))
	if fetchErr != nil {
		return section{}, fmt.Sprintf("refetch failed: %s", fetchErr.Error()), false
	}
	if fetchResult.NotFound() {
		return section{}, "page no longer found on re-fetch", false
	}

	extraction, extractErr := g.domExtractor.Extract(
		*pageURL, fetchResult.Body(), site.SelectorsTitle(), site.SelectorsContent(),
	)
	if extractErr != nil {
		return section{}, fmt.Sprintf("re-extraction failed: %s", extractErr.Error()), false
	}

	qualityResult := quality.Score(extraction.Text, quality.DefaultParam())
	if qualityResult.Overall < minQualityScore {
		return section{}, fmt.Sprintf("quality score %.2f below %.2f threshold", qualityResult.Overall, minQualityScore), false
	}

	title := p.Title
	if title == "" {
		title = extraction.Title
	}

	return section{
		title:            title,
		sourceURL:        p.URL,
		words:            extraction.WordCount,
		extractionMethod: extraction.ExtractionMethod,
		extractionReason: fmt.Sprintf("%s quality (score %.2f), %d words", qualityResult.Label, qualityResult.Overall, extraction.WordCount),
		text:             extraction.Text,
	}, "", true
}

func render(collectionName string, sections []section, excluded []excludedPage) string {
	var buf bytes.Buffer

	totalWords := 0
	for _, s := range sections {
		totalWords += s.words
	}

	fmt.Fprintf(&buf, "# %s\n", collectionName)
	fmt.Fprintf(&buf, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Documents: %d\n", len(sections))
	fmt.Fprintf(&buf, "Total Words: %d\n\n", totalWords)

	buf.WriteString("## Table of Contents\n")
	for i, s := range sections {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, s.title)
	}
	buf.WriteString("\n---\n\n")

	for i, s := range sections {
		fmt.Fprintf(&buf, "# %d. %s\n", i+1, s.title)
		fmt.Fprintf(&buf, "Source: %s\n", s.sourceURL)
		fmt.Fprintf(&buf, "Words: %d\n", s.words)
		fmt.Fprintf(&buf, "Extraction Method: %s\n", s.extractionMethod)
		fmt.Fprintf(&buf, "Extraction Reason: %s\n\n", s.extractionReason)
		buf.WriteString(s.text)
		buf.WriteString("\n\n---\n\n")
	}

	if len(excluded) > 0 {
		buf.WriteString("# Excluded\n")
		for _, e := range excluded {
			fmt.Fprintf(&buf, "- %s: %s\n", e.url, e.reason)
		}
	}

	return buf.String()
}
