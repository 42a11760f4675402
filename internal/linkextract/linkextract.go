/*
Responsibilities
- Enumerate anchor hrefs from a parsed document
- Resolve each against the page's own URL, not the site base
- Reject anything out of scope: off-origin, fragment-bearing,
  exclude-pattern matches, or known binary/asset paths

Returns a deduplicated set in DOM order.
*/
package linkextract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/llmsforge/ingest/pkg/urlutil"
)

var assetExtensions = []string{
	".pdf", ".zip", ".tar", ".gz", ".png", ".jpg", ".gif", ".svg",
	".ico", ".json", ".xml", ".js", ".css",
}

var assetPathPrefixes = []string{
	"/assets/", "/static/", "/images/", "/img/", "/js/", "/css/",
}

// ExcludeMatcher is satisfied by config.SiteConfig's exclude-pattern check.
type ExcludeMatcher interface {
	MatchesExcludePattern(path string) bool
}

// Extract enumerates every in-scope link reachable from doc, which was
// fetched at pageURL.
func Extract(doc *html.Node, pageURL url.URL, siteBase url.URL, excludes ExcludeMatcher) []url.URL {
	gqDoc := goquery.NewDocumentFromNode(doc)

	seen := make(map[string]bool)
	var out []url.URL

	gqDoc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if ref.Fragment != "" {
			return
		}

		resolved, err := urlutil.ResolveAgainst(pageURL, href)
		if err != nil {
			return
		}

		if !urlutil.SameOrigin(resolved, siteBase) {
			return
		}
		if isAssetPath(resolved.Path) {
			return
		}
		if excludes != nil && excludes.MatchesExcludePattern(resolved.Path) {
			return
		}

		key := resolved.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, resolved)
	})

	return out
}

func isAssetPath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, prefix := range assetPathPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
