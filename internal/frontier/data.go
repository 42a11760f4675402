package frontier

/*
 Frontier - manages per-site crawl state & ordering
*/

import (
	"net/url"
)

// CrawlToken
// Frontier-issued, per-URL crawl token.
// It represents: "This URL, at this depth, is next to visit."
// It contains no semantic policy decisions, only ordering + depth metadata.
type CrawlToken struct {
	url   url.URL
	depth int
}

func NewCrawlToken(u url.URL, depth int) CrawlToken {
	return CrawlToken{
		url:   u,
		depth: depth,
	}
}

func (c *CrawlToken) URL() url.URL {
	return c.url
}

func (c *CrawlToken) Depth() int {
	return c.depth
}
