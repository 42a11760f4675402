/*
Responsibilities
- Define the persisted Index document shape (§6 "Persisted index format")
- Define PageRecord, the one per-page artifact retained across runs

Index never stores full page content: PageRecord is re-fetched on
demand by the bundle generator (§6 "Bundle output format").
*/
package index

import "time"

// PageRecord is the durable, per-page artifact. It never stores full
// content — estimatedWords and description are the only content-derived
// fields retained across runs.
type PageRecord struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedWords int      `json:"estimatedWords"`
	LastModified   string   `json:"lastModified"`
	Breadcrumbs    []string `json:"breadcrumbs"`
	SiteKey        string   `json:"siteKey"`
	SiteName       string   `json:"siteName"`
	Depth          int      `json:"depth"`
	CrawledAt      string   `json:"crawledAt"`
}

// SiteStats summarizes one site's completed crawl.
type SiteStats struct {
	TotalPages          int     `json:"totalPages"`
	AverageWords        float64 `json:"averageWords"`
	DurationMs          int64   `json:"duration"`
	RequestCount        int     `json:"requestCount"`
	AverageResponseTime float64 `json:"averageResponseTime"`
	PagesPerSecond      float64 `json:"pagesPerSecond"`
}

// SiteIndex is one site's entry under Index.Sites.
type SiteIndex struct {
	Name        string       `json:"name"`
	BaseURL     string       `json:"baseUrl"`
	Pages       []PageRecord `json:"pages"`
	LastCrawled string       `json:"lastCrawled"`
	Stats       SiteStats    `json:"stats"`
}

// Index is the full persisted document (§6).
type Index struct {
	Generated  string               `json:"generated"`
	ConfigHash string               `json:"configHash"`
	Sites      map[string]SiteIndex `json:"sites"`
}

// Empty returns a zero-page Index stamped with configHash, used both as
// the cold-start value and as the substitute returned by Load when a
// stored configHash doesn't match the current run's fingerprint.
func Empty(configHash string, generated time.Time) Index {
	return Index{
		Generated:  generated.UTC().Format(time.RFC3339),
		ConfigHash: configHash,
		Sites:      make(map[string]SiteIndex),
	}
}
