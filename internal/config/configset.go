package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
)

// ConfigSet is the full, run-scoped configuration: every site keyed by
// its config key, loaded once and treated as immutable thereafter.
type ConfigSet struct {
	sites map[string]SiteConfig
}

func NewConfigSet(sites map[string]SiteConfig) ConfigSet {
	return ConfigSet{sites: sites}
}

func (c ConfigSet) Sites() map[string]SiteConfig {
	out := make(map[string]SiteConfig, len(c.sites))
	for k, v := range c.sites {
		out[k] = v
	}
	return out
}

func (c ConfigSet) Site(key string) (SiteConfig, error) {
	site, ok := c.sites[key]
	if !ok {
		return SiteConfig{}, fmt.Errorf("%w: %s", ErrUnknownSite, key)
	}
	return site, nil
}

func (c ConfigSet) Keys() []string {
	keys := make([]string, 0, len(c.sites))
	for k := range c.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// selectorsDTO mirrors §6's `selectors.title` / `selectors.content`
// comma-separated-string input shape.
type selectorsDTO struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type siteConfigDTO struct {
	Name            string       `json:"name"`
	BaseURL         string       `json:"baseUrl"`
	MaxDepth        int          `json:"maxDepth,omitempty"`
	MaxPages        int          `json:"maxPages,omitempty"`
	Selectors       selectorsDTO `json:"selectors,omitempty"`
	ExcludePatterns []string     `json:"excludePatterns,omitempty"`
	SeedURLs        []string     `json:"seedUrls,omitempty"`
	Type            string       `json:"type,omitempty"`
	FileURL         string       `json:"fileUrl,omitempty"`
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			part := trimSpace(s[start:i])
			if part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}

func trimSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func newSiteConfigFromDTO(key string, dto siteConfigDTO) (SiteConfig, error) {
	base, err := url.Parse(dto.BaseURL)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("%w: %s", ErrInvalidBaseURL, err.Error())
	}

	builder := WithDefault(key, dto.Name).WithBaseURL(*base)
	if dto.MaxDepth != 0 {
		builder = builder.WithMaxDepth(dto.MaxDepth)
	}
	if dto.MaxPages != 0 {
		builder = builder.WithMaxPages(dto.MaxPages)
	}
	if dto.Selectors.Title != "" {
		builder = builder.WithSelectorsTitle(splitCommaList(dto.Selectors.Title))
	}
	if dto.Selectors.Content != "" {
		builder = builder.WithSelectorsContent(splitCommaList(dto.Selectors.Content))
	}
	builder = builder.WithSeedPaths(dto.SeedURLs)
	if dto.Type == "single-file" {
		builder = builder.WithSingleFile(dto.FileURL)
	}

	builderWithPatterns, err := builder.WithExcludePatterns(dto.ExcludePatterns)
	if err != nil {
		return SiteConfig{}, err
	}

	return builderWithPatterns.Build()
}

// WithConfigFile loads a JSON document keyed by site (§6 "Configuration
// input") from path and builds a ConfigSet.
func WithConfigFile(path string) (ConfigSet, error) {
	if _, err := os.Stat(path); err != nil {
		return ConfigSet{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ConfigSet{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var dtoSet map[string]siteConfigDTO
	if err := json.Unmarshal(raw, &dtoSet); err != nil {
		return ConfigSet{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	sites := make(map[string]SiteConfig, len(dtoSet))
	for key, dto := range dtoSet {
		site, err := newSiteConfigFromDTO(key, dto)
		if err != nil {
			return ConfigSet{}, fmt.Errorf("%w: site %q: %s", ErrInvalidConfig, key, err.Error())
		}
		sites[key] = site
	}
	return NewConfigSet(sites), nil
}
