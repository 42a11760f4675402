package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SiteConfig is immutable per run. It describes one documentation site's
// crawl boundary, selectors, and entry points.
type SiteConfig struct {
	key              string
	displayName      string
	baseURL          url.URL
	maxDepth         int
	maxPages         int
	selectorsTitle   []string
	selectorsContent []string
	excludePatterns  []excludePattern
	seedPaths        []string
	singleFile       bool
	fileURL          string
}

// excludePattern pairs the compiled regexp with its original source so
// fingerprinting can canonicalize on the authored string rather than an
// unstable compiled representation.
type excludePattern struct {
	source   string
	compiled *regexp.Regexp
}

const (
	DefaultMaxDepth = 3
	DefaultMaxPages = 100
)

// WithDefault seeds a SiteConfig builder with sane defaults for the
// given key and display name; BaseURL, SeedPaths (or fileUrl) must still
// be supplied before Build.
func WithDefault(key, displayName string) *SiteConfig {
	return &SiteConfig{
		key:         key,
		displayName: displayName,
		maxDepth:    DefaultMaxDepth,
		maxPages:    DefaultMaxPages,
	}
}

func (c *SiteConfig) WithBaseURL(u url.URL) *SiteConfig {
	c.baseURL = u
	return c
}

func (c *SiteConfig) WithMaxDepth(depth int) *SiteConfig {
	c.maxDepth = depth
	return c
}

func (c *SiteConfig) WithMaxPages(pages int) *SiteConfig {
	c.maxPages = pages
	return c
}

func (c *SiteConfig) WithSelectorsTitle(selectors []string) *SiteConfig {
	c.selectorsTitle = selectors
	return c
}

func (c *SiteConfig) WithSelectorsContent(selectors []string) *SiteConfig {
	c.selectorsContent = selectors
	return c
}

func (c *SiteConfig) WithSeedPaths(paths []string) *SiteConfig {
	c.seedPaths = paths
	return c
}

func (c *SiteConfig) WithSingleFile(fileURL string) *SiteConfig {
	c.singleFile = true
	c.fileURL = fileURL
	return c
}

// WithExcludePatterns accepts raw `/body/flags` strings per §9 and
// compiles them, rejecting any flag outside the portable `g i m u y`
// subset.
func (c *SiteConfig) WithExcludePatterns(patterns []string) (*SiteConfig, error) {
	compiled := make([]excludePattern, 0, len(patterns))
	for _, p := range patterns {
		body, flags, err := parsePatternLiteral(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidExcludePattern, p, err.Error())
		}
		goExpr, err := toGoRegexp(body, flags)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidExcludePattern, p, err.Error())
		}
		re, err := regexp.Compile(goExpr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidExcludePattern, p, err.Error())
		}
		compiled = append(compiled, excludePattern{source: p, compiled: re})
	}
	c.excludePatterns = compiled
	return c, nil
}

func (c *SiteConfig) Build() (SiteConfig, error) {
	if c.baseURL.Scheme == "" || c.baseURL.Host == "" {
		return SiteConfig{}, ErrInvalidBaseURL
	}
	if !c.singleFile && len(c.seedPaths) == 0 {
		return SiteConfig{}, ErrNoSeeds
	}
	if len(c.selectorsTitle) == 0 {
		c.selectorsTitle = []string{"h1", "title"}
	}
	if len(c.selectorsContent) == 0 {
		c.selectorsContent = []string{"main", "article", ".content"}
	}
	return *c, nil
}

func (c SiteConfig) Key() string                { return c.key }
func (c SiteConfig) DisplayName() string        { return c.displayName }
func (c SiteConfig) BaseURL() url.URL           { return c.baseURL }
func (c SiteConfig) MaxDepth() int              { return c.maxDepth }
func (c SiteConfig) MaxPages() int              { return c.maxPages }
func (c SiteConfig) SelectorsTitle() []string   { return append([]string{}, c.selectorsTitle...) }
func (c SiteConfig) SelectorsContent() []string { return append([]string{}, c.selectorsContent...) }
func (c SiteConfig) SeedPaths() []string        { return append([]string{}, c.seedPaths...) }
func (c SiteConfig) IsSingleFile() bool         { return c.singleFile }
func (c SiteConfig) FileURL() string            { return c.fileURL }

// ExcludePatternSources returns the original `/body/flags` strings, in
// authored order, for fingerprint canonicalization.
func (c SiteConfig) ExcludePatternSources() []string {
	out := make([]string, len(c.excludePatterns))
	for i, p := range c.excludePatterns {
		out[i] = p.source
	}
	return out
}

// MatchesExcludePattern reports whether path matches any configured
// exclude pattern.
func (c SiteConfig) MatchesExcludePattern(path string) bool {
	for _, p := range c.excludePatterns {
		if p.compiled.MatchString(path) {
			return true
		}
	}
	return false
}

// parsePatternLiteral splits a `/body/flags` literal into its body and
// flag characters.
func parsePatternLiteral(literal string) (body, flags string, err error) {
	if !strings.HasPrefix(literal, "/") {
		return "", "", fmt.Errorf("pattern must be of the form /body/flags")
	}
	lastSlash := strings.LastIndex(literal, "/")
	if lastSlash <= 0 {
		return "", "", fmt.Errorf("pattern must be of the form /body/flags")
	}
	return literal[1:lastSlash], literal[lastSlash+1:], nil
}

// toGoRegexp translates the portable `g i m u y` flag subset (§9) into
// Go's inline flag syntax. `g` and `y` have no Go regexp equivalent
// (global-match and sticky are call-site behaviors, not compile flags)
// and are accepted but dropped; `u` is Go's default and also dropped.
func toGoRegexp(body, flags string) (string, error) {
	var goFlags []byte
	for _, f := range flags {
		switch f {
		case 'g', 'u', 'y':
			continue
		case 'i':
			goFlags = append(goFlags, 'i')
		case 'm':
			goFlags = append(goFlags, 'm')
		default:
			return "", fmt.Errorf("unsupported regex flag %q", string(f))
		}
	}
	if len(goFlags) == 0 {
		return body, nil
	}
	return fmt.Sprintf("(?%s)%s", string(goFlags), body), nil
}
