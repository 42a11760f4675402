package config

import (
	"encoding/json"
	"sort"

	"github.com/llmsforge/ingest/pkg/hashutil"
)

// canonicalSiteConfig is the stable, sort-normalized serialization of a
// SiteConfig used only for fingerprinting. Field order is fixed by the
// struct, and every array-valued field is sorted, per §3's "arrays
// sorted" canonicalization rule.
type canonicalSiteConfig struct {
	Key              string   `json:"key"`
	DisplayName      string   `json:"displayName"`
	BaseURL          string   `json:"baseUrl"`
	MaxDepth         int      `json:"maxDepth"`
	MaxPages         int      `json:"maxPages"`
	SelectorsTitle   []string `json:"selectorsTitle"`
	SelectorsContent []string `json:"selectorsContent"`
	ExcludePatterns  []string `json:"excludePatterns"`
	SeedPaths        []string `json:"seedPaths"`
	SingleFile       bool     `json:"singleFile"`
	FileURL          string   `json:"fileUrl"`
}

func canonicalize(key string, site SiteConfig) canonicalSiteConfig {
	title := site.SelectorsTitle()
	sort.Strings(title)
	content := site.SelectorsContent()
	sort.Strings(content)
	excludes := site.ExcludePatternSources()
	sort.Strings(excludes)
	seeds := site.SeedPaths()
	sort.Strings(seeds)

	return canonicalSiteConfig{
		Key:              key,
		DisplayName:      site.DisplayName(),
		BaseURL:          site.BaseURL().String(),
		MaxDepth:         site.MaxDepth(),
		MaxPages:         site.MaxPages(),
		SelectorsTitle:   title,
		SelectorsContent: content,
		ExcludePatterns:  excludes,
		SeedPaths:        seeds,
		SingleFile:       site.IsSingleFile(),
		FileURL:          site.FileURL(),
	}
}

// Fingerprint computes the ConfigFingerprint: an 8-hex-character BLAKE3
// digest over the canonicalized serialization of every site in the set,
// in sorted key order. This is the cache key for the persisted index;
// any observable change to any site's configuration changes it.
func (c ConfigSet) Fingerprint() (string, error) {
	keys := c.Keys()
	canonical := make([]canonicalSiteConfig, 0, len(keys))
	for _, k := range keys {
		canonical = append(canonical, canonicalize(k, c.sites[k]))
	}

	payload, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	digest, err := hashutil.HashBytes(payload, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return "", err
	}
	return digest[:8], nil
}
