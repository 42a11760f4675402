package config

import "os"

// RuntimeMode bundles the environment-derived switches named in §6
// ("Environment variables") into one value read once at process start,
// so downstream packages never read os.Getenv directly.
type RuntimeMode struct {
	MinifyIndex bool
	CI          bool
	DebugCrawl  bool
}

func RuntimeModeFromEnv() RuntimeMode {
	return RuntimeMode{
		MinifyIndex: envTrue("MINIFY_INDEX") || os.Getenv("NODE_ENV") == "production",
		CI:          envTrue("CI") || envTrue("GITHUB_ACTIONS"),
		DebugCrawl:  envTrue("DEBUG_CRAWL"),
	}
}

func envTrue(key string) bool {
	return os.Getenv(key) == "true"
}
