package extractor

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var genericTitlePattern = regexp.MustCompile(`(?i)^(|untitled document|index|home|get(ting)? started)$`)

// synthesizeTitleIfNeeded replaces an empty or generic title with one
// derived from the final URL path segment.
func synthesizeTitleIfNeeded(title string, sourceUrl url.URL) string {
	trimmed := strings.TrimSpace(title)
	if trimmed != "" && !genericTitlePattern.MatchString(trimmed) {
		return trimmed
	}
	return titleFromPath(sourceUrl)
}

func titleFromPath(sourceUrl url.URL) string {
	segment := path.Base(strings.TrimSuffix(sourceUrl.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return "Untitled"
	}
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	segment = strings.ReplaceAll(segment, "_", " ")
	segment = strings.ReplaceAll(segment, "-", " ")
	return titleCase(strings.TrimSpace(segment))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
