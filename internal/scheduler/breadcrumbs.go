package scheduler

import (
	"net/url"
	"path"
	"strings"
)

// breadcrumbsFromPath derives human-readable tokens from a URL's path
// segments, e.g. "/guide/install-arweave.html" -> ["Guide", "Install
// Arweave"].
func breadcrumbsFromPath(u url.URL) []string {
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return nil
	}

	segments := strings.Split(trimmed, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSuffix(seg, path.Ext(seg))
		seg = strings.ReplaceAll(seg, "-", " ")
		seg = strings.ReplaceAll(seg, "_", " ")
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		out = append(out, titleCaseWords(seg))
	}
	return out
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func pathSegmentCount(p string) int {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// truncateDescription takes the first ~200 characters of text and
// appends an ellipsis if it was cut short, per §3's PageRecord
// description invariant.
func truncateDescription(text string) string {
	const limit = 200
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= limit {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func isNotFoundByContent(title, text string) bool {
	lowerTitle := strings.ToLower(title)
	if strings.Contains(lowerTitle, "404") || strings.Contains(lowerTitle, "not found") {
		return true
	}
	trimmedText := strings.TrimSpace(text)
	if len(trimmedText) < 200 && strings.Contains(strings.ToLower(trimmedText), "404") {
		return true
	}
	return false
}
