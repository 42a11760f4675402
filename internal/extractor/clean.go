package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// mojibakeFixups repairs the small set of UTF-8-decoded-as-Latin-1
// sequences that show up often enough in scraped documentation pages
// to be worth a direct table rather than a general recoding pass.
var mojibakeFixups = map[string]string{
	"Ã©": "é", "Ã¨": "è", "Ã¼": "ü", "Ã¶": "ö", "Ã¤": "ä",
	"â€™": "’", "â€œ": "“", "â€\x9d": "”", "â€“": "–", "â€”": "—",
	"Â ": " ",
}

var boilerplatePhrases = []string{
	"scroll for more",
	"accept cookies",
	"we use cookies",
	"privacy policy",
	"terms of service",
	"terms and conditions",
	"loading...",
}

var videoPlayerPhrases = []string{
	"your browser does not support the video tag",
	"your browser does not support html5 video",
	"your browser doesn't support embedded videos",
}

var emphasisMarkdownPattern = regexp.MustCompile("(\\*\\*|__|\\*|_|`)")

// cleanText applies the cleaning pipeline: NFC normalization and
// mojibake fixups, dropping every line that contains a boilerplate or
// video-player phrase,
// emphasis-markdown stripping (code-fence regions protected), and a
// final whitespace normalization pass. Structural conversion and
// entity decoding already happened inside the Sanitizer.
func cleanText(text string) string {
	text = norm.NFC.String(text)
	for broken, fixed := range mojibakeFixups {
		text = strings.ReplaceAll(text, broken, fixed)
	}

	text = removePhrasesCaseInsensitive(text, boilerplatePhrases)
	text = removePhrasesCaseInsensitive(text, videoPlayerPhrases)

	text = stripEmphasisMarkdown(text)

	return normalizeWhitespaceText(text)
}

func removePhrasesCaseInsensitive(text string, phrases []string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(line)
		drop := false
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// stripEmphasisMarkdown removes markdown emphasis punctuation outside
// fenced code blocks, leaving fenced content verbatim.
func stripEmphasisMarkdown(text string) string {
	segments := strings.Split(text, "```")
	for i := range segments {
		if i%2 == 1 {
			continue
		}
		segments[i] = emphasisMarkdownPattern.ReplaceAllString(segments[i], "")
	}
	return strings.Join(segments, "```")
}

var spaceTabRunExtractor = regexp.MustCompile(`[ \t]+`)
var blankLineRunExtractor = regexp.MustCompile(`\n{3,}`)

func normalizeWhitespaceText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(spaceTabRunExtractor.ReplaceAllString(line, " "), " \t")
	}
	joined := strings.Join(lines, "\n")
	joined = blankLineRunExtractor.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
