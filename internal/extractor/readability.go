package extractor

import (
	"bytes"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

// tryReadability runs the generic article-detection pass and sanitizes
// the node it produces straight to text. A false return means
// readability produced no node, or its text was empty or shorter than
// minWordCountForSuccess words; it is not an error.
func (d *DomExtractor) tryReadability(htmlByte []byte) (string, bool) {
	parser := readability.NewParser()

	article, err := parser.Parse(bytes.NewReader(htmlByte), nil)
	if err != nil || article.Node == nil {
		return "", false
	}

	text := d.sanitizeNode(article.Node)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if countWords(text) < minWordCountForSuccess {
		return "", false
	}
	return text, true
}
