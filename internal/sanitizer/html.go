/*
Responsibilities
- Strip executable constructs from untrusted markup
- Preserve a bounded set of structural cues as plain-text punctuation
- Decode entities and scrub unsafe token fragments
- Guarantee idempotence: sanitizing sanitized output is a no-op

This is the trust boundary: its output is what gets persisted and
ultimately fed to a language model.
*/
package sanitizer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/pkg/failure"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type HtmlSanitizer struct {
	metadataSink metadata.MetadataSink
}

func NewHTMLSanitizer(metadataSink metadata.MetadataSink) HtmlSanitizer {
	return HtmlSanitizer{metadataSink: metadataSink}
}

var removedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Applet: true,
	atom.Form:   true,
	atom.Input:  true,
	atom.Button: true,
	atom.Select: true,
}

// strippedTags render their inner text but drop the container itself;
// this is the default for any tag not otherwise listed, so the set
// below only documents the names the specification calls out.
var strippedTags = map[atom.Atom]bool{
	atom.Nav:    true,
	atom.Header: true,
	atom.Footer: true,
	atom.Aside:  true,
	atom.Div:    true,
	atom.Span:   true,
	atom.Strong: true,
	atom.B:      true,
	atom.Em:     true,
	atom.I:      true,
	atom.U:      true,
	atom.Mark:   true,
	atom.Small:  true,
	atom.Sub:    true,
	atom.Sup:    true,
}

func (h *HtmlSanitizer) Sanitize(inputContentNode *html.Node) (SanitizedText, failure.ClassifiedError) {
	sanitized, err := sanitize(inputContentNode)
	if err != nil {
		var sanitizationError *SanitizationError
		errors.As(err, &sanitizationError)
		h.metadataSink.RecordError(
			time.Now(),
			"sanitizer",
			"HtmlSanitizer.Sanitize",
			mapSanitizationErrorToMetadataCause(sanitizationError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrField, string(sanitizationError.Cause)),
			},
		)
		return SanitizedText{}, sanitizationError
	}
	return sanitized, nil
}

func sanitize(doc *html.Node) (SanitizedText, *SanitizationError) {
	if doc == nil {
		return SanitizedText{}, &SanitizationError{
			Message: "input node is nil",
			Cause:   ErrCauseEmptyInput,
		}
	}

	var b strings.Builder
	renderNode(&b, doc)

	text := b.String()
	text = decodeEntities(text)
	text = scrubUnsafeTokens(text)
	text = normalizeWhitespace(text)

	return SanitizedText{text: text}, nil
}

// ScrubText re-applies the safety-scrub and whitespace rules of §4.3
// to already-extracted plain text, for the Validator's
// sanitize-and-retry path where no DOM is available anymore.
func ScrubText(text string) string {
	return normalizeWhitespace(scrubUnsafeTokens(text))
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		b.WriteString(n.Data)
		return
	}

	if n.Type == html.ElementNode && removedTags[n.DataAtom] {
		return
	}

	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			renderChildren(b, n)
			b.WriteString("\n\n")
			return
		case atom.P:
			renderChildren(b, n)
			b.WriteString("\n\n")
			return
		case atom.Li:
			b.WriteString("- ")
			renderChildren(b, n)
			b.WriteString("\n")
			return
		case atom.Blockquote:
			var inner strings.Builder
			renderChildren(&inner, n)
			for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
				b.WriteString("> ")
				b.WriteString(line)
				b.WriteString("\n")
			}
			return
		case atom.Hr:
			b.WriteString("\n---\n")
			return
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Pre:
			b.WriteString("```\n")
			b.WriteString(rawText(n))
			b.WriteString("\n```\n\n")
			return
		}
	}

	renderChildren(b, n)
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
}

// rawText concatenates a node's text content verbatim, preserving
// internal whitespace, for fenced code blocks.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Trim(b.String(), "\n")
}

var namedEntities = map[string]string{
	"nbsp":   " ",
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   "\"",
	"apos":   "'",
	"hellip": "…",
	"mdash":  "—",
	"ndash":  "–",
	"lsquo":  "‘",
	"rsquo":  "’",
	"ldquo":  "“",
	"rdquo":  "”",
	"para":   "",
}

var entityRefPattern = regexp.MustCompile(`&(#x[0-9a-fA-F]+|#[0-9]+|[a-zA-Z]+);`)

// decodeEntities maps the canonical named entities and numeric
// references to their characters; any remaining entity reference
// collapses to a single space.
func decodeEntities(s string) string {
	return entityRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[1 : len(match)-1]
		if strings.HasPrefix(inner, "#x") || strings.HasPrefix(inner, "#X") {
			if v, err := strconv.ParseInt(inner[2:], 16, 32); err == nil {
				return string(rune(v))
			}
			return " "
		}
		if strings.HasPrefix(inner, "#") {
			if v, err := strconv.ParseInt(inner[1:], 10, 32); err == nil {
				return string(rune(v))
			}
			return " "
		}
		if repl, ok := namedEntities[inner]; ok {
			return repl
		}
		return " "
	})
}

var unsafeTokens = []string{
	"javascript:",
	"eval(",
	"Function(",
	"setTimeout(",
	"setInterval(",
	"document.",
	"window.",
	".innerHTML",
	"alert(",
}

var eventHandlerAttr = regexp.MustCompile(`\bon[a-zA-Z]+\s*=`)

// scrubUnsafeTokens removes a fixed list of executable-looking tokens
// from text outside fenced code blocks, so that legitimate
// documentation of these tokens inside a code sample survives.
func scrubUnsafeTokens(s string) string {
	segments := strings.Split(s, "```")
	for i := range segments {
		if i%2 == 1 {
			continue // inside a fence
		}
		seg := segments[i]
		for _, tok := range unsafeTokens {
			seg = strings.ReplaceAll(seg, tok, "")
		}
		seg = eventHandlerAttr.ReplaceAllString(seg, "")
		segments[i] = seg
	}
	return strings.Join(segments, "```")
}

var spaceTabRun = regexp.MustCompile(`[ \t]+`)
var blankLineRun = regexp.MustCompile(`\n{3,}`)

// normalizeWhitespace collapses runs of spaces/tabs, caps consecutive
// blank lines at one, and trims trailing whitespace per line, while
// preserving paragraph breaks. Lines inside fenced code blocks, and the
// fence lines themselves, keep their spaces and tabs; the blank-line cap
// still applies to them.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	inFence := false
	for i, line := range lines {
		togglesFence := strings.Count(line, "```")%2 == 1
		if !inFence && !togglesFence {
			lines[i] = strings.TrimRight(spaceTabRun.ReplaceAllString(line, " "), " \t")
		}
		if togglesFence {
			inFence = !inFence
		}
	}
	joined := strings.Join(lines, "\n")
	joined = blankLineRun.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
