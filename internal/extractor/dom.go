package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/llmsforge/ingest/internal/metadata"
	"github.com/llmsforge/ingest/internal/sanitizer"
	"github.com/llmsforge/ingest/pkg/failure"
)

/*
Responsibilities
- Parse HTML into a DOM tree
- Isolate main documentation content
- Remove site chrome and noise

Extraction Strategy (first success wins; strategies 1-3 succeed only
with >= 50 words, the raw fallback accepts any non-empty text):
 1. Readability pass
 2. Semantic-selector extractor (canonical ordered list + exclude list)
 3. Per-site configured selectors
 4. Raw fallback (body text, enriched by weighted content scoring)

Every extraction run passes through the Sanitizer before scoring.
*/

const minWordCountForSuccess = 50

type DomExtractor struct {
	metadataSink metadata.MetadataSink
	sanitizer    sanitizer.Sanitizer
	params       ExtractParam
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
	htmlSanitizer sanitizer.Sanitizer,
	params ExtractParam,
) DomExtractor {
	return DomExtractor{
		metadataSink: metadataSink,
		sanitizer:    htmlSanitizer,
		params:       params,
	}
}

// Extract runs the strategy cascade over a fetched page. siteSelectorsTitle
// and siteSelectorsContent come from the page's SiteConfig and feed
// strategies that need per-site tuning.
func (d *DomExtractor) Extract(
	sourceUrl url.URL,
	htmlByte []byte,
	siteSelectorsTitle []string,
	siteSelectorsContent []string,
) (ExtractionResult, failure.ClassifiedError) {
	result, err := d.extract(htmlByte, siteSelectorsTitle, siteSelectorsContent)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"DomExtractor.Extract",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, sourceUrl.String()),
			},
		)
		return ExtractionResult{}, extractionError
	}

	result.Title = synthesizeTitleIfNeeded(result.Title, sourceUrl)
	result.Text = cleanText(result.Text)
	result.WordCount = countWords(result.Text)

	return result, nil
}

func (d *DomExtractor) extract(htmlByte []byte, titleSelectors, contentSelectors []string) (ExtractionResult, *ExtractionError) {
	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return ExtractionResult{}, &ExtractionError{
			Message: fmt.Sprintf("failed to parse HTML: %v", err),
			Cause:   ErrCauseUnparseableDOM,
		}
	}
	if !isValidHTML(doc) {
		return ExtractionResult{}, &ExtractionError{
			Message: "input is not a valid HTML document",
			Cause:   ErrCauseUnparseableDOM,
		}
	}

	title := d.extractTitle(doc, titleSelectors)

	if text, ok := d.tryReadability(htmlByte); ok {
		return ExtractionResult{Title: title, Text: text, ExtractionMethod: "readability"}, nil
	}

	if text, ok := d.trySemanticSelectors(doc); ok && countWords(text) >= minWordCountForSuccess {
		return ExtractionResult{Title: title, Text: text, ExtractionMethod: "semantic-selector"}, nil
	}

	if len(contentSelectors) > 0 {
		if text, ok := d.trySiteSelectors(doc, contentSelectors); ok && countWords(text) >= minWordCountForSuccess {
			return ExtractionResult{Title: title, Text: text, ExtractionMethod: "site-selector"}, nil
		}
	}

	text := d.rawFallback(doc)
	if strings.TrimSpace(text) == "" {
		return ExtractionResult{}, &ExtractionError{
			Message: "no meaningful content container found",
			Cause:   ErrCauseNoContent,
		}
	}
	return ExtractionResult{Title: title, Text: text, ExtractionMethod: "raw-fallback"}, nil
}

func (d *DomExtractor) sanitizeNode(n *html.Node) string {
	sanitized, err := d.sanitizer.Sanitize(n)
	if err != nil {
		return ""
	}
	return sanitized.String()
}

// trySemanticSelectors walks the canonical ordered list, preferring the
// framework-specific table the teacher built before falling to the
// generic container names, and strips the exclude-selector subtrees
// from whichever container matches first.
func (d *DomExtractor) trySemanticSelectors(doc *html.Node) (string, bool) {
	gqDoc := goquery.NewDocumentFromNode(doc)

	for _, selector := range getAllSelectors() {
		if sel := gqDoc.Find(selector).First(); sel.Length() > 0 {
			if node := sel.Nodes[0]; isMeaningful(node) {
				return d.renderContainer(node), true
			}
		}
	}

	for _, selector := range semanticSelectorOrder {
		if sel := gqDoc.Find(selector).First(); sel.Length() > 0 {
			if node := sel.Nodes[0]; isMeaningful(node) {
				return d.renderContainer(node), true
			}
		}
	}

	return "", false
}

func (d *DomExtractor) trySiteSelectors(doc *html.Node, selectors []string) (string, bool) {
	gqDoc := goquery.NewDocumentFromNode(doc)
	for _, selector := range selectors {
		selector = strings.TrimSpace(selector)
		if selector == "" {
			continue
		}
		if sel := gqDoc.Find(selector).First(); sel.Length() > 0 {
			return d.renderContainer(sel.Nodes[0]), true
		}
	}
	return "", false
}

// renderContainer clones the matched node, removes excluded chrome
// subtrees, and sanitizes the remainder to plain text.
func (d *DomExtractor) renderContainer(node *html.Node) string {
	clone := deepCloneNode(node)
	gq := goquery.NewDocumentFromNode(clone)
	for _, selector := range excludeSelectors {
		gq.Find(selector).Remove()
	}
	return d.sanitizeNode(clone)
}

func (d *DomExtractor) rawFallback(doc *html.Node) string {
	cleaned := removeExplicitChromes(doc)
	if cleaned != nil {
		if best := d.findBestContentContainer(cleaned); best != nil && isMeaningful(best) {
			return d.sanitizeNode(best)
		}
	}

	gqDoc := goquery.NewDocumentFromNode(doc)
	if body := gqDoc.Find("body").First(); body.Length() > 0 {
		return d.sanitizeNode(body.Nodes[0])
	}
	return d.sanitizeNode(doc)
}

func (d *DomExtractor) extractTitle(doc *html.Node, titleSelectors []string) string {
	gqDoc := goquery.NewDocumentFromNode(doc)
	for _, selector := range titleSelectors {
		selector = strings.TrimSpace(selector)
		if selector == "" {
			continue
		}
		if sel := gqDoc.Find(selector).First(); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	if sel := gqDoc.Find("title").First(); sel.Length() > 0 {
		return strings.TrimSpace(sel.Text())
	}
	return ""
}

// isValidHTML checks if the parsed document has a proper HTML structure
func isValidHTML(doc *html.Node) bool {
	var findHTML func(*html.Node) bool
	findHTML = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "html" {
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if findHTML(c) {
				return true
			}
		}
		return false
	}
	return findHTML(doc)
}

// deepCloneNode creates a deep copy of an html.Node
func deepCloneNode(node *html.Node) *html.Node {
	if node == nil {
		return nil
	}
	cloned := &html.Node{
		Type:      node.Type,
		DataAtom:  node.DataAtom,
		Data:      node.Data,
		Namespace: node.Namespace,
	}
	if len(node.Attr) > 0 {
		cloned.Attr = make([]html.Attribute, len(node.Attr))
		copy(cloned.Attr, node.Attr)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if clonedChild := deepCloneNode(child); clonedChild != nil {
			cloned.AppendChild(clonedChild)
		}
	}
	return cloned
}

var chromeElementNames = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true,
}

var chromeAttributeKeywords = []string{
	"nav", "sidebar", "menu", "breadcrumb",
	"search", "footer", "header", "cookie",
	"consent", "version", "language", "theme",
	"edit", "github",
}

func removeExplicitChromes(doc *html.Node) *html.Node {
	clonedDoc := deepCloneNode(doc)
	if clonedDoc == nil {
		return nil
	}
	removeChromeElements(clonedDoc)
	removeElementsWithChromeAttributes(clonedDoc)
	return clonedDoc
}

func removeChromeElements(root *html.Node) {
	var nodesToRemove []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && chromeElementNames[n.Data] {
			nodesToRemove = append(nodesToRemove, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)
	for _, node := range nodesToRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func removeElementsWithChromeAttributes(root *html.Node) {
	var nodesToRemove []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && hasChromeAttribute(n) {
			nodesToRemove = append(nodesToRemove, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)
	for _, node := range nodesToRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func hasChromeAttribute(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			lowerValue := strings.ToLower(attr.Val)
			for _, keyword := range chromeAttributeKeywords {
				if strings.Contains(lowerValue, keyword) {
					return true
				}
			}
		}
	}
	return false
}

func (d *DomExtractor) findBestContentContainer(doc *html.Node) *html.Node {
	candidates := collectCandidateNodes(doc)
	if len(candidates) == 0 {
		return nil
	}

	scores := make(map[*html.Node]float64)
	var bodyNode *html.Node
	var bodyScore float64
	for _, candidate := range candidates {
		score := calculateContentScore(candidate, d.params.LinkDensityThreshold)
		scores[candidate] = score
		if candidate.Data == "body" {
			bodyNode = candidate
			bodyScore = score
		}
	}

	var bestNode *html.Node
	var bestScore float64
	for node, score := range scores {
		if score > bestScore {
			bestScore = score
			bestNode = node
		}
	}

	if bestNode == bodyNode && bodyNode != nil {
		for node, score := range scores {
			if node == bodyNode {
				continue
			}
			if score >= d.params.BodySpecificityBias*bodyScore && score > bestScore*0.9 {
				bestNode = node
				bestScore = score
				break
			}
		}
	}

	return bestNode
}

func collectCandidateNodes(root *html.Node) []*html.Node {
	var candidates []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div", "section", "body":
				candidates = append(candidates, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)
	return candidates
}

func calculateContentScore(node *html.Node, linkDensityThreshold float64) float64 {
	var stats struct {
		nonWhitespace int
		paragraphs    int
		headings      int
		codeBlocks    int
		listItems     int
		textLength    int
		linkTextLen   int
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		switch n.Type {
		case html.TextNode:
			stats.textLength += len(n.Data)
			for _, r := range n.Data {
				if !unicode.IsSpace(r) {
					stats.nonWhitespace++
				}
			}
		case html.ElementNode:
			switch n.Data {
			case "p":
				stats.paragraphs++
			case "h1", "h2", "h3":
				stats.headings++
			case "pre":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "code" {
						stats.codeBlocks++
						break
					}
				}
			case "code":
				if n.Parent == nil || n.Parent.Data != "pre" {
					stats.codeBlocks++
				}
			case "li":
				stats.listItems++
			case "a":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						stats.linkTextLen += len(strings.TrimSpace(c.Data))
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	score := float64(stats.nonWhitespace) / 50.0
	score += float64(stats.paragraphs) * 5.0
	score += float64(stats.headings) * 10.0
	score += float64(stats.codeBlocks) * 15.0
	score += float64(stats.listItems) * 2.0

	if stats.textLength > 0 {
		linkDensity := float64(stats.linkTextLen) / float64(stats.textLength)
		if linkDensity > linkDensityThreshold {
			score -= (linkDensity - linkDensityThreshold) * score
		}
	}
	return score
}

// isMeaningful rejects nodes that are empty or pure navigation.
func isMeaningful(node *html.Node) bool {
	if node == nil {
		return false
	}

	var stats struct {
		textLength     int
		nonWhitespace  int
		headings       int
		paragraphs     int
		codeBlocks     int
		links          int
		linkTextLength int
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		switch n.Type {
		case html.TextNode:
			stats.textLength += len(n.Data)
			for _, r := range n.Data {
				if !unicode.IsSpace(r) {
					stats.nonWhitespace++
				}
			}
		case html.ElementNode:
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				stats.headings++
			case "p":
				stats.paragraphs++
			case "pre":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "code" {
						stats.codeBlocks++
						break
					}
				}
			case "code":
				stats.codeBlocks++
			case "a":
				stats.links++
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						stats.linkTextLength += len(strings.TrimSpace(c.Data))
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	const minNonWhitespace = 50
	const maxLinkDensity = 0.8

	if stats.nonWhitespace < minNonWhitespace {
		return false
	}
	if stats.textLength > 0 {
		linkDensity := float64(stats.linkTextLength) / float64(stats.textLength)
		if linkDensity > maxLinkDensity && stats.links > 2 {
			return false
		}
	}

	hasContent := stats.paragraphs >= 1 || stats.codeBlocks >= 1
	hasHeadingsWithText := stats.headings > 0 && stats.nonWhitespace >= 20
	return hasContent || hasHeadingsWithText
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
