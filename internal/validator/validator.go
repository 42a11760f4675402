/*
Responsibilities
- Detect residual executable content the Sanitizer may have missed
- Gate pages on a fixed set of quality minimums
- Give a sanitize-and-retry path one more chance before rejecting a page

The Validator never talks to the network; it operates purely on
already-extracted text.
*/
package validator

import (
	"regexp"
	"strings"

	"github.com/llmsforge/ingest/internal/quality"
	"github.com/llmsforge/ingest/internal/sanitizer"
)

var detectors = map[string]*regexp.Regexp{
	"script_block":     regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	"event_handler":     regexp.MustCompile(`\bon[a-zA-Z]+\s*=\s*["']`),
	"javascript_url":    regexp.MustCompile(`javascript:`),
	"eval_call":         regexp.MustCompile(`eval\s*\(`),
	"top_level_function": regexp.MustCompile(`(?m)^\s*(function|var|let|const)\s+\w+\s*\(`),
	"console_call":      regexp.MustCompile(`console\.\w+\s*\(`),
	"alert_call":        regexp.MustCompile(`alert\s*\(`),
	"document_write":    regexp.MustCompile(`document\.write\s*\(`),
	"inner_html_assign":  regexp.MustCompile(`\.innerHTML\s*=`),
}

// Detect scans text for residual executable markers.
func Detect(text string) DetectionResult {
	counts := make(map[string]int, len(detectors))
	total := 0
	for name, pattern := range detectors {
		n := len(pattern.FindAllString(text, -1))
		counts[name] = n
		total += n
	}

	severity := "none"
	switch {
	case total >= 10:
		severity = "high"
	case total >= 5:
		severity = "medium"
	case total > 0:
		severity = "low"
	}

	return DetectionResult{Counts: counts, Total: total, Severity: severity}
}

var wordSplit = regexp.MustCompile(`\s+`)
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// CheckThresholds evaluates the §4.6 minimums and reports the pass
// ratio; a page passes when ≥70% of applicable checks pass and no
// JavaScript was detected.
func CheckThresholds(text string, detection DetectionResult, thresholds Thresholds) ThresholdResult {
	words := wordSplit.Split(strings.TrimSpace(text), -1)
	if text == "" {
		words = nil
	}
	wordCount := len(words)

	var sentenceCount int
	for _, s := range sentenceSplit.Split(text, -1) {
		if len(strings.TrimSpace(s)) > 0 {
			sentenceCount++
		}
	}

	unique := make(map[string]bool, wordCount)
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	var lexicalDiversity float64
	if wordCount > 0 {
		lexicalDiversity = float64(len(unique)) / float64(wordCount)
	}

	readability := quality.Score(text, quality.DefaultParam()).R

	paragraphs := strings.Count(strings.TrimSpace(text), "\n\n") + 1
	if strings.TrimSpace(text) == "" {
		paragraphs = 0
	}

	var jsRatio float64
	if len(text) > 0 {
		jsRatio = float64(detection.Total*20) / float64(len(text))
	}

	checks := []bool{
		len(text) >= thresholds.MinLength,
		wordCount >= thresholds.MinWords,
		sentenceCount >= thresholds.MinSentences,
		lexicalDiversity >= thresholds.MinLexicalDiversity,
		readability >= thresholds.MinReadability,
		jsRatio <= thresholds.MaxJSContentRatio,
		paragraphs >= thresholds.MinParagraphs,
	}

	passedChecks := 0
	for _, ok := range checks {
		if ok {
			passedChecks++
		}
	}

	passed := float64(passedChecks)/float64(len(checks)) >= 0.7 && detection.Total == 0

	return ThresholdResult{
		Passed:        passed,
		PassedChecks:  passedChecks,
		TotalChecks:   len(checks),
		JSContentSeen: detection.Total > 0,
	}
}

// Validate runs detection and the threshold gate, and — if the
// detector fired but the underlying content still scores reasonably
// well — retries once after a text-level sanitize pass.
func Validate(text string, thresholds Thresholds) Report {
	detection := Detect(text)
	threshold := CheckThresholds(text, detection, thresholds)

	if !detection.HasAny() {
		return Report{Detection: detection, Threshold: threshold, Passed: threshold.Passed}
	}

	qualityIgnoringJS := quality.Score(text, quality.DefaultParam()).Overall
	if qualityIgnoringJS <= 0.5 {
		return Report{Detection: detection, Threshold: threshold, Passed: threshold.Passed}
	}

	originalLen := len(text)
	sanitizedText := sanitizer.ScrubText(text)
	reduction := 0.0
	if originalLen > 0 {
		reduction = 100 * float64(originalLen-len(sanitizedText)) / float64(originalLen)
	}

	retryDetection := Detect(sanitizedText)
	retryThreshold := CheckThresholds(sanitizedText, retryDetection, thresholds)

	return Report{
		Detection:        retryDetection,
		Threshold:        retryThreshold,
		Passed:           retryThreshold.Passed,
		SanitizedApplied: true,
		ByteReductionPct: reduction,
	}
}
