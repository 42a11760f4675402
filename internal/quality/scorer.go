package quality

import (
	"math"
	"regexp"
	"strings"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)
var codeFencePattern = regexp.MustCompile("```")
var headingLinePattern = regexp.MustCompile(`(?m)^(#{1,6}) `)
var listItemLinePattern = regexp.MustCompile(`(?m)^- `)
var linkLikePattern = regexp.MustCompile(`https?://`)

var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bfunc\s+\w+\s*\(`),
	regexp.MustCompile(`\bfunction\s+\w+\s*\(`),
	regexp.MustCompile(`\bclass\s+\w+`),
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`\b(js|ts|py|rs|cpp|c)\b`),
	regexp.MustCompile(`\.\w{2,4}\b`),
	regexp.MustCompile(`\b\w+_\w+\b`),
}

var boilerplateTerms = []string{"click here", "subscribe", "advertisement", "sponsored", "cookie"}

// Score computes the weighted composite quality score over already
// sanitized, Markdown-shaped plain text (headings as `# `, list items
// as `- `, code fences as ``` pairs — the Sanitizer's output shape).
func Score(text string, param Param) Result {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < param.MinLength {
		return Result{Label: "poor", Reason: "too short"}
	}

	r := readabilityScore(trimmed)
	c := completenessScore(trimmed)
	t := technicalScore(trimmed)
	s := structureScore(trimmed)

	if param.RequireTechnical && t < 0.2 {
		return Result{R: r, C: c, T: t, S: s, Label: "poor", Reason: "technical content required"}
	}

	overall := clamp01(weightR*r + weightC*c + weightT*t + weightS*s)
	return Result{Overall: overall, R: r, C: c, T: t, S: s, Label: label(overall)}
}

func words(text string) []string {
	return strings.Fields(text)
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitPattern.Split(text, -1) {
		if len(strings.TrimSpace(s)) > 5 {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func readabilityScore(text string) float64 {
	w := words(text)
	wc := len(w)
	sn := sentences(text)

	var lengthScore float64
	if wc >= 200 {
		lengthScore = 1.0
	} else {
		lengthScore = float64(wc) / 200.0
	}

	var sentenceLenScore float64
	if len(sn) > 0 {
		avg := float64(wc) / float64(len(sn))
		diff := math.Abs(avg - 15)
		sentenceLenScore = clamp01(1 - diff/15)
		if avg > 30 {
			sentenceLenScore -= (avg - 30) / 30
		}
	}
	sentenceLenScore = clamp01(sentenceLenScore)

	base := (lengthScore + sentenceLenScore) / 2

	unique := make(map[string]bool, len(w))
	for _, word := range w {
		unique[strings.ToLower(word)] = true
	}
	var diversity float64
	if wc > 0 {
		diversity = float64(len(unique)) / float64(wc)
	}
	base += 0.3 * diversity

	seen := make(map[string]int, len(sn))
	repeated := false
	for _, sent := range sn {
		seen[sent]++
		if seen[sent] > 2 {
			repeated = true
		}
	}
	if repeated {
		base -= 0.3
	}

	return clamp01(base)
}

func completenessScore(text string) float64 {
	score := 0.0

	paragraphs := strings.Count(strings.TrimSpace(text), "\n\n") + 1
	if paragraphs >= 2 {
		score += 0.25
	}
	if headingLinePattern.MatchString(text) {
		score += 0.15
	}
	if listItemLinePattern.MatchString(text) {
		score += 0.10
	}
	if codeFencePattern.MatchString(text) {
		score += 0.15
	}
	if linkLikePattern.MatchString(text) {
		score += 0.05
	}

	informative, boilerplate := 0, 0
	lower := strings.ToLower(text)
	for _, term := range boilerplateTerms {
		boilerplate += strings.Count(lower, term)
	}
	informative = len(words(text))
	if informative+boilerplate > 0 {
		score += 0.3 * float64(informative) / float64(informative+boilerplate*20)
	}

	trimmed := strings.TrimRight(text, " \n")
	if strings.HasSuffix(trimmed, "…") || strings.HasSuffix(trimmed, "[...]") ||
		strings.HasSuffix(strings.ToLower(trimmed), "read more") {
		score -= 0.1
	}
	if strings.Count(text, "```")%2 != 0 {
		score -= 0.1
	}

	return clamp01(score)
}

func technicalScore(text string) float64 {
	matches := 0
	for _, pattern := range technicalPatterns {
		matches += len(pattern.FindAllString(text, -1))
	}
	if len(text) == 0 {
		return 0
	}
	normalized := float64(matches) / (float64(len(text)) / 200.0)
	return clamp01(normalized / 5.0)
}

func structureScore(text string) float64 {
	score := 0.0

	headings := headingLinePattern.FindAllStringSubmatch(text, -1)
	if len(headings) > 0 {
		score += 0.25
	}
	if listItemLinePattern.MatchString(text) {
		score += 0.2
	}

	fenceCount := strings.Count(text, "```")
	if fenceCount > 0 && fenceCount%2 == 0 {
		score += 0.2
	}
	if strings.Contains(text, "\n\n") {
		score += 0.15
	}

	if len(headings) > 0 {
		prevLevel := 0
		hierarchyOK := true
		for _, h := range headings {
			level := len(h[1])
			if prevLevel != 0 && level > prevLevel+1 {
				hierarchyOK = false
				break
			}
			prevLevel = level
		}
		if hierarchyOK {
			score += 0.2
		}
	}

	if fenceCount%2 != 0 {
		score -= 0.3
	}

	return clamp01(score)
}
