package validator

// DetectionResult counts hits per detector class; Severity buckets
// the total for reporting.
type DetectionResult struct {
	Counts   map[string]int
	Total    int
	Severity string
}

func (d DetectionResult) HasAny() bool { return d.Total > 0 }

// ThresholdResult is the outcome of the §4.6 minimums gate.
type ThresholdResult struct {
	Passed        bool
	PassedChecks  int
	TotalChecks   int
	JSContentSeen bool
}

// Report is the full validation outcome, including whether the
// sanitize-and-retry path fired.
type Report struct {
	Detection         DetectionResult
	Threshold         ThresholdResult
	Passed            bool
	SanitizedApplied  bool
	ByteReductionPct  float64
}

// Thresholds are the §4.6 default minimums.
type Thresholds struct {
	MinLength           int
	MinWords            int
	MinSentences        int
	MinLexicalDiversity float64
	MinReadability      float64
	MaxJSContentRatio   float64
	MinParagraphs       int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinLength:           100,
		MinWords:            20,
		MinSentences:        2,
		MinLexicalDiversity: 0.3,
		MinReadability:      0.4,
		MaxJSContentRatio:   0.05,
		MinParagraphs:       1,
	}
}
