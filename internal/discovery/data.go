package discovery

import "net/url"

// HeadChecker issues a single HEAD request and returns the response
// status code; Validate accepts only 2xx codes. Discovery treats any
// error as a rejection, never as a hard failure.
type HeadChecker interface {
	Head(url url.URL) (statusCode int, err error)
}

const (
	maxCandidates    = 20
	maxAccepted      = 10
	maxInFlightHeads = 5
	minTokenLen      = 3
	maxTokenLen      = 15
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "you": true,
	"your": true, "have": true, "has": true, "can": true, "will": true,
	"not": true, "but": true, "all": true, "any": true, "how": true,
}
