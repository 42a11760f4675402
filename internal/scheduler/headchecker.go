package scheduler

import (
	"net/http"
	"net/url"
)

// httpHeadChecker satisfies discovery.HeadChecker with a real HTTP
// HEAD request. Any transport error is reported to Discovery as a
// rejection, never as a hard failure — per §4.8, discovery is
// best-effort.
type httpHeadChecker struct {
	httpClient *http.Client
	userAgent  string
}

func newHTTPHeadChecker(httpClient *http.Client, userAgent string) httpHeadChecker {
	return httpHeadChecker{httpClient: httpClient, userAgent: userAgent}
}

func (h httpHeadChecker) Head(u url.URL) (int, error) {
	req, err := http.NewRequest(http.MethodHead, u.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
