package urlutil

import "net/url"

// StripFragment removes the fragment from a URL, per the spec's URL
// invariant that fragment-bearing URLs are never stored or enqueued.
// Unlike Canonicalize, it leaves the query string and path intact.
func StripFragment(u url.URL) url.URL {
	stripped := u
	stripped.Fragment = ""
	stripped.RawFragment = ""
	return stripped
}

// ResolveAgainst resolves href against page (the URL of the page it was
// found on, not the site base — relative links in deep pages must
// resolve relative to where they were authored).
func ResolveAgainst(page url.URL, href string) (url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return url.URL{}, err
	}
	resolved := page.ResolveReference(ref)
	return StripFragment(*resolved), nil
}

// SameOrigin reports whether a and b share scheme and host.
func SameOrigin(a, b url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}
