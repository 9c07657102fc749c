package sources

import "strings"

// Challenge describes what a usable page looks like for one strategy.
type Challenge struct {
	MinLength int
	Keywords  []string
	// ContentTypes, if set, lists acceptable Content-Type substrings.
	ContentTypes []string
}

var DefaultChallengeKeywords = []string{"captcha", "unusual traffic"}

// LooksLikeChallenge reports whether resp is a bot wall rather than content:
// a 403/429, a Cloudflare interstitial, a too-short body, a known keyword, or
// an unexpected content type.
func LooksLikeChallenge(resp *Response, c Challenge) bool {
	if resp.StatusCode == 403 || resp.StatusCode == 429 {
		return true
	}

	server := strings.ToLower(resp.Header.Get("Server"))
	if strings.Contains(server, "cloudflare") && resp.Header.Get("CF-RAY") != "" && resp.StatusCode >= 400 {
		return true
	}

	body := resp.Text()
	if len(body) < c.MinLength {
		return true
	}

	low := strings.ToLower(body)
	if (strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser")) ||
		(strings.Contains(low, "attention required") && strings.Contains(low, "cloudflare")) {
		return true
	}
	for _, k := range c.Keywords {
		if strings.Contains(low, k) {
			return true
		}
	}

	if len(c.ContentTypes) > 0 && resp.ContentType != "" {
		ct := strings.ToLower(resp.ContentType)
		for _, want := range c.ContentTypes {
			if strings.Contains(ct, want) {
				return false
			}
		}
		return true
	}
	return false
}
