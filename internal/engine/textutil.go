package engine

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoTube/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var userAgents = []string{
	UserAgentChrome,
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
}

// RandomUserAgent returns a browser User-Agent for scraping endpoints that
// refuse obvious bots.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))] //nolint:gosec // non-cryptographic use
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

var unsafeFilenameRe = regexp.MustCompile(`[\x00-\x1f/\\:*?"<>|]+`)

// SafeFilename turns an arbitrary title into something usable in a
// Content-Disposition header. Falls back to "video" when nothing survives.
func SafeFilename(name string) string {
	name = unsafeFilenameRe.ReplaceAllString(name, " ")
	name = CollapseWhitespace(name)
	name = strings.Trim(name, ". ")
	if name == "" {
		return "video"
	}
	return strutil.TruncateWith(name, 120, "")
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts a Data API contentDetails duration (PT1H2M3S)
// to seconds. Returns 0 when the format is unrecognized.
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	atoi := func(v string) int {
		n := 0
		for _, r := range v {
			n = n*10 + int(r-'0')
		}
		return n
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}
