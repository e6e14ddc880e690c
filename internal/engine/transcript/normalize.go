// Package transcript turns noisy, overlapping raw caption segments into
// readable, deduplicated lines with accurate timestamps. Auto-generated
// captions repeat text across overlapping windows and embed inline timing
// and style markup; normalization strips the markup, drops duplicates, and
// groups adjacent segments into coherent lines.
package transcript

import (
	"regexp"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Options controls grouping behavior. Zero-valued fields fall back to
// DefaultOptions.
type Options struct {
	// MaxGap starts a new group when the pause between a segment and the
	// previous segment's end exceeds it.
	MaxGap time.Duration
	// MaxDistanceRatio is the normalized Levenshtein threshold below which
	// two texts count as overlapping.
	MaxDistanceRatio float64
	// MinOverlap is the minimum suffix/prefix overlap, in bytes, that
	// smart-combine splices on.
	MinOverlap int
}

// DefaultOptions: 2s gap, 0.3 distance ratio, >3-byte splice overlap.
var DefaultOptions = Options{
	MaxGap:           2 * time.Second,
	MaxDistanceRatio: 0.3,
	MinOverlap:       3,
}

func (o Options) withDefaults() Options {
	if o.MaxGap <= 0 {
		o.MaxGap = DefaultOptions.MaxGap
	}
	if o.MaxDistanceRatio <= 0 {
		o.MaxDistanceRatio = DefaultOptions.MaxDistanceRatio
	}
	if o.MinOverlap <= 0 {
		o.MinOverlap = DefaultOptions.MinOverlap
	}
	return o
}

// Group is a merged run of caption segments. View-only: it carries the raw
// segments it was derived from and is never persisted.
type Group struct {
	Start    float64                    `json:"start"`
	Duration float64                    `json:"duration"`
	Text     string                     `json:"text"`
	Segments []engine.TranscriptSegment `json:"segments,omitempty"`
}

var (
	// Inline timing tags like <00:00:11.200> inside auto-caption text.
	timingTagRE = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
	// A line that is nothing but a timestamp, e.g. "1:23" or "[1:23:45]".
	timestampOnlyRE = regexp.MustCompile(`^[\[(]?\d{1,2}:\d{2}(?::\d{2})?[\])]?$`)
)

// CleanText strips inline timing tags, style/HTML markup, and entity
// escapes from caption text, collapsing whitespace.
func CleanText(s string) string {
	s = timingTagRE.ReplaceAllString(s, "")
	if strings.ContainsAny(s, "<&") {
		s = stripMarkup(s)
	}
	return engine.CollapseWhitespace(s)
}

// stripMarkup drops tags like <c> and </c> and unescapes entities by
// tokenizing and keeping only text tokens. Malformed fragments degrade to
// their text content rather than erroring.
func stripMarkup(s string) string {
	tok := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tok.Text())
		}
	}
}

// Normalize cleans, deduplicates, and groups raw segments. Segments are
// processed in order; the input is never mutated. Idempotent: feeding the
// output back in (as segments) yields the same groups.
func Normalize(segments []engine.TranscriptSegment, opts Options) []Group {
	opts = opts.withDefaults()

	var groups []Group
	var cur *Group
	lastUnique := ""
	prevEnd := 0.0

	for _, seg := range segments {
		text := CleanText(seg.Text)
		if text == "" || timestampOnlyRE.MatchString(text) {
			continue
		}

		// Pure duplicate of what was just emitted.
		if lastUnique != "" && (text == lastUnique || strings.Contains(lastUnique, text)) {
			if end := seg.Start + seg.Duration; end > prevEnd {
				prevEnd = end
				if cur != nil && end > cur.Start+cur.Duration {
					cur.Duration = end - cur.Start
				}
			}
			continue
		}

		gap := seg.Start - prevEnd
		if cur == nil || gap > opts.MaxGap.Seconds() || !significantOverlap(lastUnique, text, opts) {
			if cur != nil {
				groups = append(groups, *cur)
			}
			cur = &Group{
				Start:    seg.Start,
				Duration: seg.Duration,
				Text:     text,
				Segments: []engine.TranscriptSegment{seg},
			}
		} else {
			cur.Text = smartCombine(cur.Text, text, opts.MinOverlap)
			cur.Segments = append(cur.Segments, seg)
			if end := seg.Start + seg.Duration; end > cur.Start+cur.Duration {
				cur.Duration = end - cur.Start
			}
		}

		lastUnique = text
		if end := seg.Start + seg.Duration; end > prevEnd {
			prevEnd = end
		}
	}
	if cur != nil {
		groups = append(groups, *cur)
	}
	return groups
}

// significantOverlap reports whether next plausibly continues last:
// containment either way, a suffix/prefix splice overlap longer than
// MinOverlap, or normalized edit distance under the threshold.
func significantOverlap(last, next string, opts Options) bool {
	if last == "" {
		return false
	}
	a := strings.ToLower(last)
	b := strings.ToLower(next)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	if overlapLen(a, b) > opts.MinOverlap {
		return true
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return false
	}
	ratio := float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
	return ratio < opts.MaxDistanceRatio
}

// smartCombine merges overlapping caption texts:
//  1. containment → the longer string wins
//  2. longest suffix-of-existing / prefix-of-next overlap > minOverlap →
//     concatenate past the overlap (a trailing space counts, so
//     "the cat sat" + "sat on the mat" overlaps on "sat ")
//  3. fallback → join with a space
func smartCombine(existing, next string, minOverlap int) string {
	if strings.Contains(existing, next) {
		return existing
	}
	if strings.Contains(next, existing) {
		return next
	}

	spaced := existing + " "
	limit := len(spaced)
	if len(next) < limit {
		limit = len(next)
	}
	for k := limit; k > minOverlap; k-- {
		if strings.HasSuffix(spaced, next[:k]) {
			return spaced + next[k:]
		}
		if k <= len(existing) && strings.HasSuffix(existing, next[:k]) {
			return existing + next[k:]
		}
	}
	return existing + " " + next
}

// overlapLen is the longest k such that the first k bytes of next end
// existing (with or without a trailing space).
func overlapLen(existing, next string) int {
	spaced := existing + " "
	limit := len(spaced)
	if len(next) < limit {
		limit = len(next)
	}
	for k := limit; k > 0; k-- {
		if strings.HasSuffix(spaced, next[:k]) {
			return k
		}
		if k <= len(existing) && strings.HasSuffix(existing, next[:k]) {
			return k
		}
	}
	return 0
}

// JoinText renders groups as a single readable string.
func JoinText(groups []Group) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g.Text)
	}
	return strings.Join(parts, " ")
}

// Text is the one-call path from raw segments to clean prose, used by the
// summarizer.
func Text(segments []engine.TranscriptSegment, opts Options) string {
	return JoinText(Normalize(segments, opts))
}
