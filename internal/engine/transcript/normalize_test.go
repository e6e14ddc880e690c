package transcript

import (
	"testing"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

func seg(start, dur float64, text string) engine.TranscriptSegment {
	return engine.TranscriptSegment{Start: start, Duration: dur, Text: text}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"timing tags", "<00:00:11.200>hello<00:00:11.800> world", "hello world"},
		{"style tags", "<c>styled</c> text", "styled text"},
		{"entities", "cats &amp; dogs", "cats & dogs"},
		{"whitespace", "  spaced\n\nout  ", "spaced out"},
		{"everything", "<00:01:02.000><c.colorCFCFCF>one</c> two &amp; three", "one two & three"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSmartCombine(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		next     string
		want     string
	}{
		{"next contained", "hello world", "world", "hello world"},
		{"existing contained", "cat", "the cat sat", "the cat sat"},
		{"splice on word boundary", "the cat sat", "sat on the mat", "the cat sat on the mat"},
		{"splice multiword", "counting one two three", "one two three four", "counting one two three four"},
		{"no overlap joins", "abc def", "xyz qrs", "abc def xyz qrs"},
		{"single word overlap splices", "we ran", "ran far", "we ran far"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := smartCombine(tt.existing, tt.next, 3); got != tt.want {
				t.Errorf("smartCombine(%q, %q) = %q, want %q", tt.existing, tt.next, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := Normalize(nil, DefaultOptions); len(got) != 0 {
			t.Errorf("got %d groups, want 0", len(got))
		}
	})

	t.Run("exact duplicates collapse", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "hello world"),
			seg(1.5, 2, "hello world"),
		}, DefaultOptions)
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		g := groups[0]
		if g.Text != "hello world" || g.Start != 0 || g.Duration != 3.5 {
			t.Errorf("group = %+v, want text=hello world start=0 duration=3.5", g)
		}
	})

	t.Run("contained duplicate skipped", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "hello world"),
			seg(1.5, 1, "hello"),
		}, DefaultOptions)
		if len(groups) != 1 || groups[0].Text != "hello world" {
			t.Errorf("groups = %+v, want single hello world", groups)
		}
	})

	t.Run("timestamp-only and empty segments dropped", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 1, "[1:23]"),
			seg(1, 1, "0:45"),
			seg(1.5, 1, "(1:23:45)"),
			seg(2, 1, "   "),
			seg(3, 1, "real text"),
		}, DefaultOptions)
		if len(groups) != 1 || groups[0].Text != "real text" {
			t.Errorf("groups = %+v, want single real text", groups)
		}
	})

	t.Run("gap starts a new group", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 1, "first thought"),
			seg(10, 1, "second thought"),
		}, DefaultOptions)
		if len(groups) != 2 {
			t.Fatalf("got %d groups, want 2", len(groups))
		}
		if groups[0].Start != 0 || groups[1].Start != 10 {
			t.Errorf("starts = %v, %v; want 0, 10", groups[0].Start, groups[1].Start)
		}
	})

	t.Run("overlapping captions splice", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "the cat sat"),
			seg(1.5, 2, "sat on the mat"),
		}, DefaultOptions)
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		g := groups[0]
		if g.Text != "the cat sat on the mat" {
			t.Errorf("text = %q, want spliced sentence", g.Text)
		}
		if g.Start != 0 || g.Duration != 3.5 {
			t.Errorf("start=%v duration=%v, want 0, 3.5", g.Start, g.Duration)
		}
		if len(g.Segments) != 2 {
			t.Errorf("got %d source segments, want 2", len(g.Segments))
		}
	})

	t.Run("near-identical text merges by distance", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "she said hello there"),
			seg(1.8, 2, "she said hullo there"),
		}, DefaultOptions)
		if len(groups) != 1 {
			t.Errorf("got %d groups, want 1", len(groups))
		}
	})

	t.Run("unrelated text starts a new group", func(t *testing.T) {
		groups := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "talking about weather"),
			seg(1.5, 2, "completely different topic"),
		}, DefaultOptions)
		if len(groups) != 2 {
			t.Errorf("got %d groups, want 2", len(groups))
		}
	})

	t.Run("larger MaxGap merges across pauses", func(t *testing.T) {
		segments := []engine.TranscriptSegment{
			seg(0, 1, "counting one two three"),
			seg(5, 1, "one two three four"),
		}
		if got := Normalize(segments, DefaultOptions); len(got) != 2 {
			t.Errorf("default gap: got %d groups, want 2", len(got))
		}
		wide := Options{MaxGap: 10 * time.Second}
		groups := Normalize(segments, wide)
		if len(groups) != 1 {
			t.Fatalf("wide gap: got %d groups, want 1", len(groups))
		}
		if groups[0].Text != "counting one two three four" {
			t.Errorf("text = %q, want spliced count", groups[0].Text)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first := Normalize([]engine.TranscriptSegment{
			seg(0, 2, "the cat sat"),
			seg(1.5, 2, "sat on the mat"),
			seg(10, 2, "a new thought"),
		}, DefaultOptions)

		back := make([]engine.TranscriptSegment, 0, len(first))
		for _, g := range first {
			back = append(back, seg(g.Start, g.Duration, g.Text))
		}
		second := Normalize(back, DefaultOptions)

		if len(second) != len(first) {
			t.Fatalf("got %d groups on second pass, want %d", len(second), len(first))
		}
		for i := range first {
			if second[i].Text != first[i].Text ||
				second[i].Start != first[i].Start ||
				second[i].Duration != first[i].Duration {
				t.Errorf("group %d changed: %+v -> %+v", i, first[i], second[i])
			}
		}
	})
}

func TestText(t *testing.T) {
	got := Text([]engine.TranscriptSegment{
		seg(0, 2, "the cat sat"),
		seg(1.5, 2, "sat on the mat"),
		seg(10, 2, "a new thought"),
	}, DefaultOptions)
	want := "the cat sat on the mat a new thought"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}
