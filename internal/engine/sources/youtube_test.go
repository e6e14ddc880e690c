package sources

import (
	"encoding/json"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url with query", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"not a video", "https://example.com/watch?v=nope", ""},
		{"too short", "abc123", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.in); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple object", `{"a":1}`, `{"a":1}`},
		{"nested with trailing", `{"a":{"b":1}};var x=2`, `{"a":{"b":1}}`},
		{"braces inside strings", `{"a":"}{"}tail`, `{"a":"}{"}`},
		{"escaped quotes", `{"a":"\"{"}tail`, `{"a":"\"{"}`},
		{"not an object", `[1,2]`, ""},
		{"unterminated", `{"a":1`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractVideosFromInitialData(t *testing.T) {
	data := []byte(`{
		"contents": {
			"sectionList": [
				{"videoRenderer": {
					"videoId": "abc123def45",
					"title": {"runs": [{"text": "First Video"}]},
					"ownerText": {"runs": [{"text": "Channel One"}]},
					"descriptionSnippet": {"runs": [{"text": "part one "}, {"text": "part two"}]}
				}},
				{"videoRenderer": {
					"videoId": "xyz987uvw65",
					"title": {"runs": [{"text": "Second Video"}]},
					"ownerText": {"runs": []}
				}}
			]
		}
	}`)

	t.Run("extracts fields", func(t *testing.T) {
		videos := extractVideosFromInitialData(data, 10)
		if len(videos) != 2 {
			t.Fatalf("got %d videos, want 2", len(videos))
		}
		v := videos[0]
		if v.ID != "abc123def45" || v.Title != "First Video" || v.Channel != "Channel One" {
			t.Errorf("first video = %+v", v)
		}
		if v.Description != "part one part two" {
			t.Errorf("description = %q, want joined snippet", v.Description)
		}
		if v.URL != "https://www.youtube.com/watch?v=abc123def45" {
			t.Errorf("url = %q", v.URL)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		if videos := extractVideosFromInitialData(data, 1); len(videos) != 1 {
			t.Errorf("got %d videos, want 1", len(videos))
		}
	})
}

func TestBestThumbnail(t *testing.T) {
	tests := []struct {
		name string
		in   ytThumbnails
		want string
	}{
		{"medium wins", ytThumbnails{Medium: ytThumbnail{URL: "m"}, High: ytThumbnail{URL: "h"}, Default: ytThumbnail{URL: "d"}}, "m"},
		{"high next", ytThumbnails{High: ytThumbnail{URL: "h"}, Default: ytThumbnail{URL: "d"}}, "h"},
		{"default last", ytThumbnails{Default: ytThumbnail{URL: "d"}}, "d"},
		{"none", ytThumbnails{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.bestThumbnail(); got != tt.want {
				t.Errorf("bestThumbnail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeedsPoToken(t *testing.T) {
	if !needsPoToken("https://yt/api/timedtext?v=x&exp=xpe&lang=en") {
		t.Error("exp=xpe track should need a PoToken")
	}
	if needsPoToken("https://yt/api/timedtext?v=x&lang=en") {
		t.Error("plain track should not need a PoToken")
	}
}

func TestPickBestTrack(t *testing.T) {
	manual := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang, LanguageCode: lang}
	}
	asr := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&kind=asr", LanguageCode: lang, Kind: "asr"}
	}
	poToken := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/tt?lang=" + lang + "&exp=xpe", LanguageCode: lang}
	}

	tests := []struct {
		name     string
		tracks   []captionTrack
		langs    []string
		wantLang string
		wantKind string
		wantOK   bool
	}{
		{"manual beats asr", []captionTrack{asr("en"), manual("en")}, []string{"en"}, "en", "", true},
		{"asr when no manual", []captionTrack{asr("en"), manual("fr")}, []string{"en"}, "en", "asr", true},
		{"language preference order", []captionTrack{manual("de"), manual("ru")}, []string{"ru", "de"}, "ru", "", true},
		{"falls back to english", []captionTrack{manual("fr"), manual("en-GB")}, []string{"ja"}, "en-GB", "", true},
		{"first usable otherwise", []captionTrack{manual("fr"), manual("de")}, []string{"ja"}, "fr", "", true},
		{"skips potoken tracks", []captionTrack{poToken("en"), manual("fr")}, []string{"en"}, "fr", "", true},
		{"all potoken fails", []captionTrack{poToken("en"), poToken("fr")}, []string{"en"}, "en", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBestTrack(tt.tracks, tt.langs)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.LanguageCode != tt.wantLang || got.Kind != tt.wantKind {
				t.Errorf("picked lang=%q kind=%q, want lang=%q kind=%q",
					got.LanguageCode, got.Kind, tt.wantLang, tt.wantKind)
			}
		})
	}
}

func TestExtractTranscriptToken(t *testing.T) {
	t.Run("decodes url-escaped params", func(t *testing.T) {
		data := []byte(`{"engagementPanels":[{"getTranscriptEndpoint":{"params":"CgNhc3ISAmVu%3D%3D"}}]}`)
		got, err := extractTranscriptToken(data)
		if err != nil {
			t.Fatalf("extractTranscriptToken: %v", err)
		}
		if got != "CgNhc3ISAmVu==" {
			t.Errorf("token = %q, want decoded form", got)
		}
	})

	t.Run("missing endpoint errors", func(t *testing.T) {
		if _, err := extractTranscriptToken([]byte(`{"engagementPanels":[]}`)); err == nil {
			t.Error("want error when no transcript endpoint present")
		}
	})
}

func TestParseTranscriptSegments(t *testing.T) {
	raw := []byte(`{"actions":[{"updateEngagementPanelAction":{"content":{"transcriptRenderer":{"content":{"transcriptSearchPanelRenderer":{"body":{"transcriptSegmentListRenderer":{"initialSegments":[
		{"transcriptSegmentRenderer":{"startMs":"1200","endMs":"3400","snippet":{"runs":[{"text":"hello"},{"text":"world"}]}}},
		{"transcriptSegmentRenderer":{"startMs":"3400","endMs":"5000","snippet":{"runs":[]}}}
	]}}}}}}}}]}`)

	var resp ytGetTranscriptResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	segs := parseTranscriptSegments(resp)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1 (empty snippet dropped)", len(segs))
	}
	s := segs[0]
	if s.Text != "hello world" {
		t.Errorf("text = %q, want joined runs", s.Text)
	}
	if s.Start != 1.2 || s.Duration != 2.2 {
		t.Errorf("start=%v duration=%v, want 1.2, 2.2", s.Start, s.Duration)
	}
}
