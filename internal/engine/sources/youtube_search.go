package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// YouTube video search — Data API v3 with ytInitialData scraping fallback.

const (
	ytDataAPIBase       = "https://www.googleapis.com/youtube/v3"
	ytInitialDataMarker = "var ytInitialData = "
	ytSearchFilter      = "EgIQAQ%3D%3D" // videos-only filter param
)

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

var plainVideoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format,
// or returns the input unchanged when it already is a bare ID.
func ExtractVideoID(raw string) string {
	if plainVideoIDRE.MatchString(raw) {
		return raw
	}
	if m := videoIDRE.FindStringSubmatch(raw); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []ytDataItem `json:"items"`
}

type ytDataItem struct {
	ID      ytDataItemID  `json:"id"`
	Snippet ytDataSnippet `json:"snippet"`
}

type ytDataItemID struct {
	VideoID string `json:"videoId"`
}

type ytDataSnippet struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ChannelTitle string       `json:"channelTitle"`
	PublishedAt  string       `json:"publishedAt"`
	Thumbnails   ytThumbnails `json:"thumbnails"`
}

type ytThumbnails struct {
	Medium  ytThumbnail `json:"medium"`
	High    ytThumbnail `json:"high"`
	Default ytThumbnail `json:"default"`
}

type ytThumbnail struct {
	URL string `json:"url"`
}

// bestThumbnail prefers medium, then high, then default.
func (t ytThumbnails) bestThumbnail() string {
	switch {
	case t.Medium.URL != "":
		return t.Medium.URL
	case t.High.URL != "":
		return t.High.URL
	default:
		return t.Default.URL
	}
}

// --- ytInitialData scraping types ---

type ytVideoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"title"`
	OwnerText struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"ownerText"`
	DescriptionSnippet *struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"descriptionSnippet"`
}

// SearchVideos searches YouTube videos.
// Uses YouTube Data API v3 when a key is configured; otherwise scrapes ytInitialData.
func SearchVideos(ctx context.Context, query, language string, limit int) ([]engine.VideoResult, error) {
	engine.IncrSearchRequests()
	if limit <= 0 || limit > 10 {
		limit = 5
	}
	if engine.Cfg.YouTubeAPIKey != "" {
		return searchDataAPI(ctx, query, language, limit)
	}
	return searchInitialData(ctx, query, limit)
}

// searchDataAPI searches via YouTube Data API v3.
// Automatically falls back to the secondary key on quota errors.
func searchDataAPI(ctx context.Context, query, language string, limit int) ([]engine.VideoResult, error) {
	var lastErr error
	for _, key := range dataAPIKeys() {
		videos, err := doDataSearch(ctx, query, language, limit, key)
		if err == nil {
			return videos, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func dataAPIKeys() []string {
	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}
	return keys
}

// getDataAPI performs a throttled, retried GET against a Data API endpoint.
func getDataAPI(ctx context.Context, apiURL string) ([]byte, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

func doDataSearch(ctx context.Context, query, language string, limit int, apiKey string) ([]engine.VideoResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("key", apiKey)
	if language != "" && language != "all" {
		params.Set("relevanceLanguage", language)
	}

	body, err := getDataAPI(ctx, ytDataAPIBase+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result ytDataSearchResp
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}

	videos := make([]engine.VideoResult, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, engine.VideoResult{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Description: engine.Truncate(item.Snippet.Description, 200),
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Thumbnail:   item.Snippet.Thumbnails.bestThumbnail(),
		})
	}
	return videos, nil
}

// searchInitialData scrapes YouTube search results by parsing ytInitialData.
func searchInitialData(ctx context.Context, query string, limit int) ([]engine.VideoResult, error) {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query) + "&sp=" + ytSearchFilter

	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read youtube search response: %w", err)
	}

	idx := strings.Index(string(body), ytInitialDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData not found in YouTube search response")
	}
	jsonData := extractJSON(body[idx+len(ytInitialDataMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialData JSON")
	}
	return extractVideosFromInitialData(jsonData, limit), nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}

// extractVideosFromInitialData recursively walks ytInitialData JSON for videoRenderer entries.
func extractVideosFromInitialData(data []byte, limit int) []engine.VideoResult {
	var results []engine.VideoResult
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytVideoRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" {
					title := ""
					if len(vr.Title.Runs) > 0 {
						title = vr.Title.Runs[0].Text
					}
					channel := ""
					if len(vr.OwnerText.Runs) > 0 {
						channel = vr.OwnerText.Runs[0].Text
					}
					var snippetParts []string
					if vr.DescriptionSnippet != nil {
						for _, r := range vr.DescriptionSnippet.Runs {
							snippetParts = append(snippetParts, r.Text)
						}
					}
					results = append(results, engine.VideoResult{
						ID:          vr.VideoID,
						Title:       title,
						Channel:     channel,
						Description: engine.Truncate(strings.Join(snippetParts, ""), 200),
						URL:         "https://www.youtube.com/watch?v=" + vr.VideoID,
					})
					return
				}
			}
			for _, child := range obj {
				if len(results) >= limit {
					return
				}
				walk(child)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}
