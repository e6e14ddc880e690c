package engine

// --- Transcript types ---

// TranscriptSegment is a raw caption line as supplied by YouTube.
// Immutable once fetched; normalization derives new values instead of
// mutating these.
type TranscriptSegment struct {
	Start    float64 `json:"start"`    // seconds
	Duration float64 `json:"duration"` // seconds
	Text     string  `json:"text"`
}

// --- Video types ---

// VideoResult is one search hit.
type VideoResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// VideoDetails is full metadata for a single video.
type VideoDetails struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Channel         string `json:"channel"`
	PublishedAt     string `json:"publishedAt,omitempty"`
	Duration        string `json:"duration,omitempty"` // ISO 8601, as returned by the Data API
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	ViewCount       int64  `json:"viewCount,omitempty"`
	LikeCount       int64  `json:"likeCount,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
}

// --- MCP tool inputs/outputs ---

type VideoSearchInput struct {
	Query    string `json:"query" jsonschema:"Search query"`
	Language string `json:"language,omitempty" jsonschema:"Relevance language code (default: all)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 5, max 10)"`
}

type VideoSearchOutput struct {
	Query   string        `json:"query"`
	Results []VideoResult `json:"results"`
}

type VideoTranscriptInput struct {
	VideoID   string   `json:"video_id" jsonschema:"YouTube video ID or URL"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption languages, in order"`
}

type VideoTranscriptOutput struct {
	VideoID  string              `json:"video_id"`
	Segments []TranscriptSegment `json:"segments"`
	Text     string              `json:"text"` // normalized, deduplicated full text
}

type VideoSummarizeInput struct {
	VideoID string `json:"video_id" jsonschema:"YouTube video ID or URL"`
	Title   string `json:"title,omitempty" jsonschema:"Video title, improves the summary"`
}

type VideoSummarizeOutput struct {
	VideoID string `json:"video_id"`
	Summary string `json:"summary"`
	Source  string `json:"source"` // "llm" or "fallback"
}
