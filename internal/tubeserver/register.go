// Package tubeserver exposes the engine's operations as MCP tools so
// agents can search, transcribe, and summarize videos without going
// through the REST API.
package tubeserver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	searchTTL     = 15 * time.Minute
	transcriptTTL = 6 * time.Hour
	summaryTTL    = 24 * time.Hour
)

// RegisterTools registers video_search, video_transcript, and
// video_summarize on the given MCP server. The cache is shared with the
// REST layer, so agents and browsers hit the same entries.
func RegisterTools(server *mcp.Server, cache *engine.Cache) {
	registerVideoSearch(server, cache)
	registerVideoTranscript(server, cache)
	registerVideoSummarize(server, cache)
}

func registerVideoSearch(server *mcp.Server, cache *engine.Cache) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_search",
		Description: "Search YouTube videos. Returns structured JSON with video ID, title, channel, description snippet, and URL for each hit.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoSearchInput) (*mcp.CallToolResult, engine.VideoSearchOutput, error) {
		if input.Query == "" {
			return nil, engine.VideoSearchOutput{}, errors.New("query is required")
		}

		key := engine.CacheKey("search", input.Query, input.Language, strconv.Itoa(input.Limit))
		if out, ok := engine.CacheLoadJSON[engine.VideoSearchOutput](cache, key); ok {
			return nil, out, nil
		}

		results, err := sources.SearchVideos(ctx, input.Query, input.Language, input.Limit)
		if err != nil {
			return nil, engine.VideoSearchOutput{}, err
		}

		out := engine.VideoSearchOutput{Query: input.Query, Results: results}
		engine.CacheStoreJSON(cache, key, out, searchTTL)
		return nil, out, nil
	})
}

func registerVideoTranscript(server *mcp.Server, cache *engine.Cache) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_transcript",
		Description: "Fetch the transcript of a YouTube video as timed segments plus a deduplicated plain-text rendering. Accepts a video ID or any YouTube URL.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoTranscriptInput) (*mcp.CallToolResult, engine.VideoTranscriptOutput, error) {
		videoID := sources.ExtractVideoID(input.VideoID)
		if videoID == "" {
			return nil, engine.VideoTranscriptOutput{}, errors.New("video_id is required")
		}

		key := engine.CacheKey("mcp_transcript", videoID)
		if out, ok := engine.CacheLoadJSON[engine.VideoTranscriptOutput](cache, key); ok {
			return nil, out, nil
		}

		langs := input.Languages
		if len(langs) == 0 {
			langs = engine.Cfg.TranscriptLanguages
		}
		segments, err := sources.FetchTranscript(ctx, videoID, langs)
		if err != nil {
			return nil, engine.VideoTranscriptOutput{}, err
		}

		out := engine.VideoTranscriptOutput{
			VideoID:  videoID,
			Segments: segments,
			Text:     transcript.Text(segments, transcript.DefaultOptions),
		}
		engine.CacheStoreJSON(cache, key, out, transcriptTTL)
		return nil, out, nil
	})
}

func registerVideoSummarize(server *mcp.Server, cache *engine.Cache) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_summarize",
		Description: "Summarize a YouTube video from its transcript: a short summary, key takeaways, and the video's tone. Accepts a video ID or any YouTube URL.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoSummarizeInput) (*mcp.CallToolResult, engine.VideoSummarizeOutput, error) {
		videoID := sources.ExtractVideoID(input.VideoID)
		if videoID == "" {
			return nil, engine.VideoSummarizeOutput{}, errors.New("video_id is required")
		}

		key := engine.CacheKey("mcp_summarize", videoID, input.Title)
		if out, ok := engine.CacheLoadJSON[engine.VideoSummarizeOutput](cache, key); ok {
			return nil, out, nil
		}

		segments, err := sources.FetchTranscript(ctx, videoID, engine.Cfg.TranscriptLanguages)
		if err != nil {
			return nil, engine.VideoSummarizeOutput{}, err
		}

		summary, source, err := engine.SummarizeTranscript(ctx,
			transcript.Text(segments, transcript.DefaultOptions), input.Title)
		if err != nil {
			return nil, engine.VideoSummarizeOutput{}, err
		}

		out := engine.VideoSummarizeOutput{VideoID: videoID, Summary: summary, Source: source}
		engine.CacheStoreJSON(cache, key, out, summaryTTL)
		return nil, out, nil
	})
}
