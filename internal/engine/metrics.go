package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests     atomic.Int64
	VideoRequests      atomic.Int64
	TranscriptRequests atomic.Int64
	SummarizeRequests  atomic.Int64
	FormatListRequests atomic.Int64
	DownloadRequests   atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	YtdlpRuns          atomic.Int64
	YtdlpErrors        atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	RateLimited        atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":      metrics.SearchRequests.Load(),
		"video_requests":       metrics.VideoRequests.Load(),
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"summarize_requests":   metrics.SummarizeRequests.Load(),
		"format_list_requests": metrics.FormatListRequests.Load(),
		"download_requests":    metrics.DownloadRequests.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
		"ytdlp_runs":           metrics.YtdlpRuns.Load(),
		"ytdlp_errors":         metrics.YtdlpErrors.Load(),
		"cache_hits":           metrics.CacheHits.Load(),
		"cache_misses":         metrics.CacheMisses.Load(),
		"rate_limited":         metrics.RateLimited.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "video_requests", "transcript_requests",
		"summarize_requests", "format_list_requests", "download_requests",
		"llm_calls", "llm_errors",
		"ytdlp_runs", "ytdlp_errors",
		"cache_hits", "cache_misses", "rate_limited",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrSearchRequests() { metrics.SearchRequests.Add(1) }
func IncrVideoRequests()  { metrics.VideoRequests.Add(1) }

// Incrementors for sources/ and media/ sub-packages.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrSummarizeRequests()  { metrics.SummarizeRequests.Add(1) }
func IncrFormatListRequests() { metrics.FormatListRequests.Add(1) }
func IncrDownloadRequests()   { metrics.DownloadRequests.Add(1) }
func IncrYtdlpRuns()          { metrics.YtdlpRuns.Add(1) }
func IncrYtdlpErrors()        { metrics.YtdlpErrors.Add(1) }
func IncrRateLimited()        { metrics.RateLimited.Add(1) }

func IncrCacheHit()  { metrics.CacheHits.Add(1) }
func IncrCacheMiss() { metrics.CacheMisses.Add(1) }
