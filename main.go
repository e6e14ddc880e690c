// go_tube — YouTube search, transcript, summary & download service.
//
// Serves a REST API (search, video metadata, transcripts, LLM summaries,
// yt-dlp downloads) and, optionally, the same operations as MCP tools for
// agent use. All upstream calls go through a shared TTL cache; the
// summarize endpoint is rate-limited per client.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
	"github.com/anatolykoptev/go_tube/internal/tubeserver"
	"github.com/anatolykoptev/go_tube/internal/webserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	port    = env.Str("PORT", "8890")
	mcpPort = env.Str("MCP_PORT", "")
)

func main() {
	initEngine()

	cache := engine.NewCache(
		env.Duration("CACHE_TTL", 15*time.Minute),
		env.Int("CACHE_MAX_ENTRIES", 1000),
		env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	)
	limiter := engine.NewRateLimiter(env.Duration("RATE_CLEANUP_INTERVAL", 10*time.Minute))

	srv := webserver.New(webserver.Config{
		Addr:                 ":" + port,
		Cache:                cache,
		Limiter:              limiter,
		SummarizeMaxRequests: env.Int("SUMMARIZE_MAX_REQUESTS", 10),
		SummarizeWindow:      env.Duration("SUMMARIZE_WINDOW", 60*time.Second),
		NormalizerOptions:    normalizerOptions(),
	})

	if mcpPort != "" {
		go runMCP(cache)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting go_tube", slog.String("port", port), slog.String("version", version))
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		TranscriptLanguages:   env.List("TRANSCRIPT_LANGUAGES", "en"),
		LLMAPIKey:             env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:    env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 1024),
		SummaryMaxChars:       env.Int("SUMMARY_MAX_CHARS", 10000),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 10*time.Second),
		YouTubeQPS:            env.Float("YOUTUBE_QPS", 4),
		YtdlpPath:             env.Str("YTDLP_PATH", "yt-dlp"),
		DownloadTimeout:       env.Duration("DOWNLOAD_TIMEOUT", 10*time.Minute),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, summaries use the extractive fallback")
	}

	engine.Init(c)
}

// normalizerOptions reads the transcript grouping thresholds.
func normalizerOptions() transcript.Options {
	return transcript.Options{
		MaxGap:           env.Duration("TRANSCRIPT_MAX_GAP", 2*time.Second),
		MaxDistanceRatio: env.Float("TRANSCRIPT_MAX_DISTANCE_RATIO", 0.3),
		MinOverlap:       env.Int("TRANSCRIPT_MIN_OVERLAP", 3),
	}
}

func runMCP(cache *engine.Cache) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)

	tubeserver.RegisterTools(server, cache)
	slog.Info("mcp tools registered", slog.String("port", mcpPort))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_tube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}
