package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string   // secondary Data API key, tried on quota errors
	TranscriptLanguages   []string // preferred caption languages, in order

	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	SummaryMaxChars    int // transcript chars sent to the LLM

	FetchTimeout time.Duration
	YouTubeQPS   float64 // outbound throttle for YouTube endpoints

	YtdlpPath       string
	DownloadTimeout time.Duration

	HTTPClient *http.Client
	LLMClient  *llm.Client // nil = extractive fallback summaries only
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, media).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
	initThrottle(c.YouTubeQPS)
}
