package di

import (
	"flag"

	"github.com/mikey/llm-phishing-analyzer/internal/config"
)

// CLIFlags contains all command line flags for the one-shot CLI
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 2048, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.2, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 16384, "Maximum email size to send to the LLM")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-2.0-flash", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email text file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildConfig materializes a configuration from parsed CLI flags
func (f *CLIFlags) BuildConfig() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", f.Provider)

	v.Set("gemini.api_key", f.GeminiAPIKey)
	v.Set("gemini.model_name", f.GeminiModelName)
	v.Set("gemini.max_tokens", f.MaxTokens)
	v.Set("gemini.temperature", f.Temperature)
	v.Set("gemini.top_p", f.TopP)
	v.Set("gemini.max_body_size", f.MaxBodySize)

	v.Set("openai.api_key", f.OpenAIAPIKey)
	v.Set("openai.model_name", f.OpenAIModelName)
	v.Set("openai.max_tokens", f.MaxTokens)
	v.Set("openai.temperature", f.Temperature)
	v.Set("openai.top_p", f.TopP)
	v.Set("openai.max_body_size", f.MaxBodySize)

	v.Set("bedrock.region", f.BedrockRegion)
	v.Set("bedrock.model_id", f.BedrockModelID)
	v.Set("bedrock.max_tokens", f.MaxTokens)
	v.Set("bedrock.temperature", f.Temperature)
	v.Set("bedrock.top_p", f.TopP)
	v.Set("bedrock.max_body_size", f.MaxBodySize)

	// The one-shot CLI analyzes a single email; caching adds nothing.
	v.Set("cache.enabled", false)

	return config.NewFromViper(v)
}
