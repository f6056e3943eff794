package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/config"
	"github.com/mikey/llm-phishing-analyzer/internal/core"
	"github.com/mikey/llm-phishing-analyzer/internal/di"
	"github.com/mikey/llm-phishing-analyzer/internal/factory"
	"github.com/mikey/llm-phishing-analyzer/internal/logging"
)

func main() {
	flags := di.ParseFlags()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified, otherwise from flags
	var cfg *config.Config
	if flags.ConfigFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = flags.BuildConfig()
	}

	// Initialize LLM client
	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()
	llmClient, err := factory.NewLLMFactory(cfg, logger, textProcessor).CreateLLMClient()
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer func() {
		if closer, ok := llmClient.(interface{ Close() error }); ok {
			closer.Close()
		}
	}()

	// Read email text from file or stdin
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		reader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	emailText, err := io.ReadAll(reader)
	if err != nil {
		logger.Fatal("Failed to read email text", zap.Error(err))
	}

	if err := analyzeAndReport(logger, llmClient, string(emailText), flags.Verbose); err != nil {
		os.Exit(1)
	}
}

// analyzeAndReport runs one analysis and prints a human-readable report
func analyzeAndReport(logger *zap.Logger, llmClient core.LLMClient, emailText string, verbose bool) error {
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("Text length: %d bytes\n", len(emailText))
	if verbose {
		preview := emailText
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nPreview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Analyzing email with LLM...\n")
	startTime := time.Now()
	result, err := llmClient.AnalyzeEmail(context.Background(), emailText)
	if err != nil {
		logger.Error("Failed to analyze email", zap.Error(err))
		fmt.Printf("Error: %s\n", core.UserFacingErrorMessage)
		return err
	}
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is phishing: %t\n", result.IsPhishing)
	fmt.Printf("Risk level: %s\n", result.RiskLevel)
	fmt.Printf("Safety score: %d/100\n", result.DisplayScore())
	fmt.Printf("Summary: %s\n", result.Summary)
	if len(result.SuspiciousIndicators) > 0 {
		fmt.Printf("Suspicious indicators:\n")
		for _, indicator := range result.SuspiciousIndicators {
			fmt.Printf("  - %s\n", indicator)
		}
	}
	fmt.Printf("Recommendation: %s\n", result.Recommendation)
	if verbose {
		fmt.Printf("\nTechnical details:\n%s\n", result.TechnicalDetails)
	}
	fmt.Printf("Processing time: %v\n", duration)

	return nil
}
