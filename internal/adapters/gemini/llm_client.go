package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/llm-phishing-analyzer/internal/core"
	"github.com/mikey/llm-phishing-analyzer/internal/utils"
)

// GeminiClient is an implementation of the LLMClient interface using Google
// Gemini. Gemini enforces the response contract natively through a response
// schema, so a conformant payload is the common case; the shared parser still
// validates it before anything is trusted.
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// analysisSchema mirrors the six required AnalysisResult fields
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isPhishing": {Type: genai.TypeBoolean},
			"riskLevel": {
				Type: genai.TypeString,
				Enum: []string{string(core.RiskLow), string(core.RiskMedium), string(core.RiskHigh)},
			},
			"suspiciousIndicators": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"recommendation":   {Type: genai.TypeString},
			"summary":          {Type: genai.TypeString},
			"technicalDetails": {Type: genai.TypeString},
		},
		Required: []string{
			"isPhishing",
			"riskLevel",
			"suspiciousIndicators",
			"recommendation",
			"summary",
			"technicalDetails",
		},
	}
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(core.SystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = analysisSchema()

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// AnalyzeEmail analyzes an email for phishing risk
func (c *GeminiClient) AnalyzeEmail(ctx context.Context, emailText string) (*core.AnalysisResult, error) {
	prompt := core.BuildPrompt(c.textProcessor.ProcessText(emailText, c.maxBodySize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &core.TransportError{Provider: "gemini", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &core.ContractViolationError{Reason: "empty response from Gemini"}
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, &core.ContractViolationError{Reason: "non-text response part from Gemini"}
	}

	c.logger.Debug("Gemini response received", zap.String("model", c.modelName))

	return core.ParseAnalysisResult(string(text))
}
