package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"
)

// BedrockClient provides access to AWS Bedrock via the Converse API.
// Credentials come from the standard AWS credential chain.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

// BedrockConfig holds configuration for creating a Bedrock client.
type BedrockConfig struct {
	Region  string
	ModelID string
}

// NewBedrockClient creates a new Bedrock client.
func NewBedrockClient(ctx context.Context, cfg *BedrockConfig, logger *zap.Logger) (*BedrockClient, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("model id is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		logger:  logger.Named("llm-bedrock"),
	}, nil
}

// Generate produces a completion for the prompt.
func (c *BedrockClient) Generate(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{{
			Role: types.ConversationRoleUser,
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: prompt},
			},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(maxTokens)),
			Temperature: aws.Float32(float32(opts.Temperature)),
		},
	}
	if systemPrompt != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		}
	}

	c.logger.Debug("generation request",
		zap.String("model", c.modelID),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.Converse(ctx, input)
	if err != nil {
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		e := ClassifyError(err)
		e.Model = c.modelID
		return nil, e
	}

	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return nil, NewError(ErrorTypeUnknown, "no message content in response", false, nil)
	}

	var content string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			content = text.Value
			break
		}
	}
	if content == "" {
		return nil, NewError(ErrorTypeUnknown, "no text content in response", false, nil)
	}

	result := &GenerateResult{Content: content}
	if resp.Usage != nil {
		result.PromptTokens = int(aws.ToInt32(resp.Usage.InputTokens))
		result.CompletionTokens = int(aws.ToInt32(resp.Usage.OutputTokens))
	}

	c.logger.Info("generation request completed",
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// Model returns the configured model id.
func (c *BedrockClient) Model() string { return c.modelID }

// Provider returns the provider name.
func (c *BedrockClient) Provider() string { return ProviderBedrock }

// Ensure BedrockClient implements TextGenerator at compile time.
var _ TextGenerator = (*BedrockClient)(nil)
