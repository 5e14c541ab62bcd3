package openai

import (
	"sync"

	"github.com/vidgraph/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// VideoOpenAIClient implements ai.VideoAIClient against an OpenAI-compatible
// chat endpoint. Separate models can be configured for summarization and
// chat answering.
//
// A VideoOpenAIClient should be created using NewVideoOpenAIClient.
type VideoOpenAIClient struct {
	summaryModel string
	chatModel    string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewVideoOpenAIClientParams defines the configuration for creating a new
// VideoOpenAIClient. BaseURL may be empty for the hosted OpenAI API.
type NewVideoOpenAIClientParams struct {
	SummaryModel string
	ChatModel    string

	BaseURL string
	APIKey  string
}

// NewVideoOpenAIClient creates a client configured with the provided
// parameters.
//
// Example:
//
//	client := openai.NewVideoOpenAIClient(openai.NewVideoOpenAIClientParams{
//		SummaryModel: "gpt-4o-mini",
//		ChatModel:    "gpt-4o-mini",
//		APIKey:       os.Getenv("OPENAI_API_KEY"),
//	})
func NewVideoOpenAIClient(params NewVideoOpenAIClientParams) *VideoOpenAIClient {
	return &VideoOpenAIClient{
		summaryModel: params.SummaryModel,
		chatModel:    params.ChatModel,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: newOpenaiClient(params.BaseURL, params.APIKey),
	}
}

func newOpenaiClient(baseURL, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *VideoOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated usage metrics.
func (c *VideoOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the accumulated usage metrics.
func (c *VideoOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
