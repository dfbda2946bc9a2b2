package neuralwatt

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/neuralwatt/neuralwatt-go/internal/utils"
	"github.com/neuralwatt/neuralwatt-go/providers/ai"
	"github.com/neuralwatt/neuralwatt-go/providers/observability"
)

const (
	defaultBaseURL          = "https://api.neuralwatt.com/v1"
	chatCompletionsEndpoint = "/chat/completions"

	providerName = "neuralwatt"
)

// NeuralWattProvider implements the Provider and StreamProvider interfaces
// for the NeuralWatt API.
type NeuralWattProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client

	// capabilities overrides the registry entry for the requested model when
	// set. Used by callers that address models not listed in the registry.
	capabilities *Capabilities
}

// New creates a new NeuralWatt provider instance with default values. The API
// key is read from NEURALWATT_API_KEY and the base URL from
// NEURALWATT_API_BASE_URL, falling back to the public endpoint.
func New() *NeuralWattProvider {
	apiKey := os.Getenv("NEURALWATT_API_KEY")
	baseURL := os.Getenv("NEURALWATT_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &NeuralWattProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider
func (provider *NeuralWattProvider) WithAPIKey(apiKey string) ai.Provider {
	provider.apiKey = apiKey
	return provider
}

// WithBaseURL sets the base URL for the API
func (provider *NeuralWattProvider) WithBaseURL(baseURL string) ai.Provider {
	provider.baseURL = baseURL
	return provider
}

// WithHttpClient sets a custom HTTP client
func (provider *NeuralWattProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	provider.client = httpClient
	return provider
}

// WithCapabilities overrides the capabilities used for request prechecks,
// replacing whatever the model registry declares. Useful when addressing a
// model not listed in the registry.
func (provider *NeuralWattProvider) WithCapabilities(capabilities Capabilities) *NeuralWattProvider {
	provider.capabilities = &capabilities
	return provider
}

// modelCapabilities resolves the capabilities that apply to a request:
// explicit override first, then the registry entry, then permissive defaults
// for unknown models.
func (provider *NeuralWattProvider) modelCapabilities(model string) Capabilities {
	if provider.capabilities != nil {
		return *provider.capabilities
	}
	if info, ok := LookupModel(model); ok {
		return info.Capabilities()
	}
	return defaultCapabilities()
}

// precheck validates a request before any network call. Configuration and
// capability violations fail here, locally and deterministically.
func (provider *NeuralWattProvider) precheck(request ai.ChatRequest, streaming bool) error {
	if provider.apiKey == "" {
		return fmt.Errorf("API key is not set")
	}

	capabilities := provider.modelCapabilities(request.Model)
	if request.SystemPrompt != "" && !capabilities.AllowsSystemPrompt {
		return fmt.Errorf("model %s does not allow a system prompt", request.Model)
	}
	if len(request.Tools) > 0 && !capabilities.SupportsTools {
		return fmt.Errorf("model %s does not support tools", request.Model)
	}
	if streaming && !capabilities.SupportsStreaming {
		return fmt.Errorf("model %s does not support streaming", request.Model)
	}

	return nil
}

// SendMessage implements the Provider interface using the non-streaming
// chat completions endpoint. When the server embeds an energy payload in the
// response body it is carried to ChatResponse.Energy verbatim.
func (provider *NeuralWattProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, provider.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Bool(observability.AttrLLMStreaming, false),
		)
	}

	if err := provider.precheck(request, false); err != nil {
		return nil, err
	}

	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, requestToChatCompletion(request))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response from NeuralWatt API: %s", httpResponse.Status)
	}

	response := chatCompletionToGeneric(*resp)
	provider.recordCompletion(ctx, span, observer, response)

	return response, nil
}

// IsStopMessage reports whether the given chat response should be treated as
// a stop/end signal.
func (provider *NeuralWattProvider) IsStopMessage(message *ai.ChatResponse) bool {
	if message == nil {
		return true
	}
	// Prefer explicit finish reason from API
	if message.FinishReason == "stop" || message.FinishReason == "length" || message.FinishReason == "content_filter" {
		return true
	}
	// If there's no content and no tool calls, treat as stop
	if message.Content == "" && len(message.ToolCalls) == 0 {
		return true
	}
	return false
}

// recordCompletion enriches the span and records request metrics for one
// completed response, streaming or not.
func (provider *NeuralWattProvider) recordCompletion(ctx context.Context, span observability.Span, observer observability.Provider, response *ai.ChatResponse) {
	if response == nil {
		return
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestEnd)
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, response.Id),
			observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		)
		if response.Usage != nil {
			span.SetAttributes(
				observability.Int(observability.AttrLLMTokensPrompt, response.Usage.PromptTokens),
				observability.Int(observability.AttrLLMTokensCompletion, response.Usage.CompletionTokens),
				observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
			)
		}
	}

	if observer == nil {
		return
	}

	observer.Counter(observability.MetricRequestCount).Add(ctx, 1,
		observability.String(observability.AttrLLMProvider, providerName),
		observability.String(observability.AttrLLMModel, response.Model),
	)
	if response.Usage != nil {
		observer.Counter(observability.MetricTokensTotal).Add(ctx, int64(response.Usage.TotalTokens),
			observability.String(observability.AttrLLMModel, response.Model),
			observability.Int64(observability.AttrLLMTokensPrompt, int64(response.Usage.PromptTokens)),
			observability.Int64(observability.AttrLLMTokensCompletion, int64(response.Usage.CompletionTokens)),
		)
	}
	if len(response.Energy) > 0 {
		recordEnergy(ctx, span, observer, response.Energy)
	}
}
