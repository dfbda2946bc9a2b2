package observability

// Semantic conventions for observability attributes. These constants define
// standard attribute names to ensure consistency across components.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "neuralwatt")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMStreaming indicates whether the request used SSE streaming
	AttrLLMStreaming = "llm.streaming"
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Energy Telemetry Attributes ---

const (
	// AttrLLMEnergyJoules is the energy consumed by the request, in joules,
	// as reported by the NeuralWatt metering frames
	AttrLLMEnergyJoules = "llm.energy.joules"

	// AttrLLMEnergyKWh is the energy consumed by the request, in kilowatt-hours
	AttrLLMEnergyKWh = "llm.energy.kwh"
)

// --- Request Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestToolsCount is the number of tools in the request
	AttrRequestToolsCount = "request.tools_count"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span and Event Names ---

const (
	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"

	// EventLLMRequestStart marks the start of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an LLM request
	EventLLMRequestEnd = "llm.request.end"

	// EventEnergyCaptured marks the capture of a metering frame
	EventEnergyCaptured = "llm.energy.captured"
)

// --- Metric Names ---

const (
	// MetricRequestCount is the counter for provider requests
	MetricRequestCount = "neuralwatt.request.count"

	// MetricTokensTotal is the counter for total tokens
	MetricTokensTotal = "neuralwatt.tokens.total"

	// MetricEnergyJoules is the histogram of per-request energy consumption
	MetricEnergyJoules = "neuralwatt.energy.joules"
)
