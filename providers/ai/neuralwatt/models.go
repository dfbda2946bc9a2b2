package neuralwatt

// Registry identifiers for the models served by the NeuralWatt API.
const (
	ModelDeepSeekCoder33B = "neuralwatt/deepseek-coder-33b-instruct"
	ModelGPTOSS20B        = "neuralwatt/gpt-oss-20b"
	ModelQwen3Coder480B   = "neuralwatt/Qwen3-Coder-480B-A35B-Instruct"
)

// Capabilities describes the feature set of one served model. It drives
// request preconditions: a request that needs a capability the model lacks
// fails before any network call is made.
type Capabilities struct {
	AllowsSystemPrompt bool // model accepts a system message
	SupportsStreaming  bool // SSE streaming with energy frames
	SupportsTools      bool // function tool calling
}

// ModelInfo describes one entry of the model registry.
type ModelInfo struct {
	// ID is the registry identifier, e.g. "neuralwatt/gpt-oss-20b".
	ID string
	// UpstreamID is the model identifier sent on the wire.
	UpstreamID string
	// Aliases are short names accepted wherever a model is named.
	Aliases []string
	// Capabilities of the served model.
	Capabilities ModelCapabilitiesFunc
}

// ModelCapabilitiesFunc returns the capabilities of a model. Indirection
// keeps the registry table literal-friendly.
type ModelCapabilitiesFunc func() Capabilities

func defaultCapabilities() Capabilities {
	return Capabilities{
		AllowsSystemPrompt: true,
		SupportsStreaming:  true,
		SupportsTools:      true,
	}
}

var registry = []ModelInfo{
	{
		ID:           ModelDeepSeekCoder33B,
		UpstreamID:   "deepseek-ai/deepseek-coder-33b-instruct",
		Aliases:      []string{"neuralwatt-deepseek-coder"},
		Capabilities: defaultCapabilities,
	},
	{
		ID:           ModelGPTOSS20B,
		UpstreamID:   "openai/gpt-oss-20b",
		Aliases:      []string{"neuralwatt-gpt-oss"},
		Capabilities: defaultCapabilities,
	},
	{
		ID:           ModelQwen3Coder480B,
		UpstreamID:   "Qwen/Qwen3-Coder-480B-A35B-Instruct",
		Aliases:      []string{"neuralwatt-qwen3-coder"},
		Capabilities: defaultCapabilities,
	},
}

// Models returns the registry of served models.
func Models() []ModelInfo {
	models := make([]ModelInfo, len(registry))
	copy(models, registry)
	return models
}

// LookupModel finds a registry entry by identifier or alias.
func LookupModel(nameOrAlias string) (ModelInfo, bool) {
	for _, model := range registry {
		if model.ID == nameOrAlias {
			return model, true
		}
		for _, alias := range model.Aliases {
			if alias == nameOrAlias {
				return model, true
			}
		}
	}
	return ModelInfo{}, false
}

// ResolveModel returns the upstream identifier sent on the wire for a
// registry identifier or alias. Unknown names pass through unchanged so
// callers can address models not yet listed in the registry.
func ResolveModel(nameOrAlias string) string {
	if model, ok := LookupModel(nameOrAlias); ok {
		return model.UpstreamID
	}
	return nameOrAlias
}
