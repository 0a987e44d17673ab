package narrative

// Model metadata and simple pricing helpers for UX warnings. Prices are
// illustrative and should be verified against the provider's docs.

// DefaultModel is used when neither flag nor config names one.
const DefaultModel = "gpt-4o-mini"

type ModelInfo struct {
	Name          string
	ContextTokens int     // approximate context window
	InputPerK     float64 // USD per 1K input tokens
	OutputPerK    float64 // USD per 1K output tokens
}

var models = map[string]ModelInfo{
	// Hosted via the AI proxy (OpenAI-compatible names)
	"gpt-4o-mini": {
		Name:          "gpt-4o-mini",
		ContextTokens: 128000,
		InputPerK:     0.00015,
		OutputPerK:    0.0006,
	},
	"gpt-4o": {
		Name:          "gpt-4o",
		ContextTokens: 128000,
		InputPerK:     0.005,
		OutputPerK:    0.015,
	},
	"gpt-4.1-mini": {
		Name:          "gpt-4.1-mini",
		ContextTokens: 128000,
		InputPerK:     0.0004,
		OutputPerK:    0.0016,
	},
	"gpt-3.5-turbo": {
		Name:          "gpt-3.5-turbo",
		ContextTokens: 16385,
		InputPerK:     0.0005,
		OutputPerK:    0.0015,
	},
	// Common local (Ollama) tags
	"llama3:latest": {
		Name:          "llama3:latest",
		ContextTokens: 8192,
		InputPerK:     0.0,
		OutputPerK:    0.0,
	},
	"llama3.1:8b-instruct": {
		Name:          "llama3.1:8b-instruct",
		ContextTokens: 8192,
		InputPerK:     0.0,
		OutputPerK:    0.0,
	},
	"mistral:7b-instruct": {
		Name:          "mistral:7b-instruct",
		ContextTokens: 8192,
		InputPerK:     0.0,
		OutputPerK:    0.0,
	},
	"phi3:mini-4k-instruct": {
		Name:          "phi3:mini-4k-instruct",
		ContextTokens: 4096,
		InputPerK:     0.0,
		OutputPerK:    0.0,
	},
}

// LookupModel returns ModelInfo and ok flag.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[name]
	return mi, ok
}

// EstimateCostUSD estimates total cost in USD for given tokens using model
// pricing. If the model is unknown, returns 0 and ok=false.
func EstimateCostUSD(model string, promptTokens, completionTokens int) (float64, bool) {
	mi, ok := LookupModel(model)
	if !ok {
		return 0, false
	}
	inCost := (float64(promptTokens) / 1000.0) * mi.InputPerK
	outCost := (float64(completionTokens) / 1000.0) * mi.OutputPerK
	return inCost + outCost, true
}

// MergeCatalog merges/overrides entries in the in-memory catalog, used for
// user-supplied models from config.
func MergeCatalog(m map[string]ModelInfo) {
	for k, v := range m {
		models[k] = v
	}
}

// Catalog returns a shallow copy of the current model catalog.
func Catalog() map[string]ModelInfo {
	out := make(map[string]ModelInfo, len(models))
	for k, v := range models {
		out[k] = v
	}
	return out
}
