package narrative

import "testing"

func TestGetRuntimeBuiltins(t *testing.T) {
	rt, ok := GetRuntime(ProviderAIProxy, RuntimeConfig{APIKey: "k"})
	if !ok {
		t.Fatalf("aiproxy runtime not registered")
	}
	if _, isClient := rt.(*Client); !isClient {
		t.Fatalf("expected *Client, got %T", rt)
	}

	rt, ok = GetRuntime(ProviderOllama, RuntimeConfig{})
	if !ok {
		t.Fatalf("ollama runtime not registered")
	}
	if _, isOllama := rt.(*OllamaClient); !isOllama {
		t.Fatalf("expected *OllamaClient, got %T", rt)
	}
}

func TestGetRuntimeUnknown(t *testing.T) {
	if _, ok := GetRuntime("mystery", RuntimeConfig{}); ok {
		t.Fatalf("unknown provider should not resolve")
	}
}

func TestRegisterRuntimeCustom(t *testing.T) {
	RegisterRuntime("fake-provider", func(RuntimeConfig) Runtime {
		return &fakeRuntime{resp: &GenerateResponse{}}
	})
	rt, ok := GetRuntime("fake-provider", RuntimeConfig{})
	if !ok || rt == nil {
		t.Fatalf("custom provider should resolve")
	}
}
