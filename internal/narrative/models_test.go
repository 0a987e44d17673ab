package narrative

import (
	"math"
	"testing"
)

func TestLookupModel(t *testing.T) {
	mi, ok := LookupModel("gpt-4o-mini")
	if !ok {
		t.Fatalf("expected default model in catalog")
	}
	if mi.ContextTokens != 128000 {
		t.Fatalf("unexpected context window: %d", mi.ContextTokens)
	}
	if _, ok := LookupModel("no-such-model"); ok {
		t.Fatalf("unknown model should not resolve")
	}
}

func TestEstimateCostUSD(t *testing.T) {
	cost, ok := EstimateCostUSD("gpt-4o-mini", 10000, 1000)
	if !ok {
		t.Fatalf("expected known model")
	}
	want := 10.0*0.00015 + 1.0*0.0006
	if math.Abs(cost-want) > 1e-9 {
		t.Fatalf("cost = %v, want %v", cost, want)
	}
	if _, ok := EstimateCostUSD("no-such-model", 100, 100); ok {
		t.Fatalf("unknown model should report ok=false")
	}
}

func TestMergeCatalogAddsEntries(t *testing.T) {
	MergeCatalog(map[string]ModelInfo{
		"custom:test": {Name: "custom:test", ContextTokens: 2048},
	})
	mi, ok := LookupModel("custom:test")
	if !ok || mi.ContextTokens != 2048 {
		t.Fatalf("merged model not found: %+v ok=%v", mi, ok)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	c := Catalog()
	c["gpt-4o-mini"] = ModelInfo{Name: "mutated"}
	if mi, _ := LookupModel("gpt-4o-mini"); mi.Name == "mutated" {
		t.Fatalf("Catalog must not expose internal state")
	}
}
