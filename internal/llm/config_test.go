package llm

import (
	"context"
	"testing"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"ASSESS_LLM_PROVIDER", "ASSESS_ANTHROPIC_API_KEY",
		"ASSESS_OPENAI_API_KEY", "ASSESS_GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ASSESS_LLM_PROVIDER", "openai")
	t.Setenv("ASSESS_OPENAI_API_KEY", "sk-test")
	t.Setenv("ASSESS_OPENAI_MODEL", "gpt-test")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-test" {
		t.Errorf("openai config = %+v", cfg.OpenAI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnv_DefaultsToMock(t *testing.T) {
	clearKeyEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Provider != "mock" {
		t.Errorf("provider = %q, want mock", cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDiscoverConfig_PriorityOrder(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("discovery failed with keys set")
	}
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini (highest priority)", cfg.Provider)
	}

	clearKeyEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Error("discovery succeeded with no keys")
	}
}

func TestValidate_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("anthropic without key: want error")
	}

	cfg.Provider = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider: want error")
	}
}

func TestNewProvider_MockIsBare(t *testing.T) {
	cfg := DefaultConfig()
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Errorf("mock provider wrapped: %T", p)
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "telegraph"
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Error("unknown provider: want error")
	}
}
