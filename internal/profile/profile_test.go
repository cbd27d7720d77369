package profile

import (
	"testing"
)

func TestValidateModeFallback(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantMode string
	}{
		{name: "dev stays dev", mode: "dev", wantMode: "dev"},
		{name: "prod stays prod", mode: "prod", wantMode: "prod"},
		{name: "unknown falls back to demo", mode: "staging", wantMode: "demo"},
		{name: "empty falls back to demo", mode: "", wantMode: "demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Mode: tt.mode, Data: t.TempDir()}
			if err := p.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if p.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", p.Mode, tt.wantMode)
			}
		})
	}
}

func TestValidateUploadCapDefault(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir()}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want %d", p.MaxUploadBytes, DefaultMaxUploadBytes)
	}

	p = &Profile{Mode: "dev", Data: t.TempDir(), MaxUploadBytes: 1 << 20}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.MaxUploadBytes != 1<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", p.MaxUploadBytes, 1<<20)
	}
}

func TestFromEnvProviderDefaults(t *testing.T) {
	t.Setenv("DOCBRIEF_AI_LLM_PROVIDER", "deepseek")
	t.Setenv("DOCBRIEF_AI_LLM_API_KEY", "sk-test")
	t.Setenv("DOCBRIEF_AI_LLM_BASE_URL", "")
	t.Setenv("DOCBRIEF_AI_LLM_MODEL", "")

	p := &Profile{}
	p.FromEnv()

	if p.LLMBaseURL != "https://api.deepseek.com" {
		t.Errorf("LLMBaseURL = %q, want deepseek default", p.LLMBaseURL)
	}
	if p.LLMModel != "deepseek-chat" {
		t.Errorf("LLMModel = %q, want deepseek-chat", p.LLMModel)
	}
	if !p.IsLLMEnabled() {
		t.Error("IsLLMEnabled() = false, want true when API key set")
	}
}

func TestFromEnvUnknownProvider(t *testing.T) {
	t.Setenv("DOCBRIEF_AI_LLM_PROVIDER", "parrot")
	t.Setenv("DOCBRIEF_AI_LLM_API_KEY", "")
	t.Setenv("DOCBRIEF_AI_LLM_BASE_URL", "")
	t.Setenv("DOCBRIEF_AI_LLM_MODEL", "")

	p := &Profile{}
	p.FromEnv()

	if p.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai fallback", p.LLMProvider)
	}
	if p.IsLLMEnabled() {
		t.Error("IsLLMEnabled() = true, want false without API key")
	}
}
