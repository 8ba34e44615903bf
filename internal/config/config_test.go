package config

import "testing"

func TestLoadIsReentrant(t *testing.T) {
	// A second call must not re-register flags on the global set.
	for i := 0; i < 2; i++ {
		if _, err := load(nil); err != nil {
			t.Fatalf("load #%d: %v", i+1, err)
		}
	}
}

func TestLoadPortResolution(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != ":8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}

	cfg, err = load([]string{"-port", ":9000"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != ":9000" {
		t.Fatalf("flag port = %q", cfg.Port)
	}

	// PORT wins over the flag and gets a leading colon when missing.
	t.Setenv("PORT", "7777")
	cfg, err = load([]string{"-port", ":9000"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != ":7777" {
		t.Fatalf("env port = %q", cfg.Port)
	}
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	if _, err := load([]string{"-bogus"}); err == nil {
		t.Fatalf("unknown flag must surface as an error")
	}
}

func TestLLMConfigDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	if got := loadLLMConfig(); got.Provider != "gemini" || got.Model != "gemini-2.5-flash" {
		t.Fatalf("gemini defaults = %+v", got)
	}

	t.Setenv("LLM_PROVIDER", "openai")
	if got := loadLLMConfig(); got.Model != "gpt-4o-mini" {
		t.Fatalf("openai default model = %q", got.Model)
	}
}
