package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Fake is a scripted client for offline use and tests. GenerateFn and
// ChatFn override the canned behavior; calls are recorded for assertions.
type Fake struct {
	GenerateFn func(ctx context.Context, req GenerateRequest) (json.RawMessage, error)
	ChatFn     func(ctx context.Context, message string) (string, error)

	mu          sync.Mutex
	requests    []GenerateRequest
	chatConfigs []ChatConfig
}

func (f *Fake) Name() string { return "FakeLLM" }
func (f *Fake) Close() error { return nil }

func (f *Fake) GenerateJSON(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.GenerateFn != nil {
		return f.GenerateFn(ctx, req)
	}
	obj := map[string]any{
		"summary":             "fake summary",
		"criticalAlerts":      []string{},
		"deadlines":           []any{},
		"actionChecklist":     []string{},
		"relevantAuthorities": []any{},
		"suggestions":         []string{},
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

func (f *Fake) NewChat(_ context.Context, cfg ChatConfig) (ChatSession, error) {
	f.mu.Lock()
	f.chatConfigs = append(f.chatConfigs, cfg)
	f.mu.Unlock()
	return &fakeChat{parent: f}, nil
}

// Requests returns every generate request seen so far.
func (f *Fake) Requests() []GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GenerateRequest(nil), f.requests...)
}

// ChatConfigs returns the config of every chat session created so far.
func (f *Fake) ChatConfigs() []ChatConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChatConfig(nil), f.chatConfigs...)
}

type fakeChat struct {
	parent *Fake
}

func (c *fakeChat) Send(ctx context.Context, message string) (string, error) {
	if c.parent.ChatFn != nil {
		return c.parent.ChatFn(ctx, message)
	}
	return "fake reply to: " + message, nil
}
