package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

func mustBuild(t *testing.T, text string) llm.GenerateRequest {
	t.Helper()
	req, err := BuildRequest(types.DocumentInput{Text: text})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return req
}

func scripted(raw string, err error) *llm.Fake {
	return &llm.Fake{
		GenerateFn: func(context.Context, llm.GenerateRequest) (json.RawMessage, error) {
			if err != nil {
				return nil, err
			}
			return json.RawMessage(raw), nil
		},
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	raw := `{
	  "summary": "A one-year lease that renews automatically.",
	  "criticalAlerts": ["Auto-renewal unless cancelled 90 days prior."],
	  "deadlines": [{"date": "90 days before term end", "description": "Cancellation window"}],
	  "actionChecklist": ["Calendar the cancellation deadline."],
	  "relevantAuthorities": [],
	  "suggestions": ["Negotiate a shorter renewal term."]
	}`
	c := NewClient(scripted(raw, nil))

	res, err := c.Analyze(context.Background(), mustBuild(t, "lease text"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Summary == "" {
		t.Fatalf("summary must be non-empty on success")
	}
	if len(res.CriticalAlerts) != 1 || !strings.Contains(res.CriticalAlerts[0], "Auto-renewal") {
		t.Fatalf("unexpected alerts: %v", res.CriticalAlerts)
	}
	if len(res.Deadlines) != 1 || res.Deadlines[0].Date == "" || res.Deadlines[0].Description == "" {
		t.Fatalf("unexpected deadlines: %v", res.Deadlines)
	}
}

func TestAnalyzeNormalizesMissingArrays(t *testing.T) {
	// actionChecklist present but empty; the remaining arrays absent.
	raw := `{"summary": "ok", "actionChecklist": []}`
	c := NewClient(scripted(raw, nil))

	res, err := c.Analyze(context.Background(), mustBuild(t, "doc"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.CriticalAlerts == nil || res.Deadlines == nil || res.ActionChecklist == nil ||
		res.RelevantAuthorities == nil || res.Suggestions == nil {
		t.Fatalf("array fields must be present (possibly empty), never nil: %+v", res)
	}
}

func TestAnalyzeMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "I am not JSON"},
		{name: "missing summary", raw: `{"actionChecklist": []}`},
		{name: "empty summary", raw: `{"summary": "", "actionChecklist": []}`},
		{name: "missing actionChecklist", raw: `{"summary": "ok"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(scripted(tc.raw, nil))
			_, err := c.Analyze(context.Background(), mustBuild(t, "doc"))
			var afe *AnalysisFailedError
			if !errors.As(err, &afe) {
				t.Fatalf("expected AnalysisFailedError, got %v", err)
			}
		})
	}
}

func TestAnalyzePreservesCauseMessage(t *testing.T) {
	cause := errors.New("deadline exceeded talking to upstream")
	c := NewClient(scripted("", cause))

	_, err := c.Analyze(context.Background(), mustBuild(t, "doc"))
	var afe *AnalysisFailedError
	if !errors.As(err, &afe) {
		t.Fatalf("expected AnalysisFailedError, got %v", err)
	}
	if !strings.Contains(afe.Error(), cause.Error()) {
		t.Fatalf("error %q does not preserve cause %q", afe.Error(), cause.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must remain reachable via errors.Is")
	}
}
