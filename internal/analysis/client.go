package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// Client issues analysis calls and decodes the structured response. It has
// no side effects beyond the network call; persistence is the caller's job.
type Client struct {
	llm llm.Client
}

func NewClient(c llm.Client) *Client {
	return &Client{llm: c}
}

// Analyze performs one remote call and validates the response shape.
// Every failure path returns *AnalysisFailedError with the cause preserved.
func (c *Client) Analyze(ctx context.Context, req llm.GenerateRequest) (types.AnalysisResult, error) {
	raw, err := c.llm.GenerateJSON(ctx, req)
	if err != nil {
		return types.AnalysisResult{}, &AnalysisFailedError{Err: err}
	}

	// Presence probe: a missing summary or a wholly absent actionChecklist
	// field marks the response malformed, an empty checklist does not.
	var probe struct {
		Summary         *string   `json:"summary"`
		ActionChecklist *[]string `json:"actionChecklist"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return types.AnalysisResult{}, &AnalysisFailedError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	if probe.Summary == nil || *probe.Summary == "" || probe.ActionChecklist == nil {
		return types.AnalysisResult{}, &AnalysisFailedError{Err: fmt.Errorf("invalid analysis structure received from API")}
	}

	var res types.AnalysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return types.AnalysisResult{}, &AnalysisFailedError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	res.Normalize()
	return res, nil
}
