package analysis

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// Temperature leans deterministic to favor consistency over creativity.
const Temperature = 0.2

const promptTemplate = `You are an expert AI legal assistant named LexiGuard. Your purpose is to demystify complex legal documents for the average person and provide clear, actionable insights.
Analyze the following legal document content. Your analysis must be structured according to the provided JSON schema.
Do not provide legal advice. Your goal is to simplify, highlight risks, and suggest concrete next steps.
Focus on extracting specific, actionable information like deadlines, required actions, and potential risks.
The user needs to understand what they are agreeing to and what they need to do next.

Here is the document content:
%s`

// BuildRequest constructs the provider payload for one submission: the
// instructional prompt embedding the pasted text verbatim, plus the decoded
// file attachment when present. The binary part is placed before the text
// part; the provider weights leading parts as primary context.
func BuildRequest(in types.DocumentInput) (llm.GenerateRequest, error) {
	if in.Empty() {
		return llm.GenerateRequest{}, ErrInvalidInput
	}

	parts := make([]llm.Part, 0, 2)
	if in.File != nil && in.File.DataURL != "" {
		mimeType, data, err := DecodeDataURL(in.File.DataURL)
		if err != nil {
			return llm.GenerateRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		parts = append(parts, llm.BlobPart(mimeType, data))
	}
	parts = append(parts, llm.TextPart(fmt.Sprintf(promptTemplate, in.Text)))

	return llm.GenerateRequest{
		Parts:       parts,
		Schema:      ResponseSchema,
		Temperature: Temperature,
	}, nil
}

// DecodeDataURL splits a data URL into its declared MIME type and decoded
// payload. The MIME type is the segment between "data:" and the first ";"
// or ","; the payload is the base64 segment after the comma.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data url")
	}
	head, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, fmt.Errorf("data url has no payload")
	}
	mimeType := strings.TrimPrefix(head, "data:")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		return "", nil, fmt.Errorf("data url declares no content type")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mimeType, data, nil
}
