package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// Part is one element of a provider payload: either text or inline binary
// data. Binary when Data is non-nil.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Text: text} }

// BlobPart builds an inline binary part with a declared MIME type.
func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Schema is a provider-neutral output schema declaration. The Gemini client
// maps it to the SDK's native schema type; clients without structured-output
// support fold it into the prompt.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
)

// GenerateRequest is one structured-output call. When both a binary and a
// text part are present, the binary part comes first in Parts; providers
// must preserve the order.
type GenerateRequest struct {
	Parts       []Part
	Schema      *Schema
	Temperature float32
}

// ChatConfig fixes the context of a multi-turn conversation. The system
// instruction cannot change after session creation.
type ChatConfig struct {
	SystemInstruction string
	Temperature       float32
}

// ChatSession is one ongoing conversation with the model. Implementations
// retain prior turns, either provider-side or by resending the transcript.
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
}

// Client is the remote model boundary. The response of GenerateJSON is raw
// untyped text; decoding it is the caller's fallible parse step.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, req GenerateRequest) (json.RawMessage, error)
	NewChat(ctx context.Context, cfg ChatConfig) (ChatSession, error)
	Close() error
}
