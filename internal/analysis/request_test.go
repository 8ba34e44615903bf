package analysis

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

func TestBuildRequestRejectsEmptyInput(t *testing.T) {
	_, err := BuildRequest(types.DocumentInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = BuildRequest(types.DocumentInput{File: &types.FileAttachment{Name: "x.pdf"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for file without data, got %v", err)
	}
}

func TestBuildRequestTextOnly(t *testing.T) {
	const text = "This lease auto-renews every year unless cancelled 90 days prior."
	req, err := BuildRequest(types.DocumentInput{Text: text})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(req.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(req.Parts))
	}
	if !strings.Contains(req.Parts[0].Text, text) {
		t.Fatalf("prompt does not embed the document text verbatim")
	}
	if !strings.Contains(req.Parts[0].Text, "LexiGuard") {
		t.Fatalf("prompt missing the instruction preamble")
	}
	if req.Schema != ResponseSchema {
		t.Fatalf("expected the fixed response schema")
	}
	if req.Temperature != Temperature {
		t.Fatalf("expected temperature %v, got %v", Temperature, req.Temperature)
	}
}

func TestBuildRequestPlacesAttachmentFirst(t *testing.T) {
	payload := []byte("%PDF-1.4 fake")
	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(payload)
	req, err := BuildRequest(types.DocumentInput{
		Text: "see attached",
		File: &types.FileAttachment{DataURL: dataURL, Name: "contract.pdf"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(req.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(req.Parts))
	}
	if req.Parts[0].Data == nil {
		t.Fatalf("binary part must come before the text part")
	}
	if req.Parts[0].MIMEType != "application/pdf" {
		t.Fatalf("expected mime application/pdf, got %q", req.Parts[0].MIMEType)
	}
	if string(req.Parts[0].Data) != string(payload) {
		t.Fatalf("payload not decoded from the base64 segment")
	}
	if req.Parts[1].Data != nil {
		t.Fatalf("second part should be the text instruction")
	}
}

func TestDecodeDataURL(t *testing.T) {
	cases := []struct {
		name    string
		dataURL string
		wantErr bool
		mime    string
	}{
		{name: "png", dataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), mime: "image/png"},
		{name: "no base64 marker", dataURL: "data:text/plain," + base64.StdEncoding.EncodeToString([]byte("hi")), mime: "text/plain"},
		{name: "not a data url", dataURL: "https://example.com/doc.pdf", wantErr: true},
		{name: "no comma", dataURL: "data:image/png;base64", wantErr: true},
		{name: "no mime", dataURL: "data:;base64,aGk=", wantErr: true},
		{name: "bad payload", dataURL: "data:image/png;base64,!!!", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mime, _, err := DecodeDataURL(tc.dataURL)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if mime != tc.mime {
				t.Fatalf("expected mime %q, got %q", tc.mime, mime)
			}
		})
	}
}

func TestResponseSchemaDeclaresAllFields(t *testing.T) {
	if ResponseSchema.Type != llm.TypeObject {
		t.Fatalf("schema root must be an object")
	}
	want := []string{"summary", "criticalAlerts", "deadlines", "actionChecklist", "relevantAuthorities", "suggestions"}
	for _, field := range want {
		prop, ok := ResponseSchema.Properties[field]
		if !ok {
			t.Fatalf("schema missing field %q", field)
		}
		if prop.Description == "" {
			t.Fatalf("field %q has no description", field)
		}
	}
	if len(ResponseSchema.Required) != len(want) {
		t.Fatalf("expected all %d fields required, got %v", len(want), ResponseSchema.Required)
	}
}
