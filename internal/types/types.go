package types

// AnalysisResult is the structured output produced for one submitted
// document. It is created once per successful model call and never mutated
// afterwards; history items embed it by value.
type AnalysisResult struct {
	Summary             string      `json:"summary"`
	CriticalAlerts      []string    `json:"criticalAlerts"`
	Deadlines           []Deadline  `json:"deadlines"`
	ActionChecklist     []string    `json:"actionChecklist"`
	RelevantAuthorities []Authority `json:"relevantAuthorities"`
	Suggestions         []string    `json:"suggestions"`
}

// Deadline is one dated obligation extracted from the document.
type Deadline struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Authority is a government body or regulator the document references.
type Authority struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Normalize replaces nil array fields with empty slices so the result
// always encodes arrays as [] rather than null.
func (r *AnalysisResult) Normalize() {
	if r.CriticalAlerts == nil {
		r.CriticalAlerts = []string{}
	}
	if r.Deadlines == nil {
		r.Deadlines = []Deadline{}
	}
	if r.ActionChecklist == nil {
		r.ActionChecklist = []string{}
	}
	if r.RelevantAuthorities == nil {
		r.RelevantAuthorities = []Authority{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
}

// FileAttachment is an uploaded file encoded as a data URL
// (base64 payload with a leading declared MIME type).
type FileAttachment struct {
	DataURL string `json:"dataUrl"`
	Name    string `json:"name"`
}

// DocumentInput is one submission: pasted text, an uploaded file, or both.
// It is ephemeral and never persisted standalone.
type DocumentInput struct {
	Text string          `json:"text"`
	File *FileAttachment `json:"file,omitempty"`
}

// Empty reports whether the input carries neither text nor file data.
// An empty input must not be submitted for analysis.
func (d DocumentInput) Empty() bool {
	return d.Text == "" && (d.File == nil || d.File.DataURL == "")
}

// HistoryItem is one persisted record per successful analysis.
// The original document snapshot is retained so a later chat session can
// reference the full source text.
type HistoryItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Date         string          `json:"date"`
	Analysis     AnalysisResult  `json:"analysis"`
	OriginalText string          `json:"originalText,omitempty"`
	OriginalFile *FileAttachment `json:"originalFile,omitempty"`
}

// Document reconstructs the DocumentInput this item was produced from.
func (h HistoryItem) Document() DocumentInput {
	return DocumentInput{Text: h.OriginalText, File: h.OriginalFile}
}

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn in a follow-up conversation. Messages live only
// for the duration of a chat session and are never persisted.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
