package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// Greeting seeds every session's visible transcript. It is fixed text, not
// a model call.
const Greeting = "Hello! I've reviewed your document. What specific questions do you have about it?"

// turnErrorMessage replaces the model turn when a remote call fails; the
// session stays usable for further turns.
const turnErrorMessage = "Sorry, I encountered an error. Please try again."

var (
	ErrTurnInFlight  = errors.New("chat: a turn is already in flight")
	ErrSessionClosed = errors.New("chat: session is closed")
	ErrEmptyMessage  = errors.New("chat: message is empty")
)

// Context carries everything the system instruction embeds. Sessions are
// created per document; the instruction is fixed at creation and a session
// is never reused across documents.
type Context struct {
	DocumentText    string
	FileName        string
	AnalysisSummary string
}

// SystemInstruction renders the fixed session preamble from the document
// context and the prior analysis summary.
func SystemInstruction(c Context) string {
	var b strings.Builder
	b.WriteString("You are LexiGuard AI, a helpful legal assistant. You are now in a chat with a user about a document you just analyzed for them.\n")
	b.WriteString("Here is the full content of the document for your reference:\n")
	if c.DocumentText != "" {
		fmt.Fprintf(&b, "--- START OF PASTED TEXT ---\n%s\n--- END OF PASTED TEXT ---\n", c.DocumentText)
	}
	if c.FileName != "" {
		fmt.Fprintf(&b, "The user also uploaded a file named: %s\n", c.FileName)
	}
	fmt.Fprintf(&b, "\nYour previous analysis summary was: %q.\n", c.AnalysisSummary)
	b.WriteString("Answer their questions clearly and concisely based on the full document's context provided above. Do not provide legal advice, but help them understand the document better by referencing specifics from the content.")
	return b.String()
}

// Session is one follow-up conversation about an analyzed document. Turns
// are strictly sequential: at most one in flight, transcript append-only.
type Session struct {
	id     string
	remote llm.ChatSession

	mu     sync.Mutex
	msgs   []types.ChatMessage
	busy   bool
	closed bool
}

// NewSession builds the system instruction from the document context,
// creates one provider chat session, and seeds the transcript with the
// greeting.
func NewSession(ctx context.Context, client llm.Client, docCtx Context) (*Session, error) {
	remote, err := client.NewChat(ctx, llm.ChatConfig{
		SystemInstruction: SystemInstruction(docCtx),
	})
	if err != nil {
		return nil, err
	}
	return &Session{
		id:     uuid.NewString(),
		remote: remote,
		msgs:   []types.ChatMessage{{Role: types.RoleModel, Content: Greeting}},
	}, nil
}

func (s *Session) ID() string { return s.id }

// Messages returns a copy of the transcript in send order.
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ChatMessage(nil), s.msgs...)
}

// Send appends the user turn and issues exactly one remote call. While a
// turn is awaiting, further sends are rejected with ErrTurnInFlight. A
// remote failure yields a fixed-text model message instead of an error. A
// result arriving after Close is dropped, never applied to the torn-down
// transcript.
func (s *Session) Send(ctx context.Context, text string) (types.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.ChatMessage{}, ErrSessionClosed
	}
	if s.busy {
		s.mu.Unlock()
		return types.ChatMessage{}, ErrTurnInFlight
	}
	s.busy = true
	s.msgs = append(s.msgs, types.ChatMessage{Role: types.RoleUser, Content: text})
	remote := s.remote
	s.mu.Unlock()

	reply, err := remote.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.closed {
		return types.ChatMessage{}, ErrSessionClosed
	}
	msg := types.ChatMessage{Role: types.RoleModel, Content: reply}
	if err != nil {
		log.Printf("chat turn failed (session %s): %v", s.id, err)
		msg.Content = turnErrorMessage
	}
	s.msgs = append(s.msgs, msg)
	return msg, nil
}

// Close discards the session and its transcript. Nothing is persisted.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.msgs = nil
	s.mu.Unlock()
}
