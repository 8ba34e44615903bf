package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/preethiayinampudi/LexiGuard/internal/analysis"
	"github.com/preethiayinampudi/LexiGuard/internal/chat"
	"github.com/preethiayinampudi/LexiGuard/internal/history"
	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// State is the submission lifecycle: idle -> submitting -> ready|failed.
// The chatting flag toggles on top of ready without re-entering submission.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

var ErrSubmissionInFlight = errors.New("app: a submission is already in flight")

// Profile is the usage surface derived from history.
type Profile struct {
	TotalAnalyses int    `json:"totalAnalyses"`
	LastAnalysis  string `json:"lastAnalysis,omitempty"`
}

// Controller orchestrates view transitions, owns the active document
// context, and coordinates history writes after a successful analysis.
type Controller struct {
	llm      llm.Client
	analyzer *analysis.Client
	store    history.Store
	now      func() time.Time

	mu       sync.Mutex
	state    State
	chatting bool
	result   *types.AnalysisResult
	document *types.DocumentInput
	errMsg   string
	history  []types.HistoryItem
	session  *chat.Session
}

func NewController(client llm.Client, store history.Store) *Controller {
	return &Controller{
		llm:      client,
		analyzer: analysis.NewClient(client),
		store:    store,
		now:      time.Now,
		state:    StateIdle,
	}
}

// LoadHistory primes the cached history list from the store. Load failures
// degrade to an empty list and never block startup.
func (c *Controller) LoadHistory(ctx context.Context) {
	items, err := c.store.Load(ctx)
	if err != nil {
		log.Printf("app: load history failed: %v", err)
		items = []types.HistoryItem{}
	}
	c.mu.Lock()
	c.history = items
	c.mu.Unlock()
}

// Submit runs one analysis. Invalid input is rejected before any remote
// call; a validated submission enters submitting, and on success the
// result is written through the history store before ready is entered.
func (c *Controller) Submit(ctx context.Context, in types.DocumentInput) (types.AnalysisResult, error) {
	req, err := analysis.BuildRequest(in)
	if err != nil {
		// User-correctable: surfaced inline, no remote call, no pending
		// analysis left behind.
		c.mu.Lock()
		if c.state != StateSubmitting {
			c.state = StateFailed
			c.errMsg = err.Error()
		}
		c.mu.Unlock()
		return types.AnalysisResult{}, err
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return types.AnalysisResult{}, ErrSubmissionInFlight
	}
	c.closeSessionLocked()
	c.state = StateSubmitting
	c.result = nil
	c.errMsg = ""
	c.document = &in
	c.mu.Unlock()

	res, err := c.analyzer.Analyze(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.errMsg = fmt.Sprintf("Failed to analyze the document. %s. Please check your API key and try again.", err.Error())
		return types.AnalysisResult{}, err
	}

	item := c.newHistoryItemLocked(in, res)
	updated, storeErr := c.store.Append(ctx, item)
	if storeErr != nil {
		log.Printf("app: append history failed: %v", storeErr)
	}
	if updated != nil {
		c.history = updated
	}
	c.result = &res
	c.state = StateReady
	return res, nil
}

func (c *Controller) newHistoryItemLocked(in types.DocumentInput, res types.AnalysisResult) types.HistoryItem {
	now := c.now().UTC()
	title := ""
	if in.File != nil {
		title = in.File.Name
	}
	if title == "" {
		title = "Text Analysis - " + now.Format("1/2/2006")
	}
	stamp := now.Format(time.RFC3339Nano)
	item := types.HistoryItem{
		ID:           stamp,
		Title:        title,
		Date:         stamp,
		Analysis:     res,
		OriginalText: in.Text,
	}
	if in.File != nil && in.File.DataURL != "" {
		item.OriginalFile = &types.FileAttachment{DataURL: in.File.DataURL, Name: in.File.Name}
	}
	return item
}

// SelectHistory restores a previously computed result and its originating
// document context straight into ready. Submitting is never entered and no
// remote call is made.
func (c *Controller) SelectHistory(id string) (types.HistoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.history {
		if h.ID != id {
			continue
		}
		res := h.Analysis
		doc := h.Document()
		c.closeSessionLocked()
		c.result = &res
		c.document = &doc
		c.errMsg = ""
		c.state = StateReady
		return h, nil
	}
	return types.HistoryItem{}, history.ErrNotFound
}

// Reset returns to idle, clearing result, error, and document context
// together. Partial resets are a correctness bug.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSessionLocked()
	c.state = StateIdle
	c.result = nil
	c.document = nil
	c.errMsg = ""
}

// ResetHistory wipes the whole persisted store and the cached list.
func (c *Controller) ResetHistory(ctx context.Context) error {
	if err := c.store.Reset(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
	return nil
}

// OpenChat toggles ready -> chatting with a fresh session built from the
// current document context. Sessions never carry over between documents.
func (c *Controller) OpenChat(ctx context.Context) (*chat.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady || c.result == nil {
		return nil, fmt.Errorf("app: no analysis to chat about")
	}
	if c.session != nil {
		return c.session, nil
	}
	docCtx := chat.Context{AnalysisSummary: c.result.Summary}
	if c.document != nil {
		docCtx.DocumentText = c.document.Text
		if c.document.File != nil {
			docCtx.FileName = c.document.File.Name
		}
	}
	session, err := chat.NewSession(ctx, c.llm, docCtx)
	if err != nil {
		return nil, err
	}
	c.session = session
	c.chatting = true
	return session, nil
}

// CloseChat discards the session and returns to ready.
func (c *Controller) CloseChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSessionLocked()
}

func (c *Controller) closeSessionLocked() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	c.chatting = false
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Chatting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatting
}

// ErrorMessage returns the message of the last failed submission.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) Result() (types.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return types.AnalysisResult{}, false
	}
	return *c.result, true
}

func (c *Controller) Document() (types.DocumentInput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.document == nil {
		return types.DocumentInput{}, false
	}
	return *c.document, true
}

// History returns the cached list for the current session, newest first.
func (c *Controller) History() []types.HistoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.HistoryItem(nil), c.history...)
}

func (c *Controller) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := Profile{TotalAnalyses: len(c.history)}
	if len(c.history) > 0 {
		p.LastAnalysis = c.history[0].Date
	}
	return p
}
