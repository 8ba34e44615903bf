package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preethiayinampudi/LexiGuard/internal/app"
	"github.com/preethiayinampudi/LexiGuard/internal/gateway/handler"
	"github.com/preethiayinampudi/LexiGuard/internal/gateway/server"
	"github.com/preethiayinampudi/LexiGuard/internal/history"
	"github.com/preethiayinampudi/LexiGuard/internal/llm"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

func newTestRouter(fake *llm.Fake) (http.Handler, *app.Controller) {
	ctrl := app.NewController(fake, history.NewMemoryStore())
	ctrl.LoadHistory(context.Background())
	return server.NewRouter(handler.New(ctrl)), ctrl
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	router, _ := newTestRouter(&llm.Fake{})

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", types.DocumentInput{Text: "contract body"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[struct {
		Analysis types.AnalysisResult `json:"analysis"`
		History  []types.HistoryItem  `json:"history"`
	}](t, rec)
	assert.Equal(t, "fake summary", out.Analysis.Summary)
	require.Len(t, out.History, 1)
	assert.Equal(t, "contract body", out.History[0].OriginalText)
}

func TestAnalyzeEndpointRejectsEmptyInput(t *testing.T) {
	fake := &llm.Fake{}
	router, _ := newTestRouter(fake)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", types.DocumentInput{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	out := decode[errorBody](t, rec)
	assert.Equal(t, "invalid_input", out.Code)
	assert.Empty(t, fake.Requests())
}

func TestAnalyzeEndpointRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(&llm.Fake{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[errorBody](t, rec).Code)
}

func TestAnalyzeEndpointSurfacesModelFailure(t *testing.T) {
	fake := &llm.Fake{
		GenerateFn: func(context.Context, llm.GenerateRequest) (json.RawMessage, error) {
			return nil, errors.New("model overloaded")
		},
	}
	router, _ := newTestRouter(fake)

	rec := doJSON(t, router, http.MethodPost, "/api/analyze", types.DocumentInput{Text: "doc"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	out := decode[errorBody](t, rec)
	assert.Equal(t, "analysis_failed", out.Code)
	assert.Contains(t, out.Message, "model overloaded")
	assert.Contains(t, out.Message, "Please check your API key and try again.")
}

func TestHistoryEndpoints(t *testing.T) {
	router, ctrl := newTestRouter(&llm.Fake{})

	rec := doJSON(t, router, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Items []types.HistoryItem `json:"items"`
	}](t, rec)
	assert.Empty(t, list.Items)

	rec = doJSON(t, router, http.MethodPost, "/api/analyze", types.DocumentInput{Text: "doc"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := ctrl.History()[0].ID

	rec = doJSON(t, router, http.MethodGet, "/api/history/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[types.HistoryItem](t, rec)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "doc", item.OriginalText)

	rec = doJSON(t, router, http.MethodGet, "/api/history/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/history", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ctrl.History())
}

func TestProfileEndpoint(t *testing.T) {
	router, ctrl := newTestRouter(&llm.Fake{})

	rec := doJSON(t, router, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[app.Profile](t, rec)
	assert.Zero(t, p.TotalAnalyses)

	doJSON(t, router, http.MethodPost, "/api/analyze", types.DocumentInput{Text: "doc"})

	rec = doJSON(t, router, http.MethodGet, "/api/profile", nil)
	p = decode[app.Profile](t, rec)
	assert.Equal(t, 1, p.TotalAnalyses)
	assert.Equal(t, ctrl.History()[0].Date, p.LastAnalysis)
}
