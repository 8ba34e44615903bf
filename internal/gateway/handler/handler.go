package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/preethiayinampudi/LexiGuard/internal/app"
)

// Handler serves the browser-facing JSON API on top of the state
// controller.
type Handler struct {
	app *app.Controller
}

func New(ctrl *app.Controller) *Handler {
	return &Handler{app: ctrl}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
