package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/LeventeLantos/chat-compose/internal/model"
	"github.com/LeventeLantos/chat-compose/internal/service"
	"github.com/LeventeLantos/chat-compose/internal/store"
)

type Handler struct {
	store    *store.Store
	composer *service.Composer
	title    string
}

func NewHandler(s *store.Store, c *service.Composer) *Handler {
	return &Handler{store: s, composer: c, title: "Chat"}
}

type composeRequest struct {
	Text *string `json:"text"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"messages": h.store.All()}
	if err := h.store.LoadError(); err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) GetCompose(w http.ResponseWriter, r *http.Request) {
	writeDraft(w, http.StatusOK, h.composer.Draft())
}

func (h *Handler) UpdateCompose(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompose(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if err := h.composer.SetText(*req.Text); err != nil {
		writeComposeError(w, err)
		return
	}
	writeDraft(w, http.StatusOK, h.composer.Draft())
}

func (h *Handler) SubmitCompose(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCompose(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var msg model.Message
	if req.Text != nil {
		msg, err = h.composer.SubmitText(r.Context(), *req.Text)
	} else {
		msg, err = h.composer.Submit(r.Context())
	}
	if err != nil {
		writeComposeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"draft":   h.composer.Draft(),
	})
}

// decodeCompose accepts an empty body as a request without text.
func decodeCompose(r *http.Request) (composeRequest, error) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, errors.New("invalid json body")
	}
	return req, nil
}

func writeComposeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInFlight):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeDraft(w http.ResponseWriter, status int, d model.Message) {
	writeJSON(w, status, map[string]any{"draft": d, "empty": d.Empty()})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
