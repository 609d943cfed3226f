package api

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LeventeLantos/chat-compose/internal/model"
	"github.com/LeventeLantos/chat-compose/internal/service"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #f1f5f9; }
.container { max-width: 28rem; margin: 0 auto; }
.message { background: #fff; margin-bottom: .5rem; }
.meta { display: block; background: #e2e8f0; color: #64748b; }
.text { padding: .5rem; }
.draft .text { color: #64748b; }
.error { background: #fee2e2; color: #991b1b; padding: .5rem; }
textarea { display: block; width: 100%; }
button { width: 100%; margin-top: .5rem; padding: .5rem 1rem; background: #60a5fa; }
button[disabled] { background: #9ca3af; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
{{if .LoadError}}<div class="error">Could not load messages: {{.LoadError}}</div>{{end}}
{{if .FormError}}<div class="error">{{.FormError}}</div>{{end}}
<div class="messages">
{{range .Messages}}{{template "message" .}}{{end}}
</div>
{{with .Preview}}{{template "message" .}}{{end}}
<form method="post" action="/compose">
<label>
<div>Write Message</div>
<textarea name="text" required>{{.Draft.Text}}</textarea>
</label>
<button type="submit"{{if .Pending}} disabled{{end}}>Send</button>
</form>
</div>
</body>
</html>
{{define "message"}}<div class="message {{.Message.Status}}"><span class="meta">#{{.No}} - {{.Message.Status}}</span><div class="text">{{.Message.Text}}</div></div>{{end}}
`))

type messageView struct {
	No      string
	Message model.Message
}

type pageView struct {
	Title     string
	Messages  []messageView
	Preview   *messageView
	Draft     model.Message
	Pending   bool
	LoadError string
	FormError string
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "")
}

// SubmitForm handles the HTML form; success redirects back to the page.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, http.StatusBadRequest, "invalid form")
		return
	}

	if _, err := h.composer.SubmitText(r.Context(), r.PostForm.Get("text")); err != nil {
		h.renderFormError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderFormError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyText):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInFlight):
		status = http.StatusConflict
	}
	h.renderPage(w, status, err.Error())
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, formErr string) {
	msgs := h.store.All()
	draft := h.composer.Draft()

	v := pageView{
		Title:     h.title,
		Messages:  make([]messageView, 0, len(msgs)),
		Draft:     draft,
		Pending:   draft.Status == model.Pending,
		FormError: formErr,
	}
	for i, m := range msgs {
		v.Messages = append(v.Messages, messageView{No: strconv.Itoa(i), Message: m})
	}
	if !draft.Empty() {
		v.Preview = &messageView{No: "preview", Message: draft}
	}
	if err := h.store.LoadError(); err != nil {
		v.LoadError = err.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, v); err != nil {
		slog.Error("render page failed", "err", err)
	}
}
