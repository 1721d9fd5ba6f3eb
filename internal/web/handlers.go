package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/uikit/internal/core"
	"github.com/JonMunkholm/uikit/internal/logging"
	"github.com/JonMunkholm/uikit/internal/ui"
	"github.com/JonMunkholm/uikit/internal/web/templates"
)

// multipartOverhead is the request body allowance beyond the preview limit,
// so that files slightly over the limit reach the size check.
const multipartOverhead = 1 << 20

// handleHealth reports liveness and preview limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"previews": s.service.Limiter().Status(),
	})
}

// handleDashboard renders the table and form index.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	byGroup := s.service.ListTablesByGroup()

	var groups []templates.TableGroup
	for _, name := range core.Groups() {
		groups = append(groups, templates.TableGroup{Name: name, Tables: byGroup[name]})
	}

	s.renderPage(w, r, http.StatusOK, "Dashboard", templates.Dashboard(groups, core.Forms()))
}

// handleListTables returns all tables organized by group.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.ListTablesByGroup())
}

// handleTableView renders one page of a table with the requested sort and
// search applied. HTMX requests get the table fragment only.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "tableKey")
	q := r.URL.Query()

	view, err := s.service.TableView(r.Context(), key, core.ViewParams{
		Page:   parseIntParam(r, "page", 1),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Search: strings.TrimSpace(q.Get("q")),
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	markup, err := view.HTML()
	if err != nil {
		s.respondError(w, r, fmt.Errorf("render table: %w", err), http.StatusInternalServerError)
		return
	}

	if isHTMX(r) {
		if view.Search != "" && view.Visible == 0 {
			n := newNotifier(r.Context())
			n.Notify(ui.NoResultsText, ui.LevelInfo)
			n.apply(w)
		}
		writeHTML(w, r, http.StatusOK, templ.Raw(markup))
		return
	}
	s.renderPage(w, r, http.StatusOK, view.Info.Label, templ.Raw(markup))
}

// handleFormView renders an empty form.
func (s *Server) handleFormView(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.FormView(chi.URLParam(r, "formKey"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.renderForm(w, r, http.StatusOK, view, "", "")
}

// handleFormSubmit validates a posted form and renders it again with error
// markers. Plain posts get 422 when invalid; HTMX posts always get 200 so
// that the fragment is swapped in.
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form body")
		return
	}

	key := chi.URLParam(r, "formKey")
	view, err := s.service.ValidateForm(key, r.PostForm)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(r.Context(), "form", key).Info("form submitted",
		"valid", view.Valid,
		"invalid_fields", len(view.Errors),
	)

	if wantsJSON(r) {
		status := http.StatusOK
		if !view.Valid {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, r, status, map[string]any{"valid": view.Valid, "errors": view.Errors})
		return
	}

	if !view.Valid {
		status := http.StatusUnprocessableEntity
		if isHTMX(r) {
			status = http.StatusOK
		}
		s.renderForm(w, r, status, view, "warning", core.MapError(errValidation).Message)
		return
	}
	s.renderForm(w, r, http.StatusOK, view, "success", "Thanks, your form was submitted.")
}

var errValidation = errors.New("validation failed")

// renderForm writes the form, preceded by an alert when message is set.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, view *core.FormView, level, message string) {
	markup, err := view.HTML()
	if err != nil {
		s.respondError(w, r, fmt.Errorf("render form: %w", err), http.StatusInternalServerError)
		return
	}
	body := templ.Component(templ.Raw(markup))
	if message != "" {
		body = templates.Alert(level, message, body)
	}
	if isHTMX(r) {
		writeHTML(w, r, status, body)
		return
	}
	s.renderPage(w, r, status, view.Definition.Label, body)
}

// handlePreview validates an uploaded image and returns its preview.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Preview.MaxSize+multipartOverhead)
	if err := r.ParseMultipartForm(s.cfg.Preview.MaxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, fmt.Errorf("%s: %w", ui.ErrFileTooLarge, err), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile, http.StatusBadRequest)
		return
	}

	n := newNotifier(r.Context())
	result, err := s.service.Preview(r.Context(), ui.FileFromHeader(header), n)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if !result.Accepted {
		status = http.StatusUnprocessableEntity
	}

	if isHTMX(r) {
		n.apply(w)
		// htmx does not swap error responses; the notification carries the reason
		writeHTML(w, r, status, templ.Raw(result.Markup))
		return
	}

	resp := map[string]any{
		"accepted": result.Accepted,
		"file":     header.Filename,
		"size":     ui.FormatFileSize(header.Size),
	}
	if result.Accepted {
		resp["markup"] = result.Markup
	} else {
		msg := core.MapError(errors.New(result.Reason))
		resp["reason"] = result.Reason
		resp["code"] = msg.Code
	}
	if items := n.notifications(); len(items) > 0 {
		resp["notifications"] = items
	}
	writeJSON(w, r, status, resp)
}

// handleConfirm renders a shown confirmation dialog.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	message := strings.TrimSpace(q.Get("message"))
	if message == "" {
		writeError(w, r, http.StatusBadRequest, "missing message")
		return
	}

	markup, err := s.service.ConfirmView(core.ConfirmParams{
		Message:     message,
		Title:       q.Get("title"),
		ConfirmText: q.Get("confirm_text"),
		CancelText:  q.Get("cancel_text"),
		ConfirmType: q.Get("confirm_type"),
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeHTML(w, r, http.StatusOK, templ.Raw(markup))
}

// handleFileSize formats ?bytes= for display.
func (s *Server) handleFileSize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("bytes")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bytes must be an integer")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"bytes": n, "formatted": ui.FormatFileSize(n)})
}

// handlePagination renders a pagination control for ?current=&total=, with
// links to ?base= (default: the dashboard).
func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	total := parseIntParam(r, "total", 1)
	current := parseIntParam(r, "current", 1)
	base := r.URL.Query().Get("base")
	if !isLocalPath(base) {
		base = "/"
	}

	markup, items, err := s.service.PaginationView(current, total, base)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if isHTMX(r) {
		writeHTML(w, r, http.StatusOK, templ.Raw(markup))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items, "markup": markup})
}

// isLocalPath reports whether p is a path on this host. Protocol-relative
// forms such as //host or /\host point elsewhere.
func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	writeHTML(w, r, status, templates.Layout(title, body))
}

func writeHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render", "error", err)
	}
}
