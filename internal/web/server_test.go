package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/uikit/internal/catalog"
	"github.com/JonMunkholm/uikit/internal/config"
	"github.com/JonMunkholm/uikit/internal/core"
	"github.com/JonMunkholm/uikit/internal/store"
)

func newTestServer(t *testing.T, env map[string]string) *Server {
	t.Helper()
	vars := map[string]string{"RATE_LIMIT_ENABLED": "false"}
	for k, v := range env {
		vars[k] = v
	}
	cfg, err := config.LoadFrom(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	src := store.NewMemorySource()
	catalog.Seed(src)
	svc := core.NewService(src, core.Options{
		PageSize:              cfg.Table.PageSize,
		Locale:                cfg.Table.LocaleTag(),
		PreviewMaxSize:        cfg.Preview.MaxSize,
		AllowedTypes:          cfg.Preview.AllowedTypes,
		MaxConcurrentPreviews: cfg.Preview.MaxConcurrent,
		PreviewWait:           cfg.Preview.MaxWaitTime,
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() {
		for _, l := range s.limiters {
			l.stop()
		}
	})
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status   string                    `json:"status"`
		Previews core.PreviewLimiterStatus `json:"previews"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseBody(t, rec)
	for _, href := range []string{"/tables/users", "/tables/files", "/forms/contact", "/forms/signup"} {
		if doc.Find(`a[href="`+href+`"]`).Length() == 0 {
			t.Errorf("dashboard has no link to %s", href)
		}
	}
}

func TestTableView(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("full page", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/tables/users", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		doc := parseBody(t, rec)
		if doc.Find("html head title").Length() == 0 {
			t.Error("expected full page layout")
		}
		if n := doc.Find("#users-table tbody tr").Length(); n != 10 {
			t.Errorf("rows = %d, want 10", n)
		}
		if doc.Find("#users-pagination ul.pagination").Length() == 0 {
			t.Error("expected pagination for 12 rows at page size 10")
		}
	})

	t.Run("sorted fragment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tables/users?sort=city&dir=desc", nil)
		req.Header.Set("HX-Request", "true")
		rec := serve(s, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		doc := parseBody(t, rec)
		if doc.Find("head title").Length() != 0 {
			t.Error("HTMX response should be a fragment")
		}
		th := doc.Find(`#users-table th[data-sort="city"]`)
		if got, _ := th.Attr("data-order"); got != "desc" {
			t.Errorf("data-order = %q, want desc", got)
		}
		if th.Find("i.fa-sort-down").Length() != 1 {
			t.Error("expected a descending indicator")
		}
		first := doc.Find("#users-table tbody tr").First().Find("td[data-city]").Text()
		if first != "Peru" {
			t.Errorf("first city = %q, want Peru", first)
		}
	})

	t.Run("search without results notifies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tables/users?q=zzz", nil)
		req.Header.Set("HX-Request", "true")
		rec := serve(s, req)
		doc := parseBody(t, rec)
		if doc.Find("tr.no-results").Length() != 1 {
			t.Error("expected a no-results row")
		}
		if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, NotificationEvent) {
			t.Errorf("HX-Trigger = %q, want %s event", got, NotificationEvent)
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/tables/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestFormSubmit(t *testing.T) {
	s := newTestServer(t, nil)

	valid := url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"topic":   {"support"},
		"message": {"Hello"},
	}
	invalid := url.Values{
		"name":  {"Ada"},
		"email": {"not-an-email"},
		"topic": {""},
	}

	tests := []struct {
		name       string
		values     url.Values
		htmx       bool
		json       bool
		wantStatus int
		wantMarked int
	}{
		{"valid page", valid, false, false, http.StatusOK, 0},
		{"invalid page", invalid, false, false, http.StatusUnprocessableEntity, 3},
		{"invalid htmx", invalid, true, false, http.StatusOK, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/forms/contact", strings.NewReader(tt.values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := serve(s, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			doc := parseBody(t, rec)
			if n := doc.Find("#contactForm .is-invalid").Length(); n != tt.wantMarked {
				t.Errorf("invalid fields = %d, want %d", n, tt.wantMarked)
			}
			if got, _ := doc.Find("#contact-name").Attr("value"); got != "Ada" {
				t.Errorf("name value = %q, want Ada", got)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/contact", strings.NewReader(invalid.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		rec := serve(s, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var body struct {
			Valid  bool              `json:"valid"`
			Errors map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := map[string]string{
			"email":   "Please enter a valid email address",
			"topic":   "This field is required",
			"message": "This field is required",
		}
		if diff := cmp.Diff(want, body.Errors); diff != "" {
			t.Errorf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown form", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/forms/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func previewRequest(t *testing.T, name, mediaType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPreview(t *testing.T) {
	s := newTestServer(t, map[string]string{"PREVIEW_MAX_SIZE": "1024"})

	t.Run("accepted image", func(t *testing.T) {
		rec := serve(s, previewRequest(t, "dot.png", "image/png", pngBytes(t)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["accepted"] != true {
			t.Errorf("accepted = %v, want true", body["accepted"])
		}
		if markup, _ := body["markup"].(string); !strings.Contains(markup, "data:image/png;base64,") {
			t.Errorf("markup = %q, want a data URL image", markup)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		rec := serve(s, previewRequest(t, "notes.txt", "text/plain", []byte("hello")))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["code"] != "FILE002" {
			t.Errorf("code = %v, want FILE002", body["code"])
		}
	})

	t.Run("too large htmx", func(t *testing.T) {
		req := previewRequest(t, "big.png", "image/png", bytes.Repeat([]byte{1}, 2048))
		req.Header.Set("HX-Request", "true")
		rec := serve(s, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		trigger := rec.Header().Get("HX-Trigger")
		if !strings.Contains(trigger, "Maximum size is 1 KB") {
			t.Errorf("HX-Trigger = %q, want max size notice", trigger)
		}
	})

	t.Run("no file", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		_ = mw.WriteField("other", "x")
		_ = mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/api/preview", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := serve(s, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestConfirm(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/confirm?message="+url.QueryEscape("Delete <b>all</b>?")+"&confirm_type=danger", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseBody(t, rec)
	modal := doc.Find("#confirmModal")
	if !modal.HasClass("show") {
		t.Error("confirm modal should be shown")
	}
	if got := modal.Find(".modal-body").Text(); !strings.Contains(got, "Delete <b>all</b>?") {
		t.Errorf("body text = %q, want escaped message", got)
	}
	if !doc.Find("#confirmModal-confirm").HasClass("btn-danger") {
		t.Error("confirm button should use btn-danger")
	}

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/confirm", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing message: status = %d, want 400", rec.Code)
	}
}

func TestFileSize(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		query      string
		wantStatus int
		want       string
	}{
		{"bytes=1536", http.StatusOK, "1.5 KB"},
		{"bytes=0", http.StatusOK, "0 Bytes"},
		{"bytes=abc", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/filesize?"+tt.query, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.want == "" {
				return
			}
			var body struct {
				Formatted string `json:"formatted"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Formatted != tt.want {
				t.Errorf("formatted = %q, want %q", body.Formatted, tt.want)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/pagination?current=5&total=10&base=/tables/users", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Items []struct {
			Kind  string `json:"kind"`
			Label string `json:"label"`
		} `json:"items"`
		Markup string `json:"markup"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var labels []string
	for _, it := range body.Items {
		labels = append(labels, it.Label)
	}
	want := []string{"Previous", "1", "...", "3", "4", "5", "6", "7", "...", "10", "Next"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(body.Markup, `href="/tables/users?page=6"`) {
		t.Errorf("markup missing page link: %s", body.Markup)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"REQUIRE_API_KEY": "true",
		"API_KEYS":        "secret",
	})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = serve(s, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "2",
	})

	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		codes = append(codes, serve(s, req).Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("status codes mismatch (-want +got):\n%s", diff)
	}
}

func TestPagination_BaseMustBeLocal(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		base string
		want string
	}{
		{"local path", "/tables/files", `href="/tables/files?page=2"`},
		{"empty", "", `href="/?page=2"`},
		{"protocol relative", "//evil.example", `href="/?page=2"`},
		{"backslash", `/\evil.example`, `href="/?page=2"`},
		{"absolute url", "https://evil.example/x", `href="/?page=2"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{"current": {"1"}, "total": {"3"}, "base": {tt.base}}
			req := httptest.NewRequest(http.MethodGet, "/api/pagination?"+q.Encode(), nil)
			req.Header.Set("HX-Request", "true")
			rec := serve(s, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("markup missing %s:\n%s", tt.want, body)
			}
			if strings.Contains(body, "evil.example") {
				t.Errorf("markup links to another host:\n%s", body)
			}
		})
	}
}
