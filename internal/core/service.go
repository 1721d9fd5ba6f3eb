package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/ui"
)

var (
	// ErrUnknownForm is returned for an unregistered form key.
	ErrUnknownForm = errors.New("unknown form")

	// ErrNoFile is returned when a preview request carries no file.
	ErrNoFile = errors.New("no file provided")
)

// QueryTimeout bounds a single row source read.
var QueryTimeout = 10 * time.Second

// Options configures a Service. Zero values select defaults.
type Options struct {
	PageSize              int
	Locale                language.Tag
	PreviewMaxSize        int64
	AllowedTypes          []string
	MaxConcurrentPreviews int
	PreviewWait           time.Duration
	Logger                *slog.Logger
}

// Service renders enhanced tables, forms, dialogs and previews.
type Service struct {
	source  store.RowSource
	opts    Options
	limiter *PreviewLimiter
	logger  *slog.Logger
}

// NewService creates a Service reading table rows from source.
func NewService(source store.RowSource, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = store.DefaultPageSize
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	if opts.PreviewMaxSize <= 0 {
		opts.PreviewMaxSize = ui.DefaultMaxPreviewSize
	}
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = ui.DefaultAllowedTypes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		source:  source,
		opts:    opts,
		limiter: NewPreviewLimiter(opts.MaxConcurrentPreviews, opts.PreviewWait),
		logger:  logger,
	}
}

// Limiter returns the preview limiter, for status reporting and shutdown.
func (s *Service) Limiter() *PreviewLimiter {
	return s.limiter
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	defs := Tables()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListTablesByGroup returns tables organized by group.
func (s *Service) ListTablesByGroup() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, info := range s.ListTables() {
		result[info.Group] = append(result[info.Group], info)
	}
	return result
}

// TableView reads one page of the table and replays sorting and searching
// onto it. Sorting and searching apply to the rows of that page.
func (s *Service) TableView(ctx context.Context, key string, p ViewParams) (*TableView, error) {
	def, ok := Table(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, key)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	cols := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		cols[i] = c.Key
	}
	page, err := s.source.Page(ctx, store.Spec{Name: def.Source, Columns: cols, OrderBy: def.OrderBy},
		store.PageRequest{Page: p.Page, PageSize: s.opts.PageSize})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	doc, err := parseComponent(tableMarkup(def, page))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", key, err)
	}

	view := &TableView{Info: def.Info, Doc: doc, Page: page, Search: p.Search}

	if sortable := ui.MakeTableSortable(doc, def.Info.TableID(), ui.WithLocale(s.opts.Locale)); p.Sort != "" {
		order := ui.ParseSortOrder(p.Dir)
		if sortable.SortBy(p.Sort, order) {
			view.Sort, view.Order = p.Sort, order
		}
	}

	searchable := ui.MakeTableSearchable(doc, def.Info.TableID(), def.Info.SearchID())
	if p.Search != "" {
		view.Visible = searchable.Input(p.Search)
	} else {
		view.Visible = searchable.Visible()
	}

	href := pageHref(def.Info.Key, view)
	pager := ui.CreatePagination(doc, def.Info.PaginationID(), page.Page, page.TotalPages, nil, ui.WithPageHref(href))
	view.Pagination = pager.Items()

	s.logger.Debug("table view",
		"table", key,
		"page", page.Page,
		"rows", len(page.Rows),
		"visible", view.Visible,
		"sort", view.Sort,
	)
	return view, nil
}

// pageHref builds pagination links that keep the sort and search state.
func pageHref(key string, v *TableView) func(int) string {
	return func(page int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if v.Sort != "" {
			q.Set("sort", v.Sort)
			q.Set("dir", string(v.Order))
		}
		if v.Search != "" {
			q.Set("q", v.Search)
		}
		return "/tables/" + url.PathEscape(key) + "?" + q.Encode()
	}
}

// FormView renders a registered form without validating it.
func (s *Service) FormView(key string) (*FormView, error) {
	def, ok := Form(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, key)
	}
	doc, err := parseDocument(def.Markup)
	if err != nil {
		return nil, fmt.Errorf("build form %s: %w", key, err)
	}
	return &FormView{Definition: def, Doc: doc}, nil
}

// ValidateForm fills the form with the submitted values and validates it.
func (s *Service) ValidateForm(key string, values url.Values) (*FormView, error) {
	view, err := s.FormView(key)
	if err != nil {
		return nil, err
	}

	form := view.Form()
	ui.FillForm(form, values)
	view.Validated = true
	view.Valid = ui.ValidateForm(form)
	view.Errors = ui.FieldErrors(form)

	s.logger.Debug("form validated", "form", key, "valid", view.Valid, "errors", len(view.Errors))
	return view, nil
}

// Form returns the form element of the view.
func (v *FormView) Form() *goquery.Selection {
	return v.Doc.Find("form#" + v.Definition.FormID).First()
}

// Preview validates a selected file and renders its preview. Reads are
// bounded by the preview limiter. Rejections are reported to notifier and
// in the result, not as errors.
func (s *Service) Preview(ctx context.Context, file ui.File, notifier ui.Notifier) (*PreviewResult, error) {
	if file.Name == "" && file.Size == 0 {
		return nil, ErrNoFile
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	doc, err := parseDocument(previewMarkup())
	if err != nil {
		return nil, fmt.Errorf("build preview: %w", err)
	}

	result := &PreviewResult{}
	container := doc.Find("#" + PreviewContainerID)
	fp := ui.CreateFilePreview(doc.Find("#"+PreviewInputID), ui.PreviewOptions{
		MaxSize:      s.opts.PreviewMaxSize,
		AllowedTypes: s.opts.AllowedTypes,
		Container:    container,
		OnSuccess:    func(ui.File) { result.Accepted = true },
		OnError:      func(reason string) { result.Reason = reason },
		Notifier:     notifier,
		Logger:       s.logger,
	})
	fp.Change(file)
	fp.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markup, err := container.Html()
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	result.Markup = strings.TrimSpace(markup)
	return result, nil
}

// ConfirmView renders a confirmation dialog, already shown.
func (s *Service) ConfirmView(p ConfirmParams) (string, error) {
	doc, err := parseDocument("")
	if err != nil {
		return "", err
	}
	m := ui.ConfirmAction(doc, p.Message, ui.ConfirmOptions{
		Title:       p.Title,
		ConfirmText: p.ConfirmText,
		CancelText:  p.CancelText,
		ConfirmType: p.ConfirmType,
	}, ui.ClassDisplay{})
	return goquery.OuterHtml(m.Selection())
}

// PaginationView renders a standalone pagination control whose links point
// at base with a page query parameter.
func (s *Service) PaginationView(current, total int, base string) (string, []ui.PageItem, error) {
	doc, err := parseDocument(`<div id="pagination"></div>`)
	if err != nil {
		return "", nil, err
	}
	href := func(page int) string {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + "page=" + strconv.Itoa(page)
	}
	p := ui.CreatePagination(doc, "pagination", current, total, nil, ui.WithPageHref(href))
	markup, err := doc.Find("#pagination").Html()
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(markup), p.Items(), nil
}
