package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// Modal defaults.
const (
	DefaultModalID    = "dynamicModal"
	DefaultModalTitle = "Modal Title"
	DefaultModalSize  = "md"
)

// ModalButton describes one footer button. Handlers are keyed by ID; buttons
// without an ID get "<modal id>-btn-<index>".
type ModalButton struct {
	Text    string
	Type    string // bootstrap variant, default "secondary"
	ID      string
	OnClick func()
}

// ModalOptions describes a dialog.
type ModalOptions struct {
	ID      string
	Title   string
	Content string // HTML, sanitised before insertion
	Size    string
	Buttons []ModalButton
}

// Modal is a dialog built by CreateModal.
type Modal struct {
	ID       string
	sel      *goquery.Selection
	buttons  []ModalButton
	handlers map[string]func()
}

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

func modalContentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		contentPolicy = bluemonday.UGCPolicy()
		contentPolicy.AllowAttrs("class").Globally()

		// dialogs commonly carry forms
		controls := []string{"form", "fieldset", "legend", "label", "input", "select", "optgroup", "option", "textarea", "button"}
		contentPolicy.AllowElements(controls...)
		contentPolicy.AllowNoAttrs().OnElements(controls...)
		contentPolicy.AllowAttrs(
			"name", "type", "value", "required", "placeholder", "for",
			"selected", "checked", "disabled", "readonly", "multiple",
			"rows", "cols", "min", "max", "step", "minlength", "maxlength",
			"pattern", "autocomplete", "accept", "novalidate", "method",
		).OnElements(controls...)
		contentPolicy.AllowDataAttributes()
	})
	return contentPolicy
}

// CreateModal builds a dialog and appends it to the document body, replacing
// any element that already uses the same id. It returns nil for a nil
// document.
func CreateModal(doc *goquery.Document, opts ModalOptions) *Modal {
	if doc == nil {
		return nil
	}
	if opts.ID == "" {
		opts.ID = DefaultModalID
	}
	if opts.Title == "" {
		opts.Title = DefaultModalTitle
	}
	if opts.Size == "" {
		opts.Size = DefaultModalSize
	}

	m := &Modal{
		ID:       opts.ID,
		buttons:  make([]ModalButton, len(opts.Buttons)),
		handlers: make(map[string]func()),
	}
	for i, b := range opts.Buttons {
		if b.ID == "" {
			b.ID = fmt.Sprintf("%s-btn-%d", opts.ID, i)
		}
		if b.Type == "" {
			b.Type = "secondary"
		}
		if b.OnClick != nil {
			m.handlers[b.ID] = b.OnClick
		}
		m.buttons[i] = b
	}

	if existing := byID(doc, opts.ID); existing != nil {
		existing.Remove()
	}

	parent := doc.Find("body").First()
	if parent.Length() == 0 {
		parent = doc.Selection
	}
	content := modalContentSanitizer().Sanitize(opts.Content)
	parent.AppendHtml(renderMarkup(modalMarkup(opts, m.buttons, content)))

	m.sel = byID(doc, opts.ID)
	return m
}

// Selection returns the dialog root element.
func (m *Modal) Selection() *goquery.Selection {
	if m == nil {
		return nil
	}
	return m.sel
}

// Buttons returns the footer buttons with their resolved ids.
func (m *Modal) Buttons() []ModalButton {
	if m == nil {
		return nil
	}
	return m.buttons
}

// Click runs the handler of the button with the given id and reports whether
// one was registered.
func (m *Modal) Click(buttonID string) bool {
	if m == nil {
		return false
	}
	h, ok := m.handlers[buttonID]
	if !ok {
		return false
	}
	h()
	return true
}

// Remove detaches the dialog from the document.
func (m *Modal) Remove() {
	if m == nil || missing(m.sel) {
		return
	}
	m.sel.Remove()
}

func modalMarkup(opts ModalOptions, buttons []ModalButton, content string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		id := esc(opts.ID)
		if _, err := fmt.Fprintf(w,
			`<div class="modal fade" id="%s" tabindex="-1" aria-labelledby="%sLabel" aria-hidden="true">`+
				`<div class="modal-dialog modal-%s"><div class="modal-content">`+
				`<div class="modal-header"><h5 class="modal-title" id="%sLabel">%s</h5>`+
				`<button type="button" class="btn-close" data-bs-dismiss="modal" aria-label="Close"></button></div>`+
				`<div class="modal-body">%s</div><div class="modal-footer">`,
			id, id, esc(opts.Size), id, esc(opts.Title), content); err != nil {
			return err
		}
		for _, b := range buttons {
			if _, err := fmt.Fprintf(w, `<button type="button" class="btn btn-%s" id="%s">%s</button>`,
				esc(b.Type), esc(b.ID), esc(b.Text)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></div></div></div>`)
		return err
	})
}
