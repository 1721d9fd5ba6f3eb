package ui

import (
	"github.com/PuerkitoBio/goquery"
)

// ConfirmModalID is the id of the dialog built by ConfirmAction.
const ConfirmModalID = "confirmModal"

// Button ids of the confirmation dialog.
const (
	ConfirmCancelID = ConfirmModalID + "-cancel"
	ConfirmOKID     = ConfirmModalID + "-confirm"
)

// ModalDisplay shows and hides dialogs. It stands in for the page's modal
// behaviour (bootstrap.Modal in the browser).
type ModalDisplay interface {
	Show(m *Modal)
	Hide(m *Modal)
}

// ClassDisplay shows a dialog the way bootstrap does once its script has
// run: "show" class, inline display and aria attributes.
type ClassDisplay struct{}

// Show marks the dialog visible.
func (ClassDisplay) Show(m *Modal) {
	sel := m.Selection()
	if missing(sel) {
		return
	}
	sel.AddClass("show")
	setStyle(sel, "display", "block")
	sel.RemoveAttr("aria-hidden")
	sel.SetAttr("aria-modal", "true")
	sel.SetAttr("role", "dialog")
}

// Hide marks the dialog hidden.
func (ClassDisplay) Hide(m *Modal) {
	sel := m.Selection()
	if missing(sel) {
		return
	}
	sel.RemoveClass("show")
	setStyle(sel, "display", "none")
	sel.SetAttr("aria-hidden", "true")
	sel.RemoveAttr("aria-modal")
	sel.RemoveAttr("role")
}

// ConfirmOptions configures ConfirmAction.
type ConfirmOptions struct {
	Title       string // default "Confirm Action"
	ConfirmText string // default "Confirm"
	CancelText  string // default "Cancel"
	ConfirmType string // default "primary"
	OnConfirm   func()
	OnCancel    func()
}

// ConfirmAction builds a cancel/confirm dialog and shows it through display
// (ClassDisplay when nil). Both buttons hide the dialog before running their
// callback.
func ConfirmAction(doc *goquery.Document, message string, opts ConfirmOptions, display ModalDisplay) *Modal {
	if doc == nil {
		return nil
	}
	if opts.Title == "" {
		opts.Title = "Confirm Action"
	}
	if opts.ConfirmText == "" {
		opts.ConfirmText = "Confirm"
	}
	if opts.CancelText == "" {
		opts.CancelText = "Cancel"
	}
	if opts.ConfirmType == "" {
		opts.ConfirmType = "primary"
	}
	if display == nil {
		display = ClassDisplay{}
	}

	var m *Modal
	m = CreateModal(doc, ModalOptions{
		ID:      ConfirmModalID,
		Title:   opts.Title,
		Content: `<p class="mb-0">` + esc(message) + `</p>`,
		Buttons: []ModalButton{
			{
				Text: opts.CancelText,
				Type: "secondary",
				ID:   ConfirmCancelID,
				OnClick: func() {
					display.Hide(m)
					if opts.OnCancel != nil {
						opts.OnCancel()
					}
				},
			},
			{
				Text: opts.ConfirmText,
				Type: opts.ConfirmType,
				ID:   ConfirmOKID,
				OnClick: func() {
					display.Hide(m)
					if opts.OnConfirm != nil {
						opts.OnConfirm()
					}
				},
			},
		},
	})

	display.Show(m)
	return m
}
