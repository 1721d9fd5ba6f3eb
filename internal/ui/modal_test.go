package ui

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateModal_Markup(t *testing.T) {
	doc := mustDoc(t, `<html><body><main></main></body></html>`)

	m := CreateModal(doc, ModalOptions{
		ID:      "editUser",
		Title:   "Edit <user>",
		Content: `<p class="lead">Hello</p><script>alert(1)</script>`,
		Size:    "lg",
		Buttons: []ModalButton{
			{Text: "Close"},
			{Text: "Save", Type: "primary", ID: "save"},
		},
	})
	if m == nil {
		t.Fatal("CreateModal returned nil")
	}

	root := doc.Find("#editUser")
	if root.Length() != 1 {
		t.Fatalf("modal elements = %d, want 1", root.Length())
	}
	if !root.HasClass("modal") || !root.HasClass("fade") {
		t.Errorf("class = %q, want modal fade", root.AttrOr("class", ""))
	}
	if got := root.AttrOr("aria-labelledby", ""); got != "editUserLabel" {
		t.Errorf("aria-labelledby = %q, want editUserLabel", got)
	}
	if got := root.Find(".modal-dialog.modal-lg").Length(); got != 1 {
		t.Errorf("sized dialogs = %d, want 1", got)
	}
	if got := root.Find("h5.modal-title").Text(); got != "Edit <user>" {
		t.Errorf("title = %q, want %q", got, "Edit <user>")
	}
	if got := root.Find(".modal-body p.lead").Text(); got != "Hello" {
		t.Errorf("body paragraph = %q, want Hello", got)
	}
	if got := root.Find("script").Length(); got != 0 {
		t.Error("script survived sanitising")
	}
	if !root.Parent().Is("body") {
		t.Error("modal not appended to body")
	}

	var ids []string
	for _, b := range m.Buttons() {
		ids = append(ids, b.ID)
	}
	if diff := cmp.Diff([]string{"editUser-btn-0", "save"}, ids); diff != "" {
		t.Errorf("button ids mismatch (-want +got):\n%s", diff)
	}
	if got := root.Find(".modal-footer button#save.btn-primary").Length(); got != 1 {
		t.Errorf("save buttons = %d, want 1", got)
	}
	if got := root.Find(".modal-footer button#editUser-btn-0.btn-secondary").Length(); got != 1 {
		t.Errorf("close buttons = %d, want 1", got)
	}
}

func TestCreateModal_Defaults(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)
	CreateModal(doc, ModalOptions{})

	root := doc.Find("#" + DefaultModalID)
	if root.Length() != 1 {
		t.Fatalf("default modal elements = %d, want 1", root.Length())
	}
	if got := root.Find(".modal-title").Text(); got != DefaultModalTitle {
		t.Errorf("title = %q, want %q", got, DefaultModalTitle)
	}
	if got := root.Find(".modal-dialog.modal-md").Length(); got != 1 {
		t.Errorf("md dialogs = %d, want 1", got)
	}
}

func TestCreateModal_ReplacesExisting(t *testing.T) {
	doc := mustDoc(t, `<html><body><div id="dlg">old</div></body></html>`)

	CreateModal(doc, ModalOptions{ID: "dlg", Title: "First"})
	CreateModal(doc, ModalOptions{ID: "dlg", Title: "Second"})

	matches := doc.Find("[id=dlg]")
	if matches.Length() != 1 {
		t.Fatalf("elements with id dlg = %d, want 1", matches.Length())
	}
	if got := matches.Find(".modal-title").Text(); got != "Second" {
		t.Errorf("title = %q, want Second", got)
	}
	if strings.Contains(doc.Text(), "old") {
		t.Error("previous element still present")
	}
}

func TestModal_ClickByID(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)
	var clicked []string

	m := CreateModal(doc, ModalOptions{
		Buttons: []ModalButton{
			{Text: "No handler"},
			{Text: "A", ID: "a", OnClick: func() { clicked = append(clicked, "a") }},
			{Text: "B", OnClick: func() { clicked = append(clicked, "b") }},
		},
	})

	if m.Click("dynamicModal-btn-0") {
		t.Error("Click on a button without handler reported true")
	}
	if !m.Click("dynamicModal-btn-2") || !m.Click("a") {
		t.Error("Click did not run registered handlers")
	}
	if m.Click("missing") {
		t.Error("Click(missing) reported true")
	}
	if diff := cmp.Diff([]string{"b", "a"}, clicked); diff != "" {
		t.Errorf("clicks mismatch (-want +got):\n%s", diff)
	}

	m.Remove()
	if doc.Find("#dynamicModal").Length() != 0 {
		t.Error("Remove left the modal in the document")
	}
}

type recordingDisplay struct {
	events []string
}

func (d *recordingDisplay) Show(m *Modal) { d.events = append(d.events, "show:"+m.ID) }
func (d *recordingDisplay) Hide(m *Modal) { d.events = append(d.events, "hide:"+m.ID) }

func TestConfirmAction(t *testing.T) {
	tests := []struct {
		name   string
		button string
		want   []string
	}{
		{name: "confirm", button: ConfirmOKID, want: []string{"show:confirmModal", "hide:confirmModal", "confirmed"}},
		{name: "cancel", button: ConfirmCancelID, want: []string{"show:confirmModal", "hide:confirmModal", "cancelled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, `<html><body></body></html>`)
			display := &recordingDisplay{}

			m := ConfirmAction(doc, "Delete <b>file</b>?", ConfirmOptions{
				ConfirmType: "danger",
				OnConfirm:   func() { display.events = append(display.events, "confirmed") },
				OnCancel:    func() { display.events = append(display.events, "cancelled") },
			}, display)

			if !m.Click(tt.button) {
				t.Fatalf("Click(%q) = false", tt.button)
			}
			if diff := cmp.Diff(tt.want, display.events); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}

			root := doc.Find("#confirmModal")
			if got := root.Find(".modal-title").Text(); got != "Confirm Action" {
				t.Errorf("title = %q, want Confirm Action", got)
			}
			if got := root.Find(".modal-body p.mb-0").Text(); got != "Delete <b>file</b>?" {
				t.Errorf("message = %q, want literal text", got)
			}
			if got := root.Find("#" + ConfirmOKID + ".btn-danger").Text(); got != "Confirm" {
				t.Errorf("confirm button = %q, want Confirm", got)
			}
			if got := root.Find(".modal-footer button").First().AttrOr("id", ""); got != ConfirmCancelID {
				t.Errorf("first button = %q, want %q", got, ConfirmCancelID)
			}
		})
	}
}

func TestClassDisplay(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)
	m := ConfirmAction(doc, "Sure?", ConfirmOptions{}, nil)

	root := doc.Find("#confirmModal")
	if !root.HasClass("show") {
		t.Error("modal not shown by default display")
	}
	if got := styleProperty(root, "display"); got != "block" {
		t.Errorf("display = %q, want block", got)
	}

	m.Click(ConfirmCancelID)
	if root.HasClass("show") {
		t.Error("modal still shown after cancel")
	}
	if got := root.AttrOr("aria-hidden", ""); got != "true" {
		t.Errorf("aria-hidden = %q, want true", got)
	}
}

func TestCreateModal_KeepsFormControls(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)

	CreateModal(doc, ModalOptions{
		ID: "editModal",
		Content: `<form id="editForm" novalidate>` +
			`<label for="edit-name">Name</label>` +
			`<input id="edit-name" name="name" type="text" required placeholder="Name">` +
			`<input name="email" type="email" value="ada@example">` +
			`<select name="role" required><option value="">Pick</option><option value="admin" selected>Admin</option></select>` +
			`<textarea name="notes" rows="3" required></textarea>` +
			`<input type="checkbox" name="active" checked>` +
			`<button type="submit" onclick="steal()">Save</button>` +
			`</form>`,
	})

	body := doc.Find("#editModal .modal-body")
	form := body.Find("form#editForm")
	if form.Length() != 1 {
		t.Fatalf("forms in body = %d, want 1: %s", form.Length(), body.Text())
	}

	counts := map[string]int{
		"label[for=edit-name]":          1,
		"input[required][name=name]":    1,
		"input[type=email]":             1,
		"select[name=role][required]":   1,
		"option[selected]":              1,
		"textarea[rows='3'][required]":  1,
		"input[type=checkbox][checked]": 1,
		"button[type=submit]":           1,
		"[onclick]":                     0,
	}
	for sel, want := range counts {
		if got := form.Find(sel).Length(); got != want {
			t.Errorf("%s count = %d, want %d", sel, got, want)
		}
	}
	if got := form.Find("input[name=name]").AttrOr("placeholder", ""); got != "Name" {
		t.Errorf("placeholder = %q, want Name", got)
	}

	if ValidateForm(form) {
		t.Fatal("ValidateForm() = true, want false for empty required fields")
	}
	want := map[string]string{
		"name":  MsgRequired,
		"email": MsgInvalidEmail,
		"notes": MsgRequired,
	}
	if diff := cmp.Diff(want, FieldErrors(form)); diff != "" {
		t.Errorf("FieldErrors() mismatch (-want +got):\n%s", diff)
	}
}
