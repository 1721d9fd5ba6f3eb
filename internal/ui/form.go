package ui

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field error messages.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
)

// emailRegex is a shape check only: something@something.tld, no whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const formFields = "input, select, textarea"

// IsValidEmail reports whether s looks like user@domain.tld.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidateForm checks every input, select and textarea inside form.
//
// Required fields with a blank value and email fields with a malformed
// non-empty value get an error marker; every other field has its marker
// cleared. A nil or empty container is valid.
func ValidateForm(form *goquery.Selection) bool {
	if missing(form) {
		return true
	}

	valid := true
	form.Find(formFields).Each(func(_ int, field *goquery.Selection) {
		value := FieldValue(field)
		switch {
		case hasAttr(field, "required") && strings.TrimSpace(value) == "":
			ShowFieldError(field, MsgRequired)
			valid = false
		case fieldType(field) == "email" && value != "" && !IsValidEmail(value):
			ShowFieldError(field, MsgInvalidEmail)
			valid = false
		default:
			ClearFieldError(field)
		}
	})
	return valid
}

// ShowFieldError marks field invalid, inserts a feedback node right after it
// and moves focus to it.
func ShowFieldError(field *goquery.Selection, message string) {
	if missing(field) {
		return
	}
	ClearFieldError(field)

	field.AddClass("is-invalid")
	feedback := newElement("div", "class", "invalid-feedback d-block")
	feedback.AppendChild(newText(message))
	field.AfterNodes(feedback)

	focus(field)
}

// ClearFieldError removes the invalid marker and feedback node of field.
func ClearFieldError(field *goquery.Selection) {
	if missing(field) {
		return
	}
	field.RemoveClass("is-invalid")
	field.NextFiltered(".invalid-feedback").Remove()
}

// FieldErrors returns the feedback message per field name currently shown in
// form. Fields without a name are keyed by id.
func FieldErrors(form *goquery.Selection) map[string]string {
	errs := make(map[string]string)
	if missing(form) {
		return errs
	}
	form.Find(formFields).Filter(".is-invalid").Each(func(_ int, field *goquery.Selection) {
		key, ok := field.Attr("name")
		if !ok {
			key, _ = field.Attr("id")
		}
		errs[key] = strings.TrimSpace(field.NextFiltered(".invalid-feedback").Text())
	})
	return errs
}

// focus gives field the autofocus attribute and takes it from every other
// element of the enclosing form (or document when there is no form).
func focus(field *goquery.Selection) {
	root := field.Closest("form")
	if root.Length() == 0 {
		root = field.Parents().Last()
	}
	root.Find("[autofocus]").RemoveAttr("autofocus")
	field.SetAttr("autofocus", "")
}

func fieldType(field *goquery.Selection) string {
	t, _ := field.Attr("type")
	return strings.ToLower(t)
}

// FieldValue returns the current value of an input, select or textarea.
func FieldValue(field *goquery.Selection) string {
	switch goquery.NodeName(field) {
	case "textarea":
		return field.Text()
	case "select":
		opt := field.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = field.Find("option").First()
		}
		if opt.Length() == 0 {
			return ""
		}
		if v, ok := opt.Attr("value"); ok {
			return v
		}
		return opt.Text()
	default:
		v, _ := field.Attr("value")
		return v
	}
}

// FillForm copies submitted values into the form markup so that it can be
// validated and rendered again. Fields absent from values keep their markup,
// except checkboxes and radios which are unchecked.
func FillForm(form *goquery.Selection, values url.Values) {
	if missing(form) {
		return
	}
	form.Find(formFields).Each(func(_ int, field *goquery.Selection) {
		name, ok := field.Attr("name")
		if !ok || name == "" {
			return
		}
		submitted, present := values[name]

		switch goquery.NodeName(field) {
		case "textarea":
			if present {
				field.SetText(first(submitted))
			}
		case "select":
			if !present {
				return
			}
			field.Find("option").Each(func(_ int, opt *goquery.Selection) {
				v, ok := opt.Attr("value")
				if !ok {
					v = opt.Text()
				}
				if contains(submitted, v) {
					opt.SetAttr("selected", "")
				} else {
					opt.RemoveAttr("selected")
				}
			})
		default:
			switch fieldType(field) {
			case "checkbox", "radio":
				v, ok := field.Attr("value")
				if !ok {
					v = "on"
				}
				if present && contains(submitted, v) {
					field.SetAttr("checked", "")
				} else {
					field.RemoveAttr("checked")
				}
			case "file":
			default:
				if present {
					field.SetAttr("value", first(submitted))
				}
			}
		}
	})
}

// ClearSecrets drops the values of password inputs so that they are not
// echoed back when the form is rendered again.
func ClearSecrets(form *goquery.Selection) {
	if missing(form) {
		return
	}
	form.Find("input").FilterFunction(func(_ int, in *goquery.Selection) bool {
		return fieldType(in) == "password"
	}).RemoveAttr("value")
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
