package ui

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// byID returns the element carrying the given id attribute.
// The result is nil when the document or the element is missing.
func byID(doc *goquery.Document, id string) *goquery.Selection {
	if doc == nil || id == "" {
		return nil
	}
	sel := doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// missing reports whether a selection is nil or empty.
func missing(sel *goquery.Selection) bool {
	return sel == nil || sel.Length() == 0
}

func hasAttr(sel *goquery.Selection, name string) bool {
	_, ok := sel.Attr(name)
	return ok
}

// newElement builds a detached element node. attrs are key, value pairs.
func newElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func newText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// textContent concatenates all descendant text nodes, like Node.textContent.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setStyle sets or removes (empty value) one inline style property.
func setStyle(sel *goquery.Selection, prop, value string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		current, _ := s.Attr("style")
		var decls []string
		for _, d := range strings.Split(current, ";") {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			name, _, _ := strings.Cut(d, ":")
			if strings.EqualFold(strings.TrimSpace(name), prop) {
				continue
			}
			decls = append(decls, d)
		}
		if value != "" {
			decls = append(decls, prop+": "+value)
		}
		if len(decls) == 0 {
			s.RemoveAttr("style")
			return
		}
		s.SetAttr("style", strings.Join(decls, "; "))
	})
}

// styleProperty returns the inline value of prop, or "".
func styleProperty(sel *goquery.Selection, prop string) string {
	current, _ := sel.Attr("style")
	for _, d := range strings.Split(current, ";") {
		name, value, ok := strings.Cut(d, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func hidden(sel *goquery.Selection) bool {
	return styleProperty(sel, "display") == "none"
}

func setHidden(sel *goquery.Selection, hide bool) {
	if hide {
		setStyle(sel, "display", "none")
		return
	}
	setStyle(sel, "display", "")
}

// renderMarkup renders a component to a string for insertion with goquery.
func renderMarkup(c templ.Component) string {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		return ""
	}
	return b.String()
}

var esc = templ.EscapeString[string]
