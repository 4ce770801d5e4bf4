// Package dom builds and edits HTML node trees (golang.org/x/net/html) the way
// page scripts use document.createElement: tagged elements with classes,
// attributes and text, plus the handful of queries the roster controller needs.
package dom

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Option customises an element created by El.
type Option func(*html.Node)

// El creates a detached element node.
func El(tag string, opts ...Option) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Class sets the class attribute from the non-empty names.
func Class(names ...string) Option {
	return func(n *html.Node) {
		if v := joinClasses(names); v != "" {
			SetAttr(n, "class", v)
		}
	}
}

// Text appends a text child. Empty strings add nothing, like an unset textContent.
func Text(s string) Option {
	return func(n *html.Node) {
		if s != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
		}
	}
}

// Attr sets an attribute.
func Attr(key, value string) Option {
	return func(n *html.Node) {
		SetAttr(n, key, value)
	}
}

// Attrs sets several attributes in the given key/value order.
func Attrs(pairs ...string) Option {
	return func(n *html.Node) {
		for i := 0; i+1 < len(pairs); i += 2 {
			SetAttr(n, pairs[i], pairs[i+1])
		}
	}
}

// Children appends child nodes, skipping nils.
func Children(children ...*html.Node) Option {
	return func(n *html.Node) {
		Append(n, children...)
	}
}

// Icon references a symbol of the icon sprite: <svg class><use href="sprite#id"></svg>.
func Icon(sprite, id, class string) *html.Node {
	if class == "" {
		class = "icon"
	}
	svg := El("svg", Attrs("class", class, "aria-hidden", "true"))
	svg.Namespace = "svg"
	use := El("use", Attr("href", sprite+"#"+id))
	use.Namespace = "svg"
	svg.AppendChild(use)
	return svg
}

// Append attaches children to parent, detaching them from any previous parent first.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
}

// Clear removes every child of n.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, s string) {
	Clear(n)
	Text(s)(n)
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}

// GetAttr returns the value of key and whether it is present.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the value of key or "".
func AttrValue(n *html.Node, key string) string {
	v, _ := GetAttr(n, key)
	return v
}

// HasAttr reports whether key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := GetAttr(n, key)
	return ok
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether the class list of n contains name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(AttrValue(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list of n unless already present.
func AddClass(n *html.Node, name string) {
	if HasClass(n, name) {
		return
	}
	SetAttr(n, "class", joinClasses([]string{AttrValue(n, "class"), name}))
}

// RemoveClass removes name from the class list of n.
func RemoveClass(n *html.Node, name string) {
	if !HasAttr(n, "class") {
		return
	}
	var kept []string
	for _, c := range strings.Fields(AttrValue(n, "class")) {
		if c != name {
			kept = append(kept, c)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// FindByID returns the first element under root (inclusive) whose id is id.
func FindByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return Find(root, func(n *html.Node) bool {
		return AttrValue(n, "id") == id
	})
}

// Find returns the first element under root (inclusive, document order) matching pred.
func Find(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// Closest walks from n up through its ancestors and returns the first element matching pred.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
	}
	return nil
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == root {
			return true
		}
	}
	return false
}

// Query runs a CSS selector against the descendants of root.
func Query(root *html.Node, selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(root).Find(selector)
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// Render serialises n (outer HTML).
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderWith serialises n as if extra attributes were set on it, leaving n untouched.
func RenderWith(n *html.Node, extra ...html.Attribute) (string, error) {
	shadow := *n
	shadow.Parent, shadow.PrevSibling, shadow.NextSibling = nil, nil, nil
	shadow.Attr = make([]html.Attribute, 0, len(n.Attr)+len(extra))
	shadow.Attr = append(shadow.Attr, n.Attr...)
	shadow.Attr = append(shadow.Attr, extra...)
	return Render(&shadow)
}

func joinClasses(names []string) string {
	var parts []string
	for _, name := range names {
		if f := strings.Fields(name); len(f) > 0 {
			parts = append(parts, f...)
		}
	}
	return strings.Join(parts, " ")
}
