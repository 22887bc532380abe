// Package svgdoc is a small tree-visitor API over a parsed vector document.
// It keeps seat lookup and visibility changes independent of the markup
// library underneath.
package svgdoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

var ErrEmptyDocument = errors.New("document has no root element")

// Document is a parsed markup document.
type Document struct {
	doc *etree.Document
}

// Element is one node of a Document.
type Element struct {
	el *etree.Element
}

// Parse reads a document from raw markup.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrEmptyDocument
	}
	return &Document{doc: doc}, nil
}

// Copy returns a deep copy that can be mutated independently.
func (d *Document) Copy() *Document {
	return &Document{doc: d.doc.Copy()}
}

// Root returns the document element.
func (d *Document) Root() *Element {
	return &Element{el: d.doc.Root()}
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// Walk visits every element in document order. Returning false from fn
// stops the walk.
func (d *Document) Walk(fn func(*Element) bool) {
	walk(d.doc.Root(), fn)
}

func walk(el *etree.Element, fn func(*Element) bool) bool {
	if !fn(&Element{el: el}) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// FindByID returns the first element whose id attribute equals id.
func (d *Document) FindByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.Walk(func(e *Element) bool {
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// ForEachOfKind calls fn for every element with the given tag name,
// ignoring any namespace prefix.
func (d *Document) ForEachOfKind(kind string, fn func(*Element)) {
	d.Walk(func(e *Element) bool {
		if e.Kind() == kind {
			fn(e)
		}
		return true
	})
}

// AppendStyleSheet adds a <style> element with css as the first child of
// the root so it applies to the whole document.
func (d *Document) AppendStyleSheet(css string) {
	root := d.doc.Root()
	style := etree.NewElement("style")
	style.SetText(css)
	root.InsertChildAt(0, style)
}

func (e *Element) ID() string {
	return e.Attr("id")
}

// Kind is the local tag name, e.g. "rect".
func (e *Element) Kind() string {
	return e.el.Tag
}

func (e *Element) Attr(name string) string {
	return e.el.SelectAttrValue(name, "")
}

// SetAttribute creates or replaces an attribute.
func (e *Element) SetAttribute(name, value string) {
	e.el.CreateAttr(name, value)
}

// Style returns one property of the inline style attribute.
func (e *Element) Style(property string) string {
	for _, decl := range splitStyle(e.Attr("style")) {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets one property of the inline style attribute, keeping the
// other declarations in place.
func (e *Element) SetStyle(property, value string) {
	decls := splitStyle(e.Attr("style"))
	replaced := false
	for i := range decls {
		if decls[i][0] == property {
			decls[i][1] = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, [2]string{property, value})
	}

	parts := make([]string, len(decls))
	for i, decl := range decls {
		parts[i] = decl[0] + ":" + decl[1]
	}
	e.SetAttribute("style", strings.Join(parts, ";"))
}

// HasClass reports whether class is in the element's class list.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class list if it is not already present.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	classes := append(strings.Fields(e.Attr("class")), class)
	e.SetAttribute("class", strings.Join(classes, " "))
}

func splitStyle(style string) [][2]string {
	var decls [][2]string
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		decls = append(decls, [2]string{name, strings.TrimSpace(value)})
	}
	return decls
}
