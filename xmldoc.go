package section

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Element is a generic, order-preserving XML element: a name, its
// attributes, child elements and (for leaf elements) text content.
// Every table/descriptor's XML form is built and read through this tree
// rather than through per-type struct tags, so a table factory never has
// to special-case whichever XML library produced the document.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Text     string
}

// NewElement creates an empty element with the given (already
// lower-cased) name.
func NewElement(name string) *Element {
	return &Element{Name: name, Attrs: map[string]string{}}
}

// SetAttr sets an attribute, creating the map on first use.
func (e *Element) SetAttr(key, value string) {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[key] = value
}

// Attr returns an attribute's value and whether it was present.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// AddChild appends a child element and returns it.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// Child returns the first child whose name matches (case-insensitively).
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child whose name matches (case-insensitively).
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// ParseXML decodes a document into a single root Element using the
// standard library's streaming tokenizer.
func ParseXML(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("section: decoding xml failed: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, a := range t.Attr {
				el.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) > 0 {
				stack[len(stack)-1].AddChild(el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("section: empty xml document")
	}
	return root, nil
}

// WriteXML re-emits the tree with a two-space indent, one child per line,
// and attribute order sorted for determinism.
func WriteXML(w io.Writer, root *Element) error {
	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return err
	}
	return writeElement(w, root, 0)
}

func writeElement(w io.Writer, e *Element, depth int) error {
	indent := strings.Repeat("  ", depth)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var attrs strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&attrs, " %s=%q", k, e.Attrs[k])
	}

	if len(e.Children) == 0 && e.Text == "" {
		if _, err := fmt.Fprintf(w, "%s<%s%s/>\n", indent, e.Name, attrs.String()); err != nil {
			return err
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s<%s%s>", indent, e.Name, attrs.String()); err != nil {
		return err
	}

	if len(e.Children) == 0 {
		if err := xml.EscapeText(w, []byte(e.Text)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "</%s>\n", e.Name); err != nil {
			return err
		}
		return nil
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := writeElement(w, c, depth+1); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s</%s>\n", indent, e.Name); err != nil {
		return err
	}
	return nil
}
