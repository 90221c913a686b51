package section

import (
	"encoding/json"
	"io"
)

// JSONNode is the mechanical JSON mirror of an Element: the document tree
// carries no table-specific shape of its own, so the JSON form is just
// this tree serialized, keyed the way tsduck's own XML<->JSON bridge
// names things.
type JSONNode struct {
	Name       string            `json:"#name"`
	Attributes map[string]string `json:"#attributes,omitempty"`
	Text       string            `json:"#text,omitempty"`
	Nodes      []*JSONNode       `json:"#nodes,omitempty"`
}

// elementToJSONNode mirrors an Element tree into its JSONNode form,
// preserving child order and attribute values as strings.
func elementToJSONNode(e *Element) *JSONNode {
	n := &JSONNode{Name: e.Name, Text: e.Text}
	if len(e.Attrs) > 0 {
		n.Attributes = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			n.Attributes[k] = v
		}
	}
	for _, c := range e.Children {
		n.Nodes = append(n.Nodes, elementToJSONNode(c))
	}
	return n
}

// jsonNodeToElement is the inverse of elementToJSONNode.
func jsonNodeToElement(n *JSONNode) *Element {
	e := NewElement(n.Name)
	for k, v := range n.Attributes {
		e.SetAttr(k, v)
	}
	e.Text = n.Text
	for _, c := range n.Nodes {
		e.AddChild(jsonNodeToElement(c))
	}
	return e
}

// WriteJSON renders an Element tree as indented JSON.
func WriteJSON(w io.Writer, root *Element) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(elementToJSONNode(root))
}

// ParseJSON decodes a JSONNode document back into an Element tree.
func ParseJSON(r io.Reader) (*Element, error) {
	var n JSONNode
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, err
	}
	return jsonNodeToElement(&n), nil
}
