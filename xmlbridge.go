package section

import (
	"fmt"
	"strings"
)

// ErrUnknownElement is returned (and logged, never silently dropped)
// when an XML/JSON element name has no registered table or descriptor
// factory.
var ErrUnknownElement = fmt.Errorf("section: unknown xml element")

const xmlRootName = "tsduck"

// metadataAttribute reads the optional <metadata attribute="…"/>
// first-child element §4.7 describes, returning "" if absent.
func metadataAttribute(e *Element) string {
	m := e.Child("metadata")
	if m == nil {
		return ""
	}
	v, _ := m.Attr("attribute")
	return v
}

// tablesFromXMLRoot walks every child of a <tsduck> root, dispatching by
// lowercased element name to the table factory registry, populating each
// typed table from its XML and immediately serializing it to the
// BinaryTable form SectionFile stores.
func tablesFromXMLRoot(duck *DuckContext, root *Element) ([]*BinaryTable, error) {
	var tables []*BinaryTable
	for _, child := range root.Children {
		name := strings.ToLower(child.Name)
		if name == "metadata" {
			continue
		}

		factory, ok := tableFactoriesByXMLName[name]
		if !ok {
			logger.Printf("%v: <%s>", ErrUnknownElement, child.Name)
			continue
		}

		t := factory()
		if err := t.FromXML(duck, child); err != nil {
			return nil, fmt.Errorf("section: parsing <%s>: %w", child.Name, err)
		}

		bt, err := t.Serialize(duck)
		if err != nil {
			return nil, fmt.Errorf("section: serializing <%s>: %w", child.Name, err)
		}
		bt.setAttribute(metadataAttribute(child))
		tables = append(tables, bt)
	}
	return tables, nil
}

// tableToXMLElement renders a BinaryTable through its typed Table's
// ToXML, falling back to the generic escape hatches when forceGeneric is
// set or no typed model is registered for its table_id.
func tableToXMLElement(duck *DuckContext, bt *BinaryTable, forceGeneric bool) (*Element, error) {
	var typed Table
	if !forceGeneric {
		typed = newTableForID(bt.TableID())
	}

	if typed == nil {
		if bt.IsShortSection() {
			typed = &GenericShortTable{}
		} else {
			typed = &GenericLongTable{}
		}
	}

	if err := typed.Deserialize(duck, bt); err != nil {
		return nil, fmt.Errorf("section: deserializing table_id %#x: %w", bt.TableID(), err)
	}

	e := typed.ToXML(duck)
	if attr := bt.Attribute(); attr != "" {
		meta := NewElement("metadata")
		meta.SetAttr("attribute", attr)
		e.Children = append([]*Element{meta}, e.Children...)
	}
	return e, nil
}

// buildXMLRoot assembles the <tsduck> document root from a set of
// already-rendered table elements.
func buildXMLRoot(tableElements []*Element) *Element {
	root := NewElement(xmlRootName)
	root.Children = tableElements
	return root
}
