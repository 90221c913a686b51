package section

import "fmt"

func init() {
	registerTableXML("generic_short_table", func() Table { return &GenericShortTable{} })
	registerTableXML("generic_long_table", func() Table { return &GenericLongTable{} })
}

// GenericShortTable is the escape hatch for any short-form table this
// core has no typed model for: a single section's payload, preserved
// verbatim.
type GenericShortTable struct {
	ID      uint8
	Private bool
	Payload []byte
}

func (t *GenericShortTable) TableID() uint8 { return t.ID }

func (t *GenericShortTable) Deserialize(_ *DuckContext, bt *BinaryTable) error {
	t.ID = bt.TableID()
	if s := bt.SectionAt(0); s != nil {
		t.Private = s.Private
		t.Payload = append([]byte(nil), s.Payload...)
	}
	return nil
}

func (t *GenericShortTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	s, err := buildShortSection(duck, t.ID, false, t.Private, t.Payload)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable([]*Section{s}), nil
}

func (t *GenericShortTable) ToXML(_ *DuckContext) *Element {
	e := NewElement("generic_short_table")
	e.SetAttr("table_id", encodeHexAttr(uint64(t.ID)))
	e.SetAttr("private", fmt.Sprintf("%t", t.Private))
	e.Text = encodeHexBlob(t.Payload)
	return e
}

func (t *GenericShortTable) FromXML(_ *DuckContext, e *Element) error {
	if v, ok := e.Attr("table_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.ID = uint8(n)
	}
	if v, ok := e.Attr("private"); ok {
		t.Private = v == "true"
	}
	bs, err := decodeHexBlob(e.Text)
	if err != nil {
		return err
	}
	t.Payload = bs
	return nil
}

// GenericLongTable is the escape hatch for any long-form table this core
// has no typed model for: one already-encoded payload per section,
// preserved verbatim and in order.
type GenericLongTable struct {
	ID               uint8
	TableIDExtension uint16
	Version          uint8
	Current          bool
	Private          bool
	SectionPayloads  [][]byte
}

func (t *GenericLongTable) TableID() uint8 { return t.ID }

func (t *GenericLongTable) Deserialize(_ *DuckContext, bt *BinaryTable) error {
	t.ID = bt.TableID()
	t.TableIDExtension = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	for _, s := range bt.Sections() {
		if s == nil {
			continue
		}
		t.Private = s.Private
		t.SectionPayloads = append(t.SectionPayloads, append([]byte(nil), s.Payload...))
	}
	return nil
}

func (t *GenericLongTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	sections, err := buildLongSections(duck, t.ID, t.TableIDExtension, t.Version, t.Current, t.Private, t.SectionPayloads)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func (t *GenericLongTable) ToXML(_ *DuckContext) *Element {
	e := NewElement("generic_long_table")
	e.SetAttr("table_id", encodeHexAttr(uint64(t.ID)))
	e.SetAttr("table_id_ext", encodeHexAttr(uint64(t.TableIDExtension)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))
	e.SetAttr("private", fmt.Sprintf("%t", t.Private))

	for _, p := range t.SectionPayloads {
		se := e.AddChild(NewElement("section"))
		se.Text = encodeHexBlob(p)
	}
	return e
}

func (t *GenericLongTable) FromXML(_ *DuckContext, e *Element) error {
	if v, ok := e.Attr("table_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.ID = uint8(n)
	}
	if v, ok := e.Attr("table_id_ext"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.TableIDExtension = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}
	if v, ok := e.Attr("private"); ok {
		t.Private = v == "true"
	}

	for _, se := range e.ChildrenNamed("section") {
		bs, err := decodeHexBlob(se.Text)
		if err != nil {
			return err
		}
		t.SectionPayloads = append(t.SectionPayloads, bs)
	}
	return nil
}
