package section

import "fmt"

func init() {
	registerTableXML("cat", func() Table { return &CATTable{} })
}

// CATTable is the Conditional Access Table: a bare list of CA_descriptors
// with no table-specific header fields of its own and no loop-length
// field: each section's payload is the descriptors alone.
type CATTable struct {
	Version     uint8
	Current     bool
	Private     bool
	Descriptors DescriptorList
}

func (t *CATTable) TableID() uint8 { return tableIDCAT }

func (t *CATTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDCAT {
		return ErrWrongTableID
	}
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	payload := bt.Payload()
	r := NewBitReader(payload)
	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDCAT}
	list, err := parseDescriptorList(r, len(payload), ctx)
	if err != nil {
		return err
	}
	t.Descriptors = list
	return nil
}

func (t *CATTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	records := descriptorListRecords(t.Descriptors)
	bodies, err := chunkRecords(records, maxLongSectionPayload)
	if err != nil {
		return nil, err
	}

	sections, err := buildLongSections(duck, tableIDCAT, 0xffff, t.Version, t.Current, t.Private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func (t *CATTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("cat")
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))
	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDCAT}
	t.Descriptors.toXML(e, ctx)
	return e
}

func (t *CATTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}
	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDCAT}
	list, err := descriptorListFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.Descriptors = list
	return nil
}
