package section

import "time"

func init() {
	registerTableXML("tot", func() Table { return &TOTTable{} })
}

// TOTTable is the Time Offset Table: a UTC timestamp plus a descriptor
// loop (typically local_time_offset_descriptor), in the one short-form
// section that still carries a CRC.
type TOTTable struct {
	UTCTime     time.Time
	Descriptors DescriptorList
}

func (t *TOTTable) TableID() uint8 { return tableIDTOT }

func (t *TOTTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDTOT {
		return ErrWrongTableID
	}
	payload := bt.Payload()
	if len(payload) < 5 {
		return ErrInvalidLength
	}
	r := NewBitReader(payload)
	t.UTCTime = readDVBTime(r)

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDTOT}
	list, err := readDescriptorListWithLength(r, ctx)
	if err != nil {
		return err
	}
	t.Descriptors = list
	return r.Err()
}

func (t *TOTTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	w := NewBitWriter()
	writeDVBTime(w, t.UTCTime)
	writeDescriptorListWithLength(w, t.Descriptors)

	s, err := buildShortSection(duck, tableIDTOT, true, false, w.Flush())
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable([]*Section{s}), nil
}

func (t *TOTTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("tot")
	e.SetAttr("utc_time", t.UTCTime.UTC().Format(time.RFC3339))
	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDTOT}
	t.Descriptors.toXML(e, ctx)
	return e
}

func (t *TOTTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("utc_time"); ok {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}
		t.UTCTime = parsed
	}
	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDTOT}
	list, err := descriptorListFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.Descriptors = list
	return nil
}
