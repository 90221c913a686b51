package section

import "time"

func init() {
	registerTableXML("tdt", func() Table { return &TDTTable{} })
}

// TDTTable is the Time and Date Table: a bare 40-bit MJD+BCD UTC
// timestamp in a short section with no CRC, grounded on dvb.go's
// readDVBTime/writeDVBTime helpers.
type TDTTable struct {
	UTCTime time.Time
}

func (t *TDTTable) TableID() uint8 { return tableIDTDT }

func (t *TDTTable) Deserialize(_ *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDTDT {
		return ErrWrongTableID
	}
	payload := bt.Payload()
	if len(payload) < 5 {
		return ErrInvalidLength
	}
	r := NewBitReader(payload)
	t.UTCTime = readDVBTime(r)
	return r.Err()
}

func (t *TDTTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	w := NewBitWriter()
	writeDVBTime(w, t.UTCTime)

	s, err := buildShortSection(duck, tableIDTDT, false, false, w.Flush())
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable([]*Section{s}), nil
}

func (t *TDTTable) ToXML(_ *DuckContext) *Element {
	e := NewElement("tdt")
	e.SetAttr("utc_time", t.UTCTime.UTC().Format(time.RFC3339))
	return e
}

func (t *TDTTable) FromXML(_ *DuckContext, e *Element) error {
	v, ok := e.Attr("utc_time")
	if !ok {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return err
	}
	t.UTCTime = parsed
	return nil
}
