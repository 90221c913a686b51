package section

import "fmt"

func init() {
	registerTableXML("pmt", func() Table { return &PMTTable{} })
}

// PMTStream is one elementary stream entry in a PMT's stream loop.
type PMTStream struct {
	StreamType  uint8
	ElementaryPID uint16
	Descriptors DescriptorList
}

// PMTTable is the Program Map Table: which elementary streams make up
// one program, and under which PID the program clock reference runs.
type PMTTable struct {
	ProgramNumber      uint16
	Version            uint8
	Current            bool
	Private            bool
	PCRPID             uint16
	ProgramDescriptors DescriptorList
	Streams            []PMTStream
}

func (t *PMTTable) TableID() uint8 { return tableIDPMT }

func (t *PMTTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDPMT {
		return ErrWrongTableID
	}
	t.ProgramNumber = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDPMT}

	for i, s := range bt.Sections() {
		if s == nil {
			continue
		}

		r := NewBitReader(s.Payload)
		r.ReadBits(3)
		pcrPID := uint16(r.ReadBits(13))
		if i == 0 {
			t.PCRPID = pcrPID
		}

		list, err := readDescriptorListWithLength(r, ctx)
		if err != nil {
			return err
		}
		t.ProgramDescriptors = append(t.ProgramDescriptors, list...)

		for r.BytesRead() < int64(len(s.Payload)) {
			streamType := r.ReadUint8()
			r.ReadBits(3)
			pid := uint16(r.ReadBits(13))
			esDescriptors, err := readDescriptorListWithLength(r, ctx)
			if err != nil {
				return err
			}
			if err := r.Err(); err != nil {
				return err
			}
			t.Streams = append(t.Streams, PMTStream{
				StreamType:    streamType,
				ElementaryPID: pid,
				Descriptors:   esDescriptors,
			})
		}
	}
	return nil
}

func (t *PMTTable) streamRecord(s PMTStream) []byte {
	w := NewBitWriter()
	w.WriteUint8(s.StreamType)
	w.WriteBits(0x7, 3)
	w.WriteBits(uint64(s.ElementaryPID), 13)
	writeDescriptorListWithLength(w, s.Descriptors)
	return w.Flush()
}

func (t *PMTTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	const headerLen = 4 // pcr_pid (2 bytes) + program_info_length header (2 bytes)

	descRecords := descriptorListRecords(t.ProgramDescriptors)
	streamRecords := make([][]byte, len(t.Streams))
	for i, s := range t.Streams {
		streamRecords[i] = t.streamRecord(s)
	}

	budget := maxLongSectionPayload - headerLen
	for _, r := range descRecords {
		if len(r) > budget {
			return nil, fmt.Errorf("%w: program descriptor of %d bytes", ErrOverflow, len(r))
		}
	}
	for _, r := range streamRecords {
		if len(r) > budget {
			return nil, fmt.Errorf("%w: stream loop entry of %d bytes", ErrOverflow, len(r))
		}
	}

	var bodies [][]byte
	var curDesc, curStream []byte
	curLen := headerLen

	flush := func() {
		infoLen := len(curDesc)
		body := make([]byte, 0, headerLen+len(curDesc)+len(curStream))
		body = append(body, 0xe0|byte(t.PCRPID>>8), byte(t.PCRPID))
		body = append(body, 0xf0|byte(infoLen>>8), byte(infoLen))
		body = append(body, curDesc...)
		body = append(body, curStream...)
		bodies = append(bodies, body)
		curDesc, curStream = nil, nil
		curLen = headerLen
	}

	for _, rec := range descRecords {
		if curLen+len(rec) > maxLongSectionPayload {
			flush()
		}
		curDesc = append(curDesc, rec...)
		curLen += len(rec)
	}
	for _, rec := range streamRecords {
		if curLen+len(rec) > maxLongSectionPayload {
			flush()
		}
		curStream = append(curStream, rec...)
		curLen += len(rec)
	}
	flush()

	sections, err := buildLongSections(duck, tableIDPMT, t.ProgramNumber, t.Version, t.Current, t.Private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func (t *PMTTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("pmt")
	e.SetAttr("program_number", encodeHexAttr(uint64(t.ProgramNumber)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))
	e.SetAttr("pcr_pid", encodeHexAttr(uint64(t.PCRPID)))

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDPMT}
	t.ProgramDescriptors.toXML(e, ctx)

	for _, s := range t.Streams {
		se := e.AddChild(NewElement("stream"))
		se.SetAttr("stream_type", encodeHexAttr(uint64(s.StreamType)))
		se.SetAttr("elementary_pid", encodeHexAttr(uint64(s.ElementaryPID)))
		s.Descriptors.toXML(se, ctx)
	}
	return e
}

func (t *PMTTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("program_number"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.ProgramNumber = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}
	if v, ok := e.Attr("pcr_pid"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.PCRPID = uint16(n)
	}

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDPMT}
	list, err := descriptorListFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.ProgramDescriptors = list

	for _, se := range e.ChildrenNamed("stream") {
		var s PMTStream
		if v, ok := se.Attr("stream_type"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return err
			}
			s.StreamType = uint8(n)
		}
		if v, ok := se.Attr("elementary_pid"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return err
			}
			s.ElementaryPID = uint16(n)
		}
		esList, err := descriptorListFromXML(se, ctx)
		if err != nil {
			return err
		}
		s.Descriptors = esList
		t.Streams = append(t.Streams, s)
	}
	return nil
}
