package section

import "fmt"

func init() {
	registerTableXML("nit", func() Table { return &NITTable{} })
}

// NITTransport is one transport stream entry in a NIT or BAT's transport
// stream loop.
type NITTransport struct {
	TransportStreamID uint16
	OriginalNetworkID uint16
	Descriptors       DescriptorList
}

// NITTable is the Network Information Table: identifies a network's
// transport streams and how to tune them. Actual selects table_id 0x40
// (the network carrying this NIT) vs 0x41 (another network).
type NITTable struct {
	Actual             bool
	NetworkID          uint16
	Version            uint8
	Current            bool
	Private            bool
	NetworkDescriptors DescriptorList
	TransportStreams   []NITTransport
}

func (t *NITTable) TableID() uint8 {
	if t.Actual {
		return tableIDNITActual
	}
	return tableIDNITOther
}

func (t *NITTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDNITActual && bt.TableID() != tableIDNITOther {
		return ErrWrongTableID
	}
	t.Actual = bt.TableID() == tableIDNITActual
	t.NetworkID = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: bt.TableID()}
	networkDescriptors, transports, err := parseNetworkLikeSections(bt, ctx)
	if err != nil {
		return err
	}
	t.NetworkDescriptors = networkDescriptors
	t.TransportStreams = transports
	return nil
}

func (t *NITTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	return buildNetworkLikeSections(duck, t.TableID(), t.NetworkID, t.Version, t.Current, t.Private, t.NetworkDescriptors, t.TransportStreams)
}

func (t *NITTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("nit")
	e.SetAttr("actual", fmt.Sprintf("%t", t.Actual))
	e.SetAttr("network_id", encodeHexAttr(uint64(t.NetworkID)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	t.NetworkDescriptors.toXML(e, ctx)
	transportsToXML(e, t.TransportStreams, ctx)
	return e
}

func (t *NITTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("actual"); ok {
		t.Actual = v == "true"
	}
	if v, ok := e.Attr("network_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.NetworkID = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	list, err := descriptorListFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.NetworkDescriptors = list

	transports, err := transportsFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.TransportStreams = transports
	return nil
}

// --- shared NIT/BAT machinery -------------------------------------------

func transportsToXML(parent *Element, transports []NITTransport, ctx *DescriptorContext) {
	for _, ts := range transports {
		te := parent.AddChild(NewElement("transport_stream"))
		te.SetAttr("transport_stream_id", encodeHexAttr(uint64(ts.TransportStreamID)))
		te.SetAttr("original_network_id", encodeHexAttr(uint64(ts.OriginalNetworkID)))
		ts.Descriptors.toXML(te, ctx)
	}
}

func transportsFromXML(parent *Element, ctx *DescriptorContext) ([]NITTransport, error) {
	var out []NITTransport
	for _, te := range parent.ChildrenNamed("transport_stream") {
		var ts NITTransport
		if v, ok := te.Attr("transport_stream_id"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return nil, err
			}
			ts.TransportStreamID = uint16(n)
		}
		if v, ok := te.Attr("original_network_id"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return nil, err
			}
			ts.OriginalNetworkID = uint16(n)
		}
		list, err := descriptorListFromXML(te, ctx)
		if err != nil {
			return nil, err
		}
		ts.Descriptors = list
		out = append(out, ts)
	}
	return out, nil
}

func transportRecord(ts NITTransport) []byte {
	w := NewBitWriter()
	w.WriteUint16(ts.TransportStreamID)
	w.WriteUint16(ts.OriginalNetworkID)
	writeDescriptorListWithLength(w, ts.Descriptors)
	return w.Flush()
}

// buildNetworkLikeSections serializes a network-descriptor loop followed
// by a transport-stream loop, the shape NIT and BAT share. Each section
// repeats the 4-byte pair of (reserved+network/bouquet-descriptors-length)
// and (reserved+transport-stream-loop-length) headers.
func buildNetworkLikeSections(duck *DuckContext, tableID uint8, extID uint16, version uint8, current, private bool, networkDescriptors DescriptorList, transports []NITTransport) (*BinaryTable, error) {
	const headerLen = 4 // network-descriptors-length header + transport-loop-length header

	descRecords := descriptorListRecords(networkDescriptors)
	transportRecords := make([][]byte, len(transports))
	for i, ts := range transports {
		transportRecords[i] = transportRecord(ts)
	}

	budget := maxLongSectionPayload - headerLen
	for _, r := range descRecords {
		if len(r) > budget {
			return nil, fmt.Errorf("%w: network descriptor of %d bytes", ErrOverflow, len(r))
		}
	}
	for _, r := range transportRecords {
		if len(r) > budget {
			return nil, fmt.Errorf("%w: transport stream entry of %d bytes", ErrOverflow, len(r))
		}
	}

	var bodies [][]byte
	var curDesc, curTransports []byte
	curLen := headerLen

	flush := func() {
		descLen := len(curDesc)
		body := make([]byte, 0, headerLen+len(curDesc)+len(curTransports))
		body = append(body, 0xf0|byte(descLen>>8), byte(descLen))
		body = append(body, curDesc...)
		transLen := len(curTransports)
		body = append(body, 0xf0|byte(transLen>>8), byte(transLen))
		body = append(body, curTransports...)
		bodies = append(bodies, body)
		curDesc, curTransports = nil, nil
		curLen = headerLen
	}

	for _, rec := range descRecords {
		if curLen+len(rec) > maxLongSectionPayload {
			flush()
		}
		curDesc = append(curDesc, rec...)
		curLen += len(rec)
	}
	for _, rec := range transportRecords {
		if curLen+len(rec) > maxLongSectionPayload {
			flush()
		}
		curTransports = append(curTransports, rec...)
		curLen += len(rec)
	}
	flush()

	sections, err := buildLongSections(duck, tableID, extID, version, current, private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func parseNetworkLikeSections(bt *BinaryTable, ctx *DescriptorContext) (DescriptorList, []NITTransport, error) {
	var networkDescriptors DescriptorList
	var transports []NITTransport

	for _, s := range bt.Sections() {
		if s == nil {
			continue
		}
		r := NewBitReader(s.Payload)

		list, err := readDescriptorListWithLength(r, ctx)
		if err != nil {
			return nil, nil, err
		}
		networkDescriptors = append(networkDescriptors, list...)

		r.ReadBits(4)
		loopLength := int(r.ReadBits(12))
		loopEnd := r.BytesRead() + int64(loopLength)

		for r.BytesRead() < loopEnd {
			var ts NITTransport
			ts.TransportStreamID = r.ReadUint16()
			ts.OriginalNetworkID = r.ReadUint16()
			tsDescriptors, err := readDescriptorListWithLength(r, ctx)
			if err != nil {
				return nil, nil, err
			}
			ts.Descriptors = tsDescriptors
			transports = append(transports, ts)
		}

		if err := r.Err(); err != nil {
			return nil, nil, err
		}
	}
	return networkDescriptors, transports, nil
}
