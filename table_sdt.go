package section

import "fmt"

func init() {
	registerTableXML("sdt", func() Table { return &SDTTable{} })
}

// Running statuses for a service's running_status field.
const (
	RunningStatusUndefined           = 0
	RunningStatusNotRunning          = 1
	RunningStatusStartsInAFewSeconds = 2
	RunningStatusPausing             = 3
	RunningStatusRunning             = 4
	RunningStatusServiceOffAir       = 5
)

// SDTService is one service entry in an SDT's service loop.
type SDTService struct {
	ServiceID            uint16
	EITSchedule          bool
	EITPresentFollowing  bool
	RunningStatus        uint8
	FreeCAMode           bool
	Descriptors          DescriptorList
}

// SDTTable is the Service Description Table: every service carried by a
// transport stream, with its EIT availability and running status. Actual
// selects table_id 0x42 (this transport stream) vs 0x46 (another one).
type SDTTable struct {
	Actual            bool
	TransportStreamID uint16
	OriginalNetworkID uint16
	Version           uint8
	Current           bool
	Private           bool
	Services          []SDTService
}

func (t *SDTTable) TableID() uint8 {
	if t.Actual {
		return tableIDSDTActual
	}
	return tableIDSDTOther
}

func (t *SDTTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDSDTActual && bt.TableID() != tableIDSDTOther {
		return ErrWrongTableID
	}
	t.Actual = bt.TableID() == tableIDSDTActual
	t.TransportStreamID = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: bt.TableID()}

	for i, s := range bt.Sections() {
		if s == nil {
			continue
		}
		r := NewBitReader(s.Payload)
		onid := r.ReadUint16()
		if i == 0 {
			t.OriginalNetworkID = onid
		}
		r.ReadUint8() // reserved_future_use

		for r.BytesRead() < int64(len(s.Payload)) {
			var svc SDTService
			svc.ServiceID = r.ReadUint16()
			r.ReadBits(6)
			svc.EITSchedule = r.ReadBool()
			svc.EITPresentFollowing = r.ReadBool()
			svc.RunningStatus = uint8(r.ReadBits(3))
			svc.FreeCAMode = r.ReadBool()
			list, err := parseDescriptorList(r, int(r.ReadBits(12)), ctx)
			if err != nil {
				return err
			}
			svc.Descriptors = list
			t.Services = append(t.Services, svc)
		}
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}

func serviceRecord(s SDTService) []byte {
	w := NewBitWriter()
	w.WriteUint16(s.ServiceID)
	w.WriteBits(0x3f, 6)
	w.WriteBool(s.EITSchedule)
	w.WriteBool(s.EITPresentFollowing)
	w.WriteBits(uint64(s.RunningStatus), 3)
	w.WriteBool(s.FreeCAMode)
	w.WriteBits(uint64(calcDescriptorListLength(s.Descriptors)), 12)
	writeDescriptorList(w, s.Descriptors)
	return w.Flush()
}

func (t *SDTTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	const headerLen = 3 // original_network_id (2 bytes) + reserved_future_use (1 byte)

	records := make([][]byte, len(t.Services))
	for i, s := range t.Services {
		records[i] = serviceRecord(s)
	}

	budget := maxLongSectionPayload - headerLen
	chunks, err := chunkRecords(records, budget)
	if err != nil {
		return nil, err
	}

	bodies := make([][]byte, len(chunks))
	for i, c := range chunks {
		body := make([]byte, 0, headerLen+len(c))
		body = append(body, byte(t.OriginalNetworkID>>8), byte(t.OriginalNetworkID), 0xff)
		body = append(body, c...)
		bodies[i] = body
	}

	sections, err := buildLongSections(duck, t.TableID(), t.TransportStreamID, t.Version, t.Current, t.Private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func (t *SDTTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("sdt")
	e.SetAttr("actual", fmt.Sprintf("%t", t.Actual))
	e.SetAttr("transport_stream_id", encodeHexAttr(uint64(t.TransportStreamID)))
	e.SetAttr("original_network_id", encodeHexAttr(uint64(t.OriginalNetworkID)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	for _, s := range t.Services {
		se := e.AddChild(NewElement("service"))
		se.SetAttr("service_id", encodeHexAttr(uint64(s.ServiceID)))
		se.SetAttr("eit_schedule", fmt.Sprintf("%t", s.EITSchedule))
		se.SetAttr("eit_present_following", fmt.Sprintf("%t", s.EITPresentFollowing))
		se.SetAttr("running_status", fmt.Sprintf("%d", s.RunningStatus))
		se.SetAttr("free_ca_mode", fmt.Sprintf("%t", s.FreeCAMode))
		s.Descriptors.toXML(se, ctx)
	}
	return e
}

func (t *SDTTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("actual"); ok {
		t.Actual = v == "true"
	}
	if v, ok := e.Attr("transport_stream_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.TransportStreamID = uint16(n)
	}
	if v, ok := e.Attr("original_network_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.OriginalNetworkID = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	for _, se := range e.ChildrenNamed("service") {
		var s SDTService
		if v, ok := se.Attr("service_id"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return err
			}
			s.ServiceID = uint16(n)
		}
		if v, ok := se.Attr("eit_schedule"); ok {
			s.EITSchedule = v == "true"
		}
		if v, ok := se.Attr("eit_present_following"); ok {
			s.EITPresentFollowing = v == "true"
		}
		if v, ok := se.Attr("running_status"); ok {
			fmt.Sscanf(v, "%d", &s.RunningStatus)
		}
		if v, ok := se.Attr("free_ca_mode"); ok {
			s.FreeCAMode = v == "true"
		}
		list, err := descriptorListFromXML(se, ctx)
		if err != nil {
			return err
		}
		s.Descriptors = list
		t.Services = append(t.Services, s)
	}
	return nil
}
