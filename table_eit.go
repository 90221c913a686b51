package section

import (
	"fmt"
	"time"
)

func init() {
	registerTableXML("eit", func() Table { return &EITTable{} })
}

// EIT table ids: present/following occupy 0x4E/0x4F, schedule occupies
// the remaining range up to 0x6F (actual vs other halves split at 0x60).
const (
	tableIDEITPresentFollowingActual uint8 = 0x4e
	tableIDEITPresentFollowingOther  uint8 = 0x4f
	tableIDEITScheduleActualStart    uint8 = 0x50
	tableIDEITScheduleActualEnd      uint8 = 0x5f
	tableIDEITScheduleOtherStart     uint8 = 0x60
	tableIDEITScheduleOtherEnd       uint8 = 0x6f
)

// scheduleSegmentSpan is the width of one DVB EIT schedule segment: 32
// sections covering a 3-hour slot.
const (
	scheduleSegmentMaxSections = 32
	scheduleSegmentSpan        = 3 * time.Hour
)

// EITEvent is one broadcast event in an EIT's event loop.
type EITEvent struct {
	EventID       uint16
	StartTime     time.Time
	Duration      time.Duration
	RunningStatus uint8
	FreeCAMode    bool
	Descriptors   DescriptorList
}

// EITTable is the Event Information Table: either a present/following
// table (table_id 0x4E/0x4F, at most two events) or a schedule table
// (0x50-0x6F, partitioned into 3-hour/32-section segments).
type EITTable struct {
	// TableIDValue pins the exact table_id within 0x4E-0x6F; zero
	// defaults to the actual present/following id.
	TableIDValue             uint8
	ServiceID                uint16
	TransportStreamID        uint16
	OriginalNetworkID        uint16
	SegmentLastSectionNumber uint8
	LastTableID              uint8
	Version                  uint8
	Current                  bool
	Private                  bool
	Events                   []EITEvent
}

func (t *EITTable) TableID() uint8 {
	if t.TableIDValue == 0 {
		return tableIDEITPresentFollowingActual
	}
	return t.TableIDValue
}

func (t *EITTable) isSchedule() bool { return t.TableID() >= tableIDEITScheduleActualStart }

func (t *EITTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() < tableIDEITStart || bt.TableID() > tableIDEITEnd {
		return ErrWrongTableID
	}
	t.TableIDValue = bt.TableID()
	t.ServiceID = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: bt.TableID()}

	for i, s := range bt.Sections() {
		if s == nil {
			continue
		}
		r := NewBitReader(s.Payload)
		tsid := r.ReadUint16()
		onid := r.ReadUint16()
		segmentLast := r.ReadUint8()
		lastTableID := r.ReadUint8()
		if i == 0 {
			t.TransportStreamID = tsid
			t.OriginalNetworkID = onid
			t.SegmentLastSectionNumber = segmentLast
			t.LastTableID = lastTableID
		}

		for r.BytesRead() < int64(len(s.Payload)) {
			var ev EITEvent
			ev.EventID = r.ReadUint16()
			ev.StartTime = readDVBTime(r)
			ev.Duration = readDVBDurationSeconds(r)
			ev.RunningStatus = uint8(r.ReadBits(3))
			ev.FreeCAMode = r.ReadBool()
			list, err := parseDescriptorList(r, int(r.ReadBits(12)), ctx)
			if err != nil {
				return err
			}
			ev.Descriptors = list
			t.Events = append(t.Events, ev)
		}
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}

func eitEventRecord(ev EITEvent) []byte {
	w := NewBitWriter()
	w.WriteUint16(ev.EventID)
	writeDVBTime(w, ev.StartTime)
	writeDVBDurationSeconds(w, ev.Duration)
	w.WriteBits(uint64(ev.RunningStatus), 3)
	w.WriteBool(ev.FreeCAMode)
	w.WriteBits(uint64(calcDescriptorListLength(ev.Descriptors)), 12)
	writeDescriptorList(w, ev.Descriptors)
	return w.Flush()
}

// eitEventSegments groups events into consecutive runs sharing the same
// 3-hour schedule slot, the unit the DVB schedule layout chunks sections
// into (each slot becomes its own run of up to 32 sections).
func eitEventSegments(events []EITEvent) [][]EITEvent {
	if len(events) == 0 {
		return [][]EITEvent{nil}
	}
	var segments [][]EITEvent
	var current []EITEvent
	var slot int64
	for i, ev := range events {
		s := ev.StartTime.Unix() / int64(scheduleSegmentSpan/time.Second)
		if i == 0 || s == slot {
			current = append(current, ev)
		} else {
			segments = append(segments, current)
			current = []EITEvent{ev}
		}
		slot = s
	}
	segments = append(segments, current)
	return segments
}

func (t *EITTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	const headerLen = 6 // transport_stream_id + original_network_id + segment_last_section_number + last_table_id

	budget := maxLongSectionPayload - headerLen

	var eventRuns [][]EITEvent
	if t.isSchedule() {
		eventRuns = eitEventSegments(t.Events)
	} else {
		eventRuns = [][]EITEvent{t.Events}
	}

	type sectionInfo struct {
		body        []byte
		segmentLast uint8 // filled in once the run's section count is known
	}
	var infos []sectionInfo

	for _, run := range eventRuns {
		records := make([][]byte, len(run))
		for i, ev := range run {
			records[i] = eitEventRecord(ev)
		}
		chunks, err := chunkRecords(records, budget)
		if err != nil {
			return nil, err
		}
		if t.isSchedule() && len(chunks) > scheduleSegmentMaxSections {
			return nil, fmt.Errorf("%w: schedule segment needs %d sections, max %d", ErrOverflow, len(chunks), scheduleSegmentMaxSections)
		}

		base := len(infos)
		for _, c := range chunks {
			infos = append(infos, sectionInfo{body: c})
		}
		last := uint8(len(infos) - 1)
		for i := base; i < len(infos); i++ {
			infos[i].segmentLast = last
		}
	}

	bodies := make([][]byte, len(infos))
	for i, info := range infos {
		body := make([]byte, 0, headerLen+len(info.body))
		body = append(body, byte(t.TransportStreamID>>8), byte(t.TransportStreamID))
		body = append(body, byte(t.OriginalNetworkID>>8), byte(t.OriginalNetworkID))
		body = append(body, info.segmentLast, t.LastTableID)
		body = append(body, info.body...)
		bodies[i] = body
	}

	sections, err := buildLongSections(duck, t.TableID(), t.ServiceID, t.Version, t.Current, t.Private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func (t *EITTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("eit")
	e.SetAttr("table_id", encodeHexAttr(uint64(t.TableID())))
	e.SetAttr("service_id", encodeHexAttr(uint64(t.ServiceID)))
	e.SetAttr("transport_stream_id", encodeHexAttr(uint64(t.TransportStreamID)))
	e.SetAttr("original_network_id", encodeHexAttr(uint64(t.OriginalNetworkID)))
	e.SetAttr("last_table_id", encodeHexAttr(uint64(t.LastTableID)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	for _, ev := range t.Events {
		ee := e.AddChild(NewElement("event"))
		ee.SetAttr("event_id", encodeHexAttr(uint64(ev.EventID)))
		ee.SetAttr("start_time", ev.StartTime.UTC().Format(time.RFC3339))
		ee.SetAttr("duration_seconds", fmt.Sprintf("%d", int(ev.Duration.Seconds())))
		ee.SetAttr("running_status", fmt.Sprintf("%d", ev.RunningStatus))
		ee.SetAttr("free_ca_mode", fmt.Sprintf("%t", ev.FreeCAMode))
		ev.Descriptors.toXML(ee, ctx)
	}
	return e
}

func (t *EITTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("table_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.TableIDValue = uint8(n)
	}
	if v, ok := e.Attr("service_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.ServiceID = uint16(n)
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
	if v, ok := e.Attr("last_table_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.LastTableID = uint8(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: t.TableID()}
	for _, ee := range e.ChildrenNamed("event") {
		var ev EITEvent
		if v, ok := ee.Attr("event_id"); ok {
			n, err := decodeHexAttr(v)
			if err != nil {
				return err
			}
			ev.EventID = uint16(n)
		}
		if v, ok := ee.Attr("start_time"); ok {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return err
			}
			ev.StartTime = parsed
		}
		if v, ok := ee.Attr("duration_seconds"); ok {
			var secs int
			fmt.Sscanf(v, "%d", &secs)
			ev.Duration = time.Duration(secs) * time.Second
		}
		if v, ok := ee.Attr("running_status"); ok {
			fmt.Sscanf(v, "%d", &ev.RunningStatus)
		}
		if v, ok := ee.Attr("free_ca_mode"); ok {
			ev.FreeCAMode = v == "true"
		}
		list, err := descriptorListFromXML(ee, ctx)
		if err != nil {
			return err
		}
		ev.Descriptors = list
		t.Events = append(t.Events, ev)
	}
	return nil
}
