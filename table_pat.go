package section

import (
	"fmt"
	"sort"
)

func init() {
	registerTableXML("pat", func() Table { return &PATTable{} })
}

// ErrWrongTableID is returned by a typed table's Deserialize when handed
// a BinaryTable whose TableID does not match.
var ErrWrongTableID = fmt.Errorf("section: binary table has the wrong table id")

// ErrInvalidStructure is returned when a binary table's payload violates
// a per-family structural invariant (a length field pointing past the
// section end, a loop that never terminates, and so on).
var ErrInvalidStructure = fmt.Errorf("section: payload violates table structure")

const maxPATPrograms = 8191

// PATTable is the Program Association Table: the map from program
// number to the PID of that program's PMT, plus the NIT's own PID
// under the reserved program number 0.
type PATTable struct {
	TransportStreamID uint16
	Version           uint8
	Current           bool
	Private           bool

	// Programs maps program_number to the PID of its PMT. Program
	// number 0 is reserved for the NIT and is exposed separately via
	// NITPID rather than appearing here.
	Programs map[uint16]uint16
	NITPID   uint16
}

func (t *PATTable) TableID() uint8 { return tableIDPAT }

func (t *PATTable) Deserialize(_ *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDPAT {
		return ErrWrongTableID
	}

	t.TransportStreamID = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()
	t.Programs = map[uint16]uint16{}

	payload := bt.Payload()
	if len(payload)%4 != 0 {
		return fmt.Errorf("%w: PAT payload length %d not a multiple of 4", ErrInvalidStructure, len(payload))
	}

	for i := 0; i+4 <= len(payload); i += 4 {
		programNumber := uint16(payload[i])<<8 | uint16(payload[i+1])
		pid := uint16(payload[i+2]&0x1f)<<8 | uint16(payload[i+3])
		if programNumber == 0 {
			t.NITPID = pid
			continue
		}
		t.Programs[programNumber] = pid
	}
	return nil
}

func (t *PATTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	if len(t.Programs) > maxPATPrograms {
		return nil, fmt.Errorf("%w: %d programs exceeds the %d-per-ts_id limit", ErrInvalidStructure, len(t.Programs), maxPATPrograms)
	}

	numbers := make([]uint16, 0, len(t.Programs)+1)
	for n := range t.Programs {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	records := make([][]byte, 0, len(numbers)+1)
	if t.NITPID != 0 {
		records = append(records, patRecord(0, t.NITPID))
	}
	for _, n := range numbers {
		records = append(records, patRecord(n, t.Programs[n]))
	}

	bodies, err := chunkRecords(records, maxLongSectionPayload)
	if err != nil {
		return nil, err
	}

	sections, err := buildLongSections(duck, tableIDPAT, t.TransportStreamID, t.Version, t.Current, t.Private, bodies)
	if err != nil {
		return nil, err
	}
	return sectionsToBinaryTable(sections), nil
}

func patRecord(programNumber, pid uint16) []byte {
	return []byte{
		byte(programNumber >> 8), byte(programNumber),
		0xe0 | byte(pid>>8), byte(pid),
	}
}

func (t *PATTable) ToXML(_ *DuckContext) *Element {
	e := NewElement("pat")
	e.SetAttr("transport_stream_id", encodeHexAttr(uint64(t.TransportStreamID)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))

	numbers := make([]uint16, 0, len(t.Programs))
	for n := range t.Programs {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	for _, n := range numbers {
		p := e.AddChild(NewElement("program"))
		p.SetAttr("program_number", encodeHexAttr(uint64(n)))
		p.SetAttr("program_map_pid", encodeHexAttr(uint64(t.Programs[n])))
	}

	if t.NITPID != 0 {
		nit := e.AddChild(NewElement("program"))
		nit.SetAttr("program_number", "0x0000")
		nit.SetAttr("program_map_pid", encodeHexAttr(uint64(t.NITPID)))
	}
	return e
}

func (t *PATTable) FromXML(_ *DuckContext, e *Element) error {
	t.Programs = map[uint16]uint16{}

	if v, ok := e.Attr("transport_stream_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.TransportStreamID = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}

	for _, p := range e.ChildrenNamed("program") {
		numStr, ok := p.Attr("program_number")
		if !ok {
			continue
		}
		num, err := decodeHexAttr(numStr)
		if err != nil {
			return err
		}
		pidStr, ok := p.Attr("program_map_pid")
		if !ok {
			continue
		}
		pid, err := decodeHexAttr(pidStr)
		if err != nil {
			return err
		}

		if num == 0 {
			t.NITPID = uint16(pid)
			continue
		}
		t.Programs[uint16(num)] = uint16(pid)
	}
	return nil
}
