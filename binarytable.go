package section

import "bytes"

// SectionAddResult reports what AddSection did with an incoming section.
type SectionAddResult int

const (
	// Added means the section filled a previously empty slot.
	Added SectionAddResult = iota
	// DuplicatedSlot means the slot was already filled with a
	// byte-identical section; the incoming one was silently dropped.
	DuplicatedSlot
	// Conflict means the incoming section was rejected: its table_id,
	// table_id_extension, version or current_next_indicator differs from
	// the table's, or its slot was already filled with a different section.
	Conflict
	// Completed means this section was the last missing slot: the table
	// now has every section from 0..last_section_number.
	Completed
)

// BinaryTable groups the Sections that together make up one table
// instance: same table_id, table_id_extension, version and
// current_next_indicator, indexed by section_number.
type BinaryTable struct {
	tableID          uint8
	tableIDExtension uint16
	version          uint8
	currentNext      bool
	private          bool
	attribute        string

	sections []*Section // indexed by section_number; nil until filled
	lastSectionNumber uint8
	count             int
}

// newBinaryTable starts an empty BinaryTable sized for lastSectionNumber+1
// slots.
func newBinaryTable(tableID uint8, tableIDExtension uint16, version uint8, currentNext bool, lastSectionNumber uint8) *BinaryTable {
	return &BinaryTable{
		tableID:           tableID,
		tableIDExtension:  tableIDExtension,
		version:           version,
		currentNext:       currentNext,
		lastSectionNumber: lastSectionNumber,
		sections:          make([]*Section, int(lastSectionNumber)+1),
	}
}

// AddSection inserts a section at its SectionNumber slot.
func (t *BinaryTable) AddSection(s *Section) SectionAddResult {
	if s.TableID != t.tableID || s.TableIDExtension != t.tableIDExtension || s.Version != t.version || s.CurrentNext != t.currentNext {
		return Conflict
	}

	idx := int(s.SectionNumber)
	if idx >= len(t.sections) {
		grown := make([]*Section, idx+1)
		copy(grown, t.sections)
		t.sections = grown
		t.lastSectionNumber = s.LastSectionNumber
	}

	existing := t.sections[idx]
	if existing != nil {
		if existing.Equal(s) {
			return DuplicatedSlot
		}
		return Conflict
	}

	t.sections[idx] = s
	t.count++
	if s.Attribute != "" {
		t.attribute = s.Attribute
	}

	if t.count == len(t.sections) {
		return Completed
	}
	return Added
}

// setAttribute propagates an XML <metadata attribute="…"/> value onto the
// table and every one of its sections (property: metadata propagation).
func (t *BinaryTable) setAttribute(attr string) {
	if attr == "" {
		return
	}
	t.attribute = attr
	for _, s := range t.sections {
		if s != nil {
			s.Attribute = attr
		}
	}
}

func (t *BinaryTable) TableID() uint8            { return t.tableID }
func (t *BinaryTable) TableIDExtension() uint16  { return t.tableIDExtension }
func (t *BinaryTable) Version() uint8            { return t.version }
func (t *BinaryTable) CurrentNext() bool         { return t.currentNext }
func (t *BinaryTable) Attribute() string         { return t.attribute }
func (t *BinaryTable) SectionCount() int         { return t.count }

// IsShortSection reports whether this table's sections carry no
// table_id_extension/version syntax header.
func (t *BinaryTable) IsShortSection() bool {
	return len(t.sections) > 0 && t.sections[0] != nil && !t.sections[0].SectionSyntaxIndicator
}

// IsLongSection is the complement of IsShortSection.
func (t *BinaryTable) IsLongSection() bool { return !t.IsShortSection() }

// IsComplete reports whether every slot from 0..lastSectionNumber is
// filled.
func (t *BinaryTable) IsComplete() bool {
	for _, s := range t.sections {
		if s == nil {
			return false
		}
	}
	return len(t.sections) > 0
}

// SectionAt returns the section at a given index, or nil if that slot is
// still empty.
func (t *BinaryTable) SectionAt(i int) *Section {
	if i < 0 || i >= len(t.sections) {
		return nil
	}
	return t.sections[i]
}

// Sections returns every filled section, in section_number order.
func (t *BinaryTable) Sections() []*Section {
	out := make([]*Section, 0, len(t.sections))
	for _, s := range t.sections {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Payload concatenates every section's payload, in section_number order;
// used by typed tables whose Deserialize walks the logical byte stream
// rather than each Section independently.
func (t *BinaryTable) Payload() []byte {
	var buf bytes.Buffer
	for _, s := range t.sections {
		if s != nil {
			buf.Write(s.Payload)
		}
	}
	return buf.Bytes()
}

// binaryTableKey identifies which BinaryTable a freshly parsed Section
// belongs to.
type binaryTableKey struct {
	tableID          uint8
	tableIDExtension uint16
	version          uint8
	currentNext      bool
}

func sectionKey(s *Section) binaryTableKey {
	return binaryTableKey{
		tableID:          s.TableID,
		tableIDExtension: s.TableIDExtension,
		version:          s.Version,
		currentNext:      s.CurrentNext,
	}
}
