package section

import (
	"bytes"
	"errors"
	"fmt"
)

// sectionState tracks a Section through its life cycle: a fresh section
// starts Empty, accepts a payload while Filling, becomes Sealed once its
// length/CRC fields are computed, and finally Readable or Invalid once
// validated against a CRCPolicy.
type sectionState int

const (
	stateEmpty sectionState = iota
	stateFilling
	stateSealed
	stateReadable
	stateInvalid
)

// CRCPolicy controls how a long section's trailing CRC-32 is treated on
// load.
type CRCPolicy int

const (
	// CRCCheck validates the CRC and marks a mismatching section Invalid.
	CRCCheck CRCPolicy = iota
	// CRCIgnore skips validation entirely, trusting the payload as given.
	CRCIgnore
	// CRCCompute recomputes and overwrites the CRC rather than checking it.
	CRCCompute
)

// ErrSectionNotFilling is returned by SetPayload once a section has left
// the Filling state.
var ErrSectionNotFilling = errors.New("section: section is not accepting a payload")

// ErrSectionNotSealed is returned by validate on a section that was never
// sealed.
var ErrSectionNotSealed = errors.New("section: section has not been sealed")

// ErrPSIInvalidCRC32 is returned by validate when a section's computed
// CRC-32 does not match its trailing CRC-32 field under CRCCheck policy.
var ErrPSIInvalidCRC32 = errors.New("section: invalid crc32")

// Section is one physical PSI/SI section: a table_id, the long-form
// syntax fields when present, and a payload of already-encoded bytes.
// It does not know what table it belongs to — BinaryTable groups sections
// sharing (table_id, table_id_extension, version, current_next) into a
// table instance.
type Section struct {
	state sectionState

	TableID                uint8
	SectionSyntaxIndicator  bool
	Private                 bool
	TableIDExtension        uint16
	Version                 uint8
	CurrentNext             bool
	SectionNumber           uint8
	LastSectionNumber       uint8
	Payload                 []byte
	CRC32                   uint32

	// HasCRC overrides the default "long sections have a CRC, short
	// sections don't" rule. TOT is short-form (no table_id_extension/
	// version/section_number syntax) yet still CRC-protected, so it sets
	// this explicitly rather than being folded into SectionSyntaxIndicator.
	HasCRC bool

	// Attribute carries free-form metadata (e.g. from an XML <metadata>
	// element). It is never wire-encoded.
	Attribute string

	encoded []byte
}

// newDraftSection creates a long (syntax-bearing, CRC-protected) section
// in the Filling state.
func newDraftSection(tableID uint8, tableIDExtension uint16, version uint8, currentNext bool, sectionNumber, lastSectionNumber uint8) *Section {
	return &Section{
		state:                  stateFilling,
		TableID:                tableID,
		SectionSyntaxIndicator: true,
		HasCRC:                 true,
		TableIDExtension:       tableIDExtension,
		Version:                version,
		CurrentNext:            currentNext,
		SectionNumber:          sectionNumber,
		LastSectionNumber:      lastSectionNumber,
	}
}

// newDraftShortSection creates a short (syntax-less) section in the
// Filling state. hasCRC distinguishes ordinary short sections like TDT
// (false) from TOT, the one short-form table that is still
// CRC-protected (true).
func newDraftShortSection(tableID uint8, hasCRC bool) *Section {
	return &Section{state: stateFilling, TableID: tableID, HasCRC: hasCRC}
}

// SetPayload installs the section's already-serialized body while it is
// still Filling.
func (s *Section) SetPayload(payload []byte) error {
	if s.state != stateFilling {
		return ErrSectionNotFilling
	}
	s.Payload = payload
	return nil
}

// hasLongSyntax reports whether this section carries the table_id_extension
// / version / section_number / last_section_number syntax header.
func (s *Section) hasLongSyntax() bool { return s.SectionSyntaxIndicator }

// hasCRC reports whether this section carries a trailing CRC-32.
func (s *Section) hasCRC() bool { return s.HasCRC }

// encodeHeaderAndPayload serializes the table_id, syntax header (if any)
// and payload, but never the CRC-32: seal uses it to compute a fresh CRC
// from the payload, and parseSection uses it to re-serialize around a
// CRC-32 it already read off the wire.
func (s *Section) encodeHeaderAndPayload() []byte {
	w := NewBitWriter()
	w.WriteUint8(s.TableID)

	if !s.hasLongSyntax() {
		bodyLen := len(s.Payload)
		if s.HasCRC {
			bodyLen += 4
		}

		w.WriteBool(false)
		w.WriteBool(s.Private)
		w.WriteBits(0x3, 2)
		w.WriteBits(uint64(bodyLen), 12)
		w.WriteBytes(s.Payload)
		return w.Flush()
	}

	syntaxLen := 5 + len(s.Payload) + 4 // syntax header + payload + CRC

	w.WriteBool(true)
	w.WriteBool(s.Private)
	w.WriteBits(0x3, 2)
	w.WriteBits(uint64(syntaxLen), 12)

	w.WriteUint16(s.TableIDExtension)
	w.WriteBits(0x3, 2)
	w.WriteBits(uint64(s.Version), 5)
	w.WriteBool(s.CurrentNext)
	w.WriteUint8(s.SectionNumber)
	w.WriteUint8(s.LastSectionNumber)

	w.WriteBytes(s.Payload)
	return w.Flush()
}

// seal computes section_length and, for long sections, the CRC-32, then
// transitions Filling -> Sealed. It is idempotent once Sealed.
func (s *Section) seal() error {
	if s.state != stateFilling {
		if s.state == stateSealed {
			return nil
		}
		return fmt.Errorf("section: cannot seal section in state %d", s.state)
	}

	withoutCRC := s.encodeHeaderAndPayload()

	if !s.hasCRC() {
		s.encoded = withoutCRC
		s.state = stateSealed
		return nil
	}

	s.CRC32 = computeCRC32(withoutCRC)
	s.encoded = appendCRC32(withoutCRC, s.CRC32)
	s.state = stateSealed
	return nil
}

func appendCRC32(bs []byte, crc uint32) []byte {
	full := make([]byte, len(bs)+4)
	copy(full, bs)
	full[len(bs)+0] = byte(crc >> 24)
	full[len(bs)+1] = byte(crc >> 16)
	full[len(bs)+2] = byte(crc >> 8)
	full[len(bs)+3] = byte(crc)
	return full
}

// validate checks a sealed section's CRC (or recomputes it) per policy,
// transitioning Sealed -> Readable or Invalid.
func (s *Section) validate(policy CRCPolicy) error {
	if s.state != stateSealed {
		return ErrSectionNotSealed
	}

	if !s.hasCRC() || policy == CRCIgnore {
		s.state = stateReadable
		return nil
	}

	computed := computeCRC32(s.encoded[:len(s.encoded)-4])

	if policy == CRCCompute {
		s.CRC32 = computed
		s.encoded[len(s.encoded)-4] = byte(computed >> 24)
		s.encoded[len(s.encoded)-3] = byte(computed >> 16)
		s.encoded[len(s.encoded)-2] = byte(computed >> 8)
		s.encoded[len(s.encoded)-1] = byte(computed)
		s.state = stateReadable
		return nil
	}

	if computed != s.CRC32 {
		s.state = stateInvalid
		return fmt.Errorf("%w: computed=%#x table=%#x", ErrPSIInvalidCRC32, computed, s.CRC32)
	}
	s.state = stateReadable
	return nil
}

// IsReadable reports whether this section passed validation.
func (s *Section) IsReadable() bool { return s.state == stateReadable }

// Bytes returns the fully encoded section, sealing it first if needed.
func (s *Section) Bytes() ([]byte, error) {
	if s.state == stateFilling {
		if err := s.seal(); err != nil {
			return nil, err
		}
	}
	if s.encoded == nil {
		return nil, ErrSectionNotSealed
	}
	return s.encoded, nil
}

// Equal compares two sections by their fully encoded bytes.
func (s *Section) Equal(other *Section) bool {
	a, errA := s.Bytes()
	b, errB := other.Bytes()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Clone deep-copies a Section.
func (s *Section) Clone() *Section {
	c := *s
	c.Payload = append([]byte(nil), s.Payload...)
	c.encoded = append([]byte(nil), s.encoded...)
	return &c
}

// parseSection decodes one section starting at r's current position. It
// returns io.EOF-wrapping behaviour via BitReader's sticky error: callers
// should check r.Err() after a failed parse.
func parseSection(r *BitReader) (*Section, error) {
	tableID := r.ReadUint8()
	syntaxIndicator := r.ReadBool()
	private := r.ReadBool()
	r.ReadBits(2)
	length := int(r.ReadBits(12))

	if err := r.Err(); err != nil {
		return nil, err
	}

	sectionEnd := r.BytesRead() + int64(length)

	s := &Section{
		state:                  stateSealed,
		TableID:                tableID,
		SectionSyntaxIndicator: syntaxIndicator,
		Private:                private,
	}

	if !syntaxIndicator {
		// TOT (table_id 0x73) is short-form but still CRC-protected; every
		// other short section (e.g. TDT) is not.
		s.HasCRC = tableID == tableIDTOT
		payloadLen := length
		if s.HasCRC {
			payloadLen -= 4
		}
		if payloadLen < 0 {
			return nil, ErrInvalidLength
		}
		s.Payload = r.ReadBytes(payloadLen)
		if s.HasCRC {
			s.CRC32 = r.ReadUint32()
		}
	} else {
		s.HasCRC = true
		s.TableIDExtension = r.ReadUint16()
		r.ReadBits(2)
		s.Version = uint8(r.ReadBits(5))
		s.CurrentNext = r.ReadBool()
		s.SectionNumber = r.ReadUint8()
		s.LastSectionNumber = r.ReadUint8()

		payloadLen := int(sectionEnd-r.BytesRead()) - 4
		if payloadLen < 0 {
			return nil, ErrInvalidLength
		}
		s.Payload = r.ReadBytes(payloadLen)
		s.CRC32 = r.ReadUint32()
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	// Re-serialize the header/payload rather than re-slice the source
	// buffer, so the section stands on its own (Clone/Equal rely on
	// s.encoded being self-contained) — but append the CRC-32 just read
	// off the wire, not a freshly computed one: validate must be able to
	// tell a genuinely corrupt section from a clean one.
	withoutCRC := s.encodeHeaderAndPayload()
	if s.hasCRC() {
		s.encoded = appendCRC32(withoutCRC, s.CRC32)
	} else {
		s.encoded = withoutCRC
	}

	return s, nil
}
