package section

import "io"

// SectionFile is the top-level container this core's three
// representations all round-trip through: a set of complete
// BinaryTables plus any Sections that never found the rest of their
// table.
type SectionFile struct {
	*DuckContext

	tables     []*BinaryTable
	inProgress map[binaryTableKey]*BinaryTable
	orphans    []*Section
}

// NewSectionFile starts an empty SectionFile under the given ambient
// configuration (DVB/CRCCheck defaults if duck is nil).
func NewSectionFile(duck *DuckContext) *SectionFile {
	if duck == nil {
		duck = NewDuckContext()
	}
	return &SectionFile{
		DuckContext: duck,
		inProgress:  map[binaryTableKey]*BinaryTable{},
	}
}

// Add appends an already-complete BinaryTable.
func (sf *SectionFile) Add(bt *BinaryTable) {
	sf.tables = append(sf.tables, bt)
}

// AddSection routes a freshly parsed Section into the BinaryTable it
// belongs to, starting one if none is in progress yet, and promotes it
// out of inProgress into Tables() once AddSection reports Completed. A
// short section belongs to a table of exactly one section and completes
// immediately.
func (sf *SectionFile) AddSection(s *Section) SectionAddResult {
	if !s.SectionSyntaxIndicator {
		bt := newBinaryTable(s.TableID, 0, 0, false, 0)
		res := bt.AddSection(s)
		sf.tables = append(sf.tables, bt)
		return res
	}

	key := sectionKey(s)
	bt, ok := sf.inProgress[key]
	if !ok {
		bt = newBinaryTable(s.TableID, s.TableIDExtension, s.Version, s.CurrentNext, s.LastSectionNumber)
		sf.inProgress[key] = bt
	}

	res := bt.AddSection(s)
	if res == Completed {
		sf.tables = append(sf.tables, bt)
		delete(sf.inProgress, key)
	}
	return res
}

// LoadBinary reads consecutive sections from r under the file's
// CRCPolicy until EOF or a stuffing run (0xFF bytes padding the tail).
// A section that fails validation is kept in OrphanSections rather than
// discarded; a section that fails to parse at all stops the read, since
// the remaining bytes can no longer be framed.
func (sf *SectionFile) LoadBinary(r io.Reader) error {
	bs, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return sf.loadBinaryBytes(bs, sf.CRCPolicy)
}

// LoadBinaryBuffer loads an in-memory section stream produced by this
// same core, trusting it rather than re-validating CRCs.
func (sf *SectionFile) LoadBinaryBuffer(bs []byte) error {
	return sf.loadBinaryBytes(bs, CRCIgnore)
}

func (sf *SectionFile) loadBinaryBytes(bs []byte, policy CRCPolicy) error {
	br := NewBitReader(bs)
	it := NewNoAllocBytesIterator(bs)
	for {
		it.Seek(int(br.BytesRead()))
		if !it.HasBytesLeft() {
			break
		}
		if b, err := it.NextByte(); err != nil || b == 0xff {
			// EOF, or stuffing: the remainder pads out to the end of the buffer.
			break
		}

		s, err := parseSection(br)
		if err != nil {
			logger.Printf("section: stopping binary load: %v", err)
			return nil
		}

		if err := s.validate(policy); err != nil {
			sf.orphans = append(sf.orphans, s)
			continue
		}
		sf.AddSection(s)
	}
	return nil
}

// LoadXML populates the file from a document produced by WriteXML/SaveXML.
func (sf *SectionFile) LoadXML(r io.Reader) error {
	root, err := ParseXML(r)
	if err != nil {
		return err
	}
	return sf.loadElementRoot(root)
}

// LoadJSON populates the file from the mechanical JSON mirror of the XML
// form.
func (sf *SectionFile) LoadJSON(r io.Reader) error {
	root, err := ParseJSON(r)
	if err != nil {
		return err
	}
	return sf.loadElementRoot(root)
}

func (sf *SectionFile) loadElementRoot(root *Element) error {
	tables, err := tablesFromXMLRoot(sf.DuckContext, root)
	if err != nil {
		return err
	}
	sf.tables = append(sf.tables, tables...)
	return nil
}

// SaveBinary concatenates every table's sections, then every orphan
// section, in insertion order.
func (sf *SectionFile) SaveBinary(w io.Writer) error {
	for _, t := range sf.tables {
		for _, s := range t.Sections() {
			bs, err := s.Bytes()
			if err != nil {
				return err
			}
			if _, err := w.Write(bs); err != nil {
				return err
			}
		}
	}
	for _, s := range sf.orphans {
		bs, err := s.Bytes()
		if err != nil {
			return err
		}
		if _, err := w.Write(bs); err != nil {
			return err
		}
	}
	return nil
}

// SaveXML emits every table under a single <tsduck> root, each rendered
// through its typed model where one is registered.
func (sf *SectionFile) SaveXML(w io.Writer) error {
	root, err := sf.buildDocumentRoot(false)
	if err != nil {
		return err
	}
	return WriteXML(w, root)
}

// SaveXMLGeneric is SaveXML with every table forced through the generic
// escape-hatch rendering, a debugging aid for inspecting raw section
// payloads regardless of how well a typed model understands them.
func (sf *SectionFile) SaveXMLGeneric(w io.Writer) error {
	root, err := sf.buildDocumentRoot(true)
	if err != nil {
		return err
	}
	return WriteXML(w, root)
}

// SaveJSON emits the same document SaveXML does, in its mechanical JSON
// mirror.
func (sf *SectionFile) SaveJSON(w io.Writer) error {
	root, err := sf.buildDocumentRoot(false)
	if err != nil {
		return err
	}
	return WriteJSON(w, root)
}

func (sf *SectionFile) buildDocumentRoot(forceGeneric bool) (*Element, error) {
	elements := make([]*Element, 0, len(sf.tables))
	for _, bt := range sf.tables {
		e, err := tableToXMLElement(sf.DuckContext, bt, forceGeneric)
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return buildXMLRoot(elements), nil
}

// Tables returns every complete table the file holds.
func (sf *SectionFile) Tables() []*BinaryTable { return sf.tables }

// OrphanSections returns sections that never completed a table: those
// that failed CRC validation, plus those still sitting in an in-progress
// BinaryTable waiting for the rest of its siblings to arrive.
func (sf *SectionFile) OrphanSections() []*Section {
	out := append([]*Section(nil), sf.orphans...)
	for _, bt := range sf.inProgress {
		out = append(out, bt.Sections()...)
	}
	return out
}

// Sections returns every section across every complete table plus every
// orphan, in insertion order.
func (sf *SectionFile) Sections() []*Section {
	var out []*Section
	for _, t := range sf.tables {
		out = append(out, t.Sections()...)
	}
	out = append(out, sf.OrphanSections()...)
	return out
}
