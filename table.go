package section

// Table IDs this core understands (DVB SI numbering, Chapter 5.2 of
// ETSI EN 300 468 plus the PAT/PMT/CAT ids from ISO/IEC 13818-1).
const (
	tableIDPAT       uint8 = 0x00
	tableIDCAT       uint8 = 0x01
	tableIDPMT       uint8 = 0x02
	tableIDNITActual uint8 = 0x40
	tableIDNITOther  uint8 = 0x41
	tableIDSDTActual uint8 = 0x42
	tableIDSDTOther  uint8 = 0x46
	tableIDBAT       uint8 = 0x4a
	tableIDEITStart  uint8 = 0x4e
	tableIDEITEnd    uint8 = 0x6f
	tableIDTDT       uint8 = 0x70
	tableIDTOT       uint8 = 0x73
)

// Table is implemented by every typed PSI/SI table. Deserialize/Serialize
// bridge to the wire (BinaryTable/Section) form; ToXML/FromXML bridge to
// the document form. A table registers its own XML element name/factory
// at init() time via registerTableXML, so adding one never touches a
// central dispatch site.
type Table interface {
	TableID() uint8
	Deserialize(duck *DuckContext, bt *BinaryTable) error
	Serialize(duck *DuckContext) (*BinaryTable, error)
	ToXML(duck *DuckContext) *Element
	FromXML(duck *DuckContext, e *Element) error
}

type tableFactory func() Table

var tableFactoriesByXMLName = map[string]tableFactory{}

// registerTableXML makes a table participate in the XML/JSON bridge
// under the given (already-lowercase) element name.
func registerTableXML(name string, factory tableFactory) {
	tableFactoriesByXMLName[name] = factory
}

// newTableForID picks the concrete Table type a BinaryTable's table_id
// deserializes into. It only goes far enough to pick a Go type, not to
// dispatch the parse itself (Deserialize does that, via the
// registry-free Table methods each type already has).
func newTableForID(id uint8) Table {
	switch {
	case id == tableIDPAT:
		return &PATTable{}
	case id == tableIDCAT:
		return &CATTable{}
	case id == tableIDPMT:
		return &PMTTable{}
	case id == tableIDNITActual || id == tableIDNITOther:
		return &NITTable{}
	case id == tableIDSDTActual || id == tableIDSDTOther:
		return &SDTTable{}
	case id == tableIDBAT:
		return &BATTable{}
	case id == tableIDTDT:
		return &TDTTable{}
	case id == tableIDTOT:
		return &TOTTable{}
	case id >= tableIDEITStart && id <= tableIDEITEnd:
		return &EITTable{}
	default:
		return nil
	}
}
