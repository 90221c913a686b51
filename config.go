package section

// StandardsFlavor selects which broadcast standard governs ambiguous wire
// details (private_data_specifier interpretation, descriptor tag space).
type StandardsFlavor int

const (
	FlavorDVB StandardsFlavor = iota
	FlavorATSC
	FlavorISDB
)

// DuckContext carries the ambient configuration a Table's
// Serialize/Deserialize/ToXML/FromXML methods are evaluated against: which
// standards flavor to assume and the default CRC policy for freshly loaded
// sections. It carries no character set, time reference or
// private_data_specifier registry; the private_data_specifier in force is
// tracked per descriptor list in DescriptorContext.
type DuckContext struct {
	Standard  StandardsFlavor
	CRCPolicy CRCPolicy
}

// DuckOpt configures a DuckContext.
type DuckOpt func(*DuckContext)

// NewDuckContext builds a DuckContext with the given options applied over
// sensible defaults (DVB flavor, CRCCheck policy).
func NewDuckContext(opts ...DuckOpt) *DuckContext {
	d := &DuckContext{Standard: FlavorDVB, CRCPolicy: CRCCheck}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DuckOptStandard sets the standards flavor.
func DuckOptStandard(s StandardsFlavor) DuckOpt {
	return func(d *DuckContext) { d.Standard = s }
}

// DuckOptCRCPolicy sets the default CRC policy for loaded sections.
func DuckOptCRCPolicy(p CRCPolicy) DuckOpt {
	return func(d *DuckContext) { d.CRCPolicy = p }
}

func (d *DuckContext) descriptorStandard() Standard {
	switch d.Standard {
	case FlavorATSC:
		return StandardATSC
	case FlavorISDB:
		return StandardISDB
	default:
		return StandardDVB
	}
}
