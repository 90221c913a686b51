package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorList_WriteParseRoundTrip(t *testing.T) {
	ctx := &DescriptorContext{Standard: StandardDVB}
	list := DescriptorList{
		tenByteDescriptor(0x72),
		tenByteDescriptor(0x72),
	}

	w := NewBitWriter()
	writeDescriptorList(w, list)
	buf := w.Flush()

	r := NewBitReader(buf)
	got, err := parseDescriptorList(r, len(buf), ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint8(0x72), got[0].Tag)
	gd, ok := got[0].Variant.(*GenericDescriptor)
	require.True(t, ok)
	assert.Equal(t, uint8(0x72), gd.DescriptorTag)
	assert.Len(t, gd.Payload, 8)
}

// TestDescriptorList_UnregisteredTagFallsBackToGeneric exercises the
// resilience rule: an unknown tag still advances past its declared
// length and survives the round trip as a GenericDescriptor.
func TestDescriptorList_UnregisteredTagFallsBackToGeneric(t *testing.T) {
	ctx := &DescriptorContext{Standard: StandardDVB}

	w := NewBitWriter()
	w.WriteUint8(0x72)
	w.WriteUint8(3)
	w.WriteBytes([]byte{0xaa, 0xbb, 0xcc})
	buf := w.Flush()

	r := NewBitReader(buf)
	list, err := parseDescriptorList(r, len(buf), ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	gd, ok := list[0].Variant.(*GenericDescriptor)
	require.True(t, ok)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, gd.Payload)
}

func TestGenericDescriptor_XMLRoundTrip(t *testing.T) {
	ctx := &DescriptorContext{Standard: StandardDVB}
	d := &GenericDescriptor{DescriptorTag: 0x72, Payload: []byte{1, 2, 3, 4, 5, 6, 7}}

	e := NewElement("descriptor")
	d.toXML(e, ctx)
	assert.Equal(t, "generic_descriptor", e.Name)

	got, err := descriptorFromXMLElement(e, ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x72), got.Tag)
	gd, ok := got.Variant.(*GenericDescriptor)
	require.True(t, ok)
	assert.Equal(t, d.Payload, gd.Payload)
}

func TestDescriptorFromXMLElement_UnknownElementFails(t *testing.T) {
	ctx := &DescriptorContext{Standard: StandardDVB}
	e := NewElement("totally_unknown_descriptor")
	_, err := descriptorFromXMLElement(e, ctx)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

// TestNewDescriptorVariant_ScopesByStandard pins the (tag, Standard)
// dimension of the registry: DescriptorTagStreamIdentifier is a DVB
// registration, so the same tag under a different standard must fall
// back to GenericDescriptor rather than being misclassified.
func TestNewDescriptorVariant_ScopesByStandard(t *testing.T) {
	dvb := newDescriptorVariant(DescriptorTagStreamIdentifier, &DescriptorContext{Standard: StandardDVB})
	_, ok := dvb.(*DescriptorStreamIdentifier)
	assert.True(t, ok)

	atsc := newDescriptorVariant(DescriptorTagStreamIdentifier, &DescriptorContext{Standard: StandardATSC})
	gd, ok := atsc.(*GenericDescriptor)
	require.True(t, ok)
	assert.Equal(t, uint8(DescriptorTagStreamIdentifier), gd.DescriptorTag)
}

// TestNewDescriptorVariant_ScopesByPrivateDataSpecifier pins the
// private_data_specifier dimension: DescriptorTagLogicalChannelNumber
// only resolves to DescriptorLogicalChannelNumber once ctx carries
// EACEM's specifier; otherwise the DVB user-private tag is opaque.
func TestNewDescriptorVariant_ScopesByPrivateDataSpecifier(t *testing.T) {
	plain := newDescriptorVariant(DescriptorTagLogicalChannelNumber, &DescriptorContext{Standard: StandardDVB})
	_, ok := plain.(*GenericDescriptor)
	assert.True(t, ok)

	eacem := newDescriptorVariant(DescriptorTagLogicalChannelNumber, &DescriptorContext{
		Standard:             StandardDVB,
		PrivateDataSpecifier: PrivateDataSpecifierEACEM,
	})
	_, ok = eacem.(*DescriptorLogicalChannelNumber)
	assert.True(t, ok)
}

// TestPrivateDataSpecifierDescriptor_MutatesContextForFollowingDescriptors
// pins the position-sensitive rule: a private_data_specifier descriptor
// updates ctx.PrivateDataSpecifier in place, so whatever is parsed after
// it in the same list sees the new value.
func TestPrivateDataSpecifierDescriptor_MutatesContextForFollowingDescriptors(t *testing.T) {
	pd := &DescriptorPrivateDataSpecifier{Specifier: 0xdeadbeef}

	w := NewBitWriter()
	w.WriteUint8(pd.Tag())
	w.WriteUint8(pd.WireLength())
	pd.toWire(w)
	buf := w.Flush()

	ctx := &DescriptorContext{Standard: StandardDVB}
	r := NewBitReader(buf)
	list, err := parseDescriptorList(r, len(buf), ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint32(0xdeadbeef), ctx.PrivateDataSpecifier)
}
