package section

import (
	"fmt"
	"strings"
)

// Standard identifies which descriptor tag space a Descriptor belongs to.
// The numeric tag spaces of DVB, ATSC and ISDB overlap, so a descriptor's
// true identity is (tag, Standard), not tag alone.
type Standard int

const (
	StandardDVB Standard = iota
	StandardATSC
	StandardISDB
)

// DescriptorContext is the ambient, position-sensitive state a
// DescriptorList is parsed/written against. A private_data_specifier
// descriptor at position K updates PrivateDataSpecifier for every
// descriptor at position K+1.. in the same list; it is threaded through
// by value and mutated in place as the list is walked, never looked up
// from a side map.
type DescriptorContext struct {
	Standard             Standard
	PrivateDataSpecifier uint32
	TableID              uint8
}

// descriptorVariant is implemented by every concrete descriptor payload
// type. Registering one at init() time is the only thing a new
// descriptor needs to do to participate in parsing, serialization and
// the XML bridge.
type descriptorVariant interface {
	Tag() uint8
	WireLength() uint8
	toWire(w *BitWriter)
	fromWire(r *BitReader, endOffset int64, ctx *DescriptorContext) error
	toXML(e *Element, ctx *DescriptorContext)
	fromXML(e *Element, ctx *DescriptorContext) error
}

// Descriptor pairs a tag with its decoded payload. Tag is kept alongside
// Variant rather than derived from it so a round-tripped GenericDescriptor
// preserves the original tag even when its payload could not be
// interpreted.
type Descriptor struct {
	Tag     uint8
	Variant descriptorVariant
}

// DescriptorList is an ordered sequence of descriptors, the atomic unit
// the segmenter moves between sections for every descriptor-loop table.
type DescriptorList []*Descriptor

// GenericDescriptor is the fallback payload for any tag without a
// registered variant: its bytes are preserved verbatim on every
// round trip.
type GenericDescriptor struct {
	DescriptorTag uint8
	Payload       []byte
}

func (d *GenericDescriptor) Tag() uint8      { return d.DescriptorTag }
func (d *GenericDescriptor) WireLength() uint8 { return uint8(len(d.Payload)) }

func (d *GenericDescriptor) toWire(w *BitWriter) { w.WriteBytes(d.Payload) }

func (d *GenericDescriptor) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	n := int(endOffset - r.BytesRead())
	if n < 0 {
		return ErrInvalidLength
	}
	d.Payload = r.ReadBytes(n)
	return r.Err()
}

func (d *GenericDescriptor) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "generic_descriptor"
	e.SetAttr("tag", encodeHexAttr(uint64(d.DescriptorTag)))
	e.Text = encodeHexBlob(d.Payload)
}

func (d *GenericDescriptor) fromXML(e *Element, _ *DescriptorContext) error {
	tag, ok := e.Attr("tag")
	if !ok {
		return fmt.Errorf("section: generic_descriptor missing tag attribute")
	}
	v, err := decodeHexAttr(tag)
	if err != nil {
		return fmt.Errorf("section: generic_descriptor tag: %w", err)
	}
	d.DescriptorTag = uint8(v)

	bs, err := decodeHexBlob(e.Text)
	if err != nil {
		return err
	}
	d.Payload = bs
	return nil
}

// parseDescriptorList reads descriptors until byteLength bytes have been
// consumed from r, exactly mirroring parseDescriptors' "fetch declared
// length, seek to the end regardless of what was actually understood"
// resilience rule.
func parseDescriptorList(r *BitReader, byteLength int, ctx *DescriptorContext) (DescriptorList, error) {
	if byteLength <= 0 {
		return nil, r.Err()
	}

	end := r.BytesRead() + int64(byteLength)

	var list DescriptorList
	for r.BytesRead() < end {
		tag := r.ReadUint8()
		length := r.ReadUint8()
		body := r.ReadBytes(int(length))
		if err := r.Err(); err != nil {
			return nil, err
		}

		// Resilience: the variant reads its own reader over exactly the
		// declared bytes, so r always lands at the declared end no matter
		// what the variant actually consumed. A payload the variant cannot
		// interpret is kept verbatim as a GenericDescriptor.
		variant := newDescriptorVariant(tag, ctx)
		if err := variant.fromWire(NewBitReader(body), int64(length), ctx); err != nil {
			logger.Printf("section: parsing descriptor tag 0x%x failed: %v", tag, err)
			variant = &GenericDescriptor{DescriptorTag: tag, Payload: body}
		}

		list = append(list, &Descriptor{Tag: tag, Variant: variant})
	}

	return list, r.Err()
}

func calcDescriptorListLength(list DescriptorList) uint16 {
	length := uint16(0)
	for _, d := range list {
		length += 2 // tag + length
		length += uint16(d.Variant.WireLength())
	}
	return length
}

func writeDescriptorList(w *BitWriter, list DescriptorList) {
	for _, d := range list {
		w.WriteUint8(d.Tag)
		w.WriteUint8(d.Variant.WireLength())
		d.Variant.toWire(w)
	}
}

// writeDescriptorListWithLength writes the 4-reserved-bit + 12-bit
// descriptor_loop_length header the PMT, NIT/BAT and TOT descriptor loops
// share, followed by the descriptors themselves.
func writeDescriptorListWithLength(w *BitWriter, list DescriptorList) {
	w.WriteBits(0xf, 4)
	w.WriteBits(uint64(calcDescriptorListLength(list)), 12)
	writeDescriptorList(w, list)
}

func readDescriptorListWithLength(r *BitReader, ctx *DescriptorContext) (DescriptorList, error) {
	r.ReadBits(4)
	length := int(r.ReadBits(12))
	return parseDescriptorList(r, length, ctx)
}

func (l DescriptorList) toXML(parent *Element, ctx *DescriptorContext) {
	for _, d := range l {
		el := NewElement("descriptor")
		d.Variant.toXML(el, ctx)
		parent.AddChild(el)
	}
}

func descriptorListFromXML(parent *Element, ctx *DescriptorContext) (DescriptorList, error) {
	var list DescriptorList
	for _, el := range parent.Children {
		name := strings.ToLower(el.Name)
		if name != "descriptor" && !strings.HasSuffix(name, "_descriptor") {
			continue
		}
		d, err := descriptorFromXMLElement(el, ctx)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, nil
}
