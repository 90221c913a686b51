package section

import "fmt"

// Text-bearing descriptors carry raw bytes rather than decoded strings:
// DVB text fields are conditionally prefixed with a character-set control
// byte that selects among several encodings (ISO 8859 variants, UTF-8,
// etc). Decoding that byte is left for a caller that needs display text;
// this core leaves the bytes as-is.

func init() {
	registerDescriptor(DescriptorTagNetworkName, StandardDVB, "network_name_descriptor", func() descriptorVariant {
		return &DescriptorNetworkName{}
	})
	registerDescriptor(DescriptorTagService, StandardDVB, "service_descriptor", func() descriptorVariant {
		return &DescriptorService{}
	})
	registerDescriptor(DescriptorTagShortEvent, StandardDVB, "short_event_descriptor", func() descriptorVariant {
		return &DescriptorShortEvent{}
	})
	registerDescriptor(DescriptorTagExtendedEvent, StandardDVB, "extended_event_descriptor", func() descriptorVariant {
		return &DescriptorExtendedEvent{}
	})
}

// DescriptorNetworkName carries the name of a network (NIT), raw bytes.
type DescriptorNetworkName struct {
	Name []byte
}

func (d *DescriptorNetworkName) Tag() uint8        { return DescriptorTagNetworkName }
func (d *DescriptorNetworkName) WireLength() uint8 { return uint8(len(d.Name)) }

func (d *DescriptorNetworkName) toWire(w *BitWriter) { w.WriteBytes(d.Name) }

func (d *DescriptorNetworkName) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	d.Name = r.ReadBytes(int(endOffset - r.BytesRead()))
	return r.Err()
}

func (d *DescriptorNetworkName) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "network_name_descriptor"
	e.Text = string(d.Name)
}

func (d *DescriptorNetworkName) fromXML(e *Element, _ *DescriptorContext) error {
	d.Name = []byte(e.Text)
	return nil
}

// DescriptorService carries a service's type, provider name and name.
type DescriptorService struct {
	ServiceType uint8
	Provider    []byte
	Name        []byte
}

func (d *DescriptorService) Tag() uint8 { return DescriptorTagService }
func (d *DescriptorService) WireLength() uint8 {
	return uint8(3 + len(d.Provider) + len(d.Name))
}

func (d *DescriptorService) toWire(w *BitWriter) {
	w.WriteUint8(d.ServiceType)
	w.WriteUint8(uint8(len(d.Provider)))
	w.WriteBytes(d.Provider)
	w.WriteUint8(uint8(len(d.Name)))
	w.WriteBytes(d.Name)
}

func (d *DescriptorService) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	d.ServiceType = r.ReadUint8()
	d.Provider = r.ReadBytes(int(r.ReadUint8()))
	d.Name = r.ReadBytes(int(r.ReadUint8()))
	return r.Err()
}

func (d *DescriptorService) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "service_descriptor"
	e.SetAttr("service_type", encodeHexAttr(uint64(d.ServiceType)))
	provider := e.AddChild(NewElement("service_provider_name"))
	provider.Text = string(d.Provider)
	name := e.AddChild(NewElement("service_name"))
	name.Text = string(d.Name)
}

func (d *DescriptorService) fromXML(e *Element, _ *DescriptorContext) error {
	st, ok := e.Attr("service_type")
	if !ok {
		return fmt.Errorf("section: service_descriptor missing service_type")
	}
	v, err := decodeHexAttr(st)
	if err != nil {
		return err
	}
	d.ServiceType = uint8(v)

	if c := e.Child("service_provider_name"); c != nil {
		d.Provider = []byte(c.Text)
	}
	if c := e.Child("service_name"); c != nil {
		d.Name = []byte(c.Text)
	}
	return nil
}

// DescriptorShortEvent carries a language-tagged event title/summary.
type DescriptorShortEvent struct {
	Language  []byte // 3 bytes.
	EventName []byte
	Text      []byte
}

func (d *DescriptorShortEvent) Tag() uint8 { return DescriptorTagShortEvent }
func (d *DescriptorShortEvent) WireLength() uint8 {
	return uint8(3 + 1 + len(d.EventName) + 1 + len(d.Text))
}

func (d *DescriptorShortEvent) toWire(w *BitWriter) {
	w.WriteBytes(d.Language)
	w.WriteUint8(uint8(len(d.EventName)))
	w.WriteBytes(d.EventName)
	w.WriteUint8(uint8(len(d.Text)))
	w.WriteBytes(d.Text)
}

func (d *DescriptorShortEvent) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	d.Language = r.ReadBytes(3)
	d.EventName = r.ReadBytes(int(r.ReadUint8()))
	d.Text = r.ReadBytes(int(r.ReadUint8()))
	return r.Err()
}

func (d *DescriptorShortEvent) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "short_event_descriptor"
	e.SetAttr("language_code", string(d.Language))
	name := e.AddChild(NewElement("event_name"))
	name.Text = string(d.EventName)
	text := e.AddChild(NewElement("text"))
	text.Text = string(d.Text)
}

func (d *DescriptorShortEvent) fromXML(e *Element, _ *DescriptorContext) error {
	lang, _ := e.Attr("language_code")
	d.Language = []byte(lang)
	if c := e.Child("event_name"); c != nil {
		d.EventName = []byte(c.Text)
	}
	if c := e.Child("text"); c != nil {
		d.Text = []byte(c.Text)
	}
	return nil
}

// DescriptorExtendedEventItem is one description/content pair within an
// extended event descriptor.
type DescriptorExtendedEventItem struct {
	Description []byte
	Content     []byte
}

// DescriptorExtendedEvent carries the multi-part extended description of
// an event, split across Number/LastDescriptorNumber when it overflows a
// single descriptor.
type DescriptorExtendedEvent struct {
	Number               uint8 // 4 bits.
	LastDescriptorNumber uint8 // 4 bits.
	Language             []byte
	Items                []*DescriptorExtendedEventItem
	Text                 []byte
}

func (d *DescriptorExtendedEvent) Tag() uint8 { return DescriptorTagExtendedEvent }

func (d *DescriptorExtendedEvent) itemsLength() int {
	n := 0
	for _, it := range d.Items {
		n += 1 + len(it.Description) + 1 + len(it.Content)
	}
	return n
}

func (d *DescriptorExtendedEvent) WireLength() uint8 {
	return uint8(1 + 3 + 1 + d.itemsLength() + 1 + len(d.Text))
}

func (d *DescriptorExtendedEvent) toWire(w *BitWriter) {
	w.WriteBits(uint64(d.Number), 4)
	w.WriteBits(uint64(d.LastDescriptorNumber), 4)
	w.WriteBytes(d.Language)
	w.WriteUint8(uint8(d.itemsLength()))
	for _, it := range d.Items {
		w.WriteUint8(uint8(len(it.Description)))
		w.WriteBytes(it.Description)
		w.WriteUint8(uint8(len(it.Content)))
		w.WriteBytes(it.Content)
	}
	w.WriteUint8(uint8(len(d.Text)))
	w.WriteBytes(d.Text)
}

func (d *DescriptorExtendedEvent) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	d.Number = uint8(r.ReadBits(4))
	d.LastDescriptorNumber = uint8(r.ReadBits(4))
	d.Language = r.ReadBytes(3)

	itemsLength := int(r.ReadUint8())
	itemsEnd := r.BytesRead() + int64(itemsLength)
	for r.BytesRead() < itemsEnd {
		it := &DescriptorExtendedEventItem{}
		it.Description = r.ReadBytes(int(r.ReadUint8()))
		it.Content = r.ReadBytes(int(r.ReadUint8()))
		d.Items = append(d.Items, it)
	}

	d.Text = r.ReadBytes(int(r.ReadUint8()))
	return r.Err()
}

func (d *DescriptorExtendedEvent) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "extended_event_descriptor"
	e.SetAttr("descriptor_number", fmt.Sprintf("%d", d.Number))
	e.SetAttr("last_descriptor_number", fmt.Sprintf("%d", d.LastDescriptorNumber))
	e.SetAttr("language_code", string(d.Language))

	for _, it := range d.Items {
		item := e.AddChild(NewElement("item"))
		desc := item.AddChild(NewElement("item_description"))
		desc.Text = string(it.Description)
		content := item.AddChild(NewElement("item_content"))
		content.Text = string(it.Content)
	}

	text := e.AddChild(NewElement("text"))
	text.Text = string(d.Text)
}

func (d *DescriptorExtendedEvent) fromXML(e *Element, _ *DescriptorContext) error {
	if v, ok := e.Attr("descriptor_number"); ok {
		fmt.Sscanf(v, "%d", &d.Number)
	}
	if v, ok := e.Attr("last_descriptor_number"); ok {
		fmt.Sscanf(v, "%d", &d.LastDescriptorNumber)
	}
	lang, _ := e.Attr("language_code")
	d.Language = []byte(lang)

	for _, item := range e.ChildrenNamed("item") {
		it := &DescriptorExtendedEventItem{}
		if c := item.Child("item_description"); c != nil {
			it.Description = []byte(c.Text)
		}
		if c := item.Child("item_content"); c != nil {
			it.Content = []byte(c.Text)
		}
		d.Items = append(d.Items, it)
	}

	if c := e.Child("text"); c != nil {
		d.Text = []byte(c.Text)
	}
	return nil
}
