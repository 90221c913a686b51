package section

import (
	"fmt"
	"time"
)

func init() {
	registerDescriptor(DescriptorTagStreamIdentifier, StandardDVB, "stream_identifier_descriptor", func() descriptorVariant {
		return &DescriptorStreamIdentifier{}
	})
	registerDescriptor(DescriptorTagMaximumBitrate, StandardDVB, "maximum_bitrate_descriptor", func() descriptorVariant {
		return &DescriptorMaximumBitrate{}
	})
	registerDescriptor(DescriptorTagRegistration, StandardDVB, "registration_descriptor", func() descriptorVariant {
		return &DescriptorRegistration{}
	})
	registerDescriptor(DescriptorTagPrivateDataSpecifier, StandardDVB, "private_data_specifier_descriptor", func() descriptorVariant {
		return &DescriptorPrivateDataSpecifier{}
	})
	registerDescriptor(DescriptorTagISO639LanguageAndAudioType, StandardDVB, "iso_639_language_descriptor", func() descriptorVariant {
		return &DescriptorISO639LanguageAndAudioType{}
	})
	registerDescriptor(DescriptorTagDataStreamAlignment, StandardDVB, "data_stream_alignment_descriptor", func() descriptorVariant {
		return &DescriptorDataStreamAlignment{}
	})
	registerDescriptor(DescriptorTagSubtitling, StandardDVB, "subtitling_descriptor", func() descriptorVariant {
		return &DescriptorSubtitling{}
	})
	registerDescriptor(DescriptorTagTeletext, StandardDVB, "teletext_descriptor", func() descriptorVariant {
		return &DescriptorTeletext{}
	})
	registerDescriptor(DescriptorTagComponent, StandardDVB, "component_descriptor", func() descriptorVariant {
		return &DescriptorComponent{}
	})
	registerDescriptor(DescriptorTagParentalRating, StandardDVB, "parental_rating_descriptor", func() descriptorVariant {
		return &DescriptorParentalRating{}
	})
	registerDescriptor(DescriptorTagLocalTimeOffset, StandardDVB, "local_time_offset_descriptor", func() descriptorVariant {
		return &DescriptorLocalTimeOffset{}
	})
	registerDescriptor(DescriptorTagAC3, StandardDVB, "ac3_descriptor", func() descriptorVariant {
		return &DescriptorAC3{}
	})
	registerDescriptor(DescriptorTagExtension, StandardDVB, "extension_descriptor", func() descriptorVariant {
		return &DescriptorExtension{}
	})
	registerPrivateDescriptor(DescriptorTagLogicalChannelNumber, StandardDVB, PrivateDataSpecifierEACEM, "logical_channel_number_descriptor", func() descriptorVariant {
		return &DescriptorLogicalChannelNumber{}
	})
}

// DescriptorStreamIdentifier tags an elementary stream with a
// component_tag referenced from component descriptors elsewhere.
type DescriptorStreamIdentifier struct {
	ComponentTag uint8
}

func (d *DescriptorStreamIdentifier) Tag() uint8        { return DescriptorTagStreamIdentifier }
func (d *DescriptorStreamIdentifier) WireLength() uint8 { return 1 }
func (d *DescriptorStreamIdentifier) toWire(w *BitWriter) { w.WriteUint8(d.ComponentTag) }
func (d *DescriptorStreamIdentifier) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	d.ComponentTag = r.ReadUint8()
	return r.Err()
}
func (d *DescriptorStreamIdentifier) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "stream_identifier_descriptor"
	e.SetAttr("component_tag", encodeHexAttr(uint64(d.ComponentTag)))
}
func (d *DescriptorStreamIdentifier) fromXML(e *Element, _ *DescriptorContext) error {
	v, ok := e.Attr("component_tag")
	if !ok {
		return fmt.Errorf("section: stream_identifier_descriptor missing component_tag")
	}
	n, err := decodeHexAttr(v)
	if err != nil {
		return err
	}
	d.ComponentTag = uint8(n)
	return nil
}

// DescriptorMaximumBitrate bounds a stream or program's bitrate, in units
// of 50 bytes/second, 22 bits wide.
type DescriptorMaximumBitrate struct {
	Bitrate uint32
}

func (d *DescriptorMaximumBitrate) Tag() uint8        { return DescriptorTagMaximumBitrate }
func (d *DescriptorMaximumBitrate) WireLength() uint8 { return 3 }
func (d *DescriptorMaximumBitrate) toWire(w *BitWriter) {
	w.WriteBits(0x3, 2)
	w.WriteBits(uint64(d.Bitrate), 22)
}
func (d *DescriptorMaximumBitrate) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	r.ReadBits(2)
	d.Bitrate = uint32(r.ReadBits(22))
	return r.Err()
}
func (d *DescriptorMaximumBitrate) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "maximum_bitrate_descriptor"
	e.SetAttr("maximum_bitrate", fmt.Sprintf("%d", d.Bitrate))
}
func (d *DescriptorMaximumBitrate) fromXML(e *Element, _ *DescriptorContext) error {
	_, err := fmt.Sscanf(mustAttr(e, "maximum_bitrate"), "%d", &d.Bitrate)
	return err
}

// DescriptorRegistration carries a format_identifier registered with the
// SMPTE/ASN.1 registration authority plus opaque additional info.
type DescriptorRegistration struct {
	FormatIdentifier             uint32
	AdditionalIdentificationInfo []byte
}

func (d *DescriptorRegistration) Tag() uint8 { return DescriptorTagRegistration }
func (d *DescriptorRegistration) WireLength() uint8 {
	return uint8(4 + len(d.AdditionalIdentificationInfo))
}
func (d *DescriptorRegistration) toWire(w *BitWriter) {
	w.WriteUint32(d.FormatIdentifier)
	w.WriteBytes(d.AdditionalIdentificationInfo)
}
func (d *DescriptorRegistration) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	d.FormatIdentifier = r.ReadUint32()
	if n := int(endOffset - r.BytesRead()); n > 0 {
		d.AdditionalIdentificationInfo = r.ReadBytes(n)
	}
	return r.Err()
}
func (d *DescriptorRegistration) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "registration_descriptor"
	e.SetAttr("format_identifier", encodeHexAttr(uint64(d.FormatIdentifier)))
	e.Text = encodeHexBlob(d.AdditionalIdentificationInfo)
}
func (d *DescriptorRegistration) fromXML(e *Element, _ *DescriptorContext) error {
	v, err := decodeHexAttr(mustAttr(e, "format_identifier"))
	if err != nil {
		return err
	}
	d.FormatIdentifier = uint32(v)
	bs, err := decodeHexBlob(e.Text)
	if err != nil {
		return err
	}
	d.AdditionalIdentificationInfo = bs
	return nil
}

// DescriptorPrivateDataSpecifier sets the DescriptorContext's
// PrivateDataSpecifier for every descriptor following it in the same
// list.
type DescriptorPrivateDataSpecifier struct {
	Specifier uint32
}

func (d *DescriptorPrivateDataSpecifier) Tag() uint8        { return DescriptorTagPrivateDataSpecifier }
func (d *DescriptorPrivateDataSpecifier) WireLength() uint8 { return 4 }
func (d *DescriptorPrivateDataSpecifier) toWire(w *BitWriter) { w.WriteUint32(d.Specifier) }
func (d *DescriptorPrivateDataSpecifier) fromWire(r *BitReader, _ int64, ctx *DescriptorContext) error {
	d.Specifier = r.ReadUint32()
	ctx.PrivateDataSpecifier = d.Specifier
	return r.Err()
}
func (d *DescriptorPrivateDataSpecifier) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "private_data_specifier_descriptor"
	e.SetAttr("private_data_specifier", encodeHexAttr(uint64(d.Specifier)))
}
func (d *DescriptorPrivateDataSpecifier) fromXML(e *Element, ctx *DescriptorContext) error {
	v, err := decodeHexAttr(mustAttr(e, "private_data_specifier"))
	if err != nil {
		return err
	}
	d.Specifier = uint32(v)
	ctx.PrivateDataSpecifier = d.Specifier
	return nil
}

// DescriptorISO639LanguageAndAudioType carries a (possibly truncated)
// language code plus an audio type byte; some real-world streams write a
// 2-byte language with the descriptor length still claiming 3 bytes total.
type DescriptorISO639LanguageAndAudioType struct {
	Language []byte
	AudioType uint8
}

func (d *DescriptorISO639LanguageAndAudioType) Tag() uint8 {
	return DescriptorTagISO639LanguageAndAudioType
}
func (d *DescriptorISO639LanguageAndAudioType) WireLength() uint8 {
	return uint8(len(d.Language) + 1)
}
func (d *DescriptorISO639LanguageAndAudioType) toWire(w *BitWriter) {
	w.WriteBytes(d.Language)
	w.WriteUint8(d.AudioType)
}
func (d *DescriptorISO639LanguageAndAudioType) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	n := int(endOffset-r.BytesRead()) - 1
	if n < 0 {
		return ErrInvalidLength
	}
	d.Language = r.ReadBytes(n)
	d.AudioType = r.ReadUint8()
	return r.Err()
}
func (d *DescriptorISO639LanguageAndAudioType) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "iso_639_language_descriptor"
	e.SetAttr("language_code", string(d.Language))
	e.SetAttr("audio_type", encodeHexAttr(uint64(d.AudioType)))
}
func (d *DescriptorISO639LanguageAndAudioType) fromXML(e *Element, _ *DescriptorContext) error {
	lang, _ := e.Attr("language_code")
	d.Language = []byte(lang)
	v, err := decodeHexAttr(mustAttr(e, "audio_type"))
	if err != nil {
		return err
	}
	d.AudioType = uint8(v)
	return nil
}

// DescriptorDataStreamAlignment names the access-unit alignment points
// in the elementary stream.
type DescriptorDataStreamAlignment struct {
	AlignmentType uint8
}

func (d *DescriptorDataStreamAlignment) Tag() uint8        { return DescriptorTagDataStreamAlignment }
func (d *DescriptorDataStreamAlignment) WireLength() uint8 { return 1 }
func (d *DescriptorDataStreamAlignment) toWire(w *BitWriter) { w.WriteUint8(d.AlignmentType) }
func (d *DescriptorDataStreamAlignment) fromWire(r *BitReader, _ int64, _ *DescriptorContext) error {
	d.AlignmentType = r.ReadUint8()
	return r.Err()
}
func (d *DescriptorDataStreamAlignment) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "data_stream_alignment_descriptor"
	e.SetAttr("alignment_type", encodeHexAttr(uint64(d.AlignmentType)))
}
func (d *DescriptorDataStreamAlignment) fromXML(e *Element, _ *DescriptorContext) error {
	v, err := decodeHexAttr(mustAttr(e, "alignment_type"))
	if err != nil {
		return err
	}
	d.AlignmentType = uint8(v)
	return nil
}

// DescriptorSubtitlingItem is one subtitle stream's language/page ids.
type DescriptorSubtitlingItem struct {
	Language          []byte
	SubtitlingType    uint8
	CompositionPageID uint16
	AncillaryPageID   uint16
}

// DescriptorSubtitling lists the subtitle streams carried alongside a
// service.
type DescriptorSubtitling struct {
	Items []*DescriptorSubtitlingItem
}

func (d *DescriptorSubtitling) Tag() uint8        { return DescriptorTagSubtitling }
func (d *DescriptorSubtitling) WireLength() uint8 { return uint8(8 * len(d.Items)) }
func (d *DescriptorSubtitling) toWire(w *BitWriter) {
	for _, it := range d.Items {
		w.WriteBytes(it.Language)
		w.WriteUint8(it.SubtitlingType)
		w.WriteUint16(it.CompositionPageID)
		w.WriteUint16(it.AncillaryPageID)
	}
}
func (d *DescriptorSubtitling) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	for r.BytesRead() < endOffset {
		it := &DescriptorSubtitlingItem{}
		it.Language = r.ReadBytes(3)
		it.SubtitlingType = r.ReadUint8()
		it.CompositionPageID = r.ReadUint16()
		it.AncillaryPageID = r.ReadUint16()
		d.Items = append(d.Items, it)
	}
	return r.Err()
}
func (d *DescriptorSubtitling) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "subtitling_descriptor"
	for _, it := range d.Items {
		item := e.AddChild(NewElement("subtitling"))
		item.SetAttr("language_code", string(it.Language))
		item.SetAttr("subtitling_type", encodeHexAttr(uint64(it.SubtitlingType)))
		item.SetAttr("composition_page_id", fmt.Sprintf("%d", it.CompositionPageID))
		item.SetAttr("ancillary_page_id", fmt.Sprintf("%d", it.AncillaryPageID))
	}
}
func (d *DescriptorSubtitling) fromXML(e *Element, _ *DescriptorContext) error {
	for _, item := range e.ChildrenNamed("subtitling") {
		it := &DescriptorSubtitlingItem{}
		lang, _ := item.Attr("language_code")
		it.Language = []byte(lang)
		v, err := decodeHexAttr(mustAttr(item, "subtitling_type"))
		if err != nil {
			return err
		}
		it.SubtitlingType = uint8(v)
		fmt.Sscanf(mustAttr(item, "composition_page_id"), "%d", &it.CompositionPageID)
		fmt.Sscanf(mustAttr(item, "ancillary_page_id"), "%d", &it.AncillaryPageID)
		d.Items = append(d.Items, it)
	}
	return nil
}

// DescriptorTeletextItem is one teletext page's language/magazine/page.
type DescriptorTeletextItem struct {
	Language []byte
	Type     uint8 // 5 bits.
	Magazine uint8 // 3 bits.
	Page     uint8
}

// DescriptorTeletext lists teletext pages carried alongside a service.
type DescriptorTeletext struct {
	Items []*DescriptorTeletextItem
}

func (d *DescriptorTeletext) Tag() uint8        { return DescriptorTagTeletext }
func (d *DescriptorTeletext) WireLength() uint8 { return uint8(5 * len(d.Items)) }
func (d *DescriptorTeletext) toWire(w *BitWriter) {
	for _, it := range d.Items {
		w.WriteBytes(it.Language)
		w.WriteBits(uint64(it.Type), 5)
		w.WriteBits(uint64(it.Magazine), 3)
		w.WriteBCD(int(it.Page), 2)
	}
}
func (d *DescriptorTeletext) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	for r.BytesRead() < endOffset {
		it := &DescriptorTeletextItem{}
		it.Language = r.ReadBytes(3)
		it.Type = uint8(r.ReadBits(5))
		it.Magazine = uint8(r.ReadBits(3))
		it.Page = uint8(r.ReadBCD(2))
		d.Items = append(d.Items, it)
	}
	return r.Err()
}
func (d *DescriptorTeletext) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "teletext_descriptor"
	for _, it := range d.Items {
		item := e.AddChild(NewElement("teletext"))
		item.SetAttr("language_code", string(it.Language))
		item.SetAttr("teletext_type", encodeHexAttr(uint64(it.Type)))
		item.SetAttr("teletext_magazine_number", fmt.Sprintf("%d", it.Magazine))
		item.SetAttr("teletext_page_number", fmt.Sprintf("%d", it.Page))
	}
}
func (d *DescriptorTeletext) fromXML(e *Element, _ *DescriptorContext) error {
	for _, item := range e.ChildrenNamed("teletext") {
		it := &DescriptorTeletextItem{}
		lang, _ := item.Attr("language_code")
		it.Language = []byte(lang)
		v, err := decodeHexAttr(mustAttr(item, "teletext_type"))
		if err != nil {
			return err
		}
		it.Type = uint8(v)
		fmt.Sscanf(mustAttr(item, "teletext_magazine_number"), "%d", &it.Magazine)
		fmt.Sscanf(mustAttr(item, "teletext_page_number"), "%d", &it.Page)
		d.Items = append(d.Items, it)
	}
	return nil
}

// DescriptorComponent names one elementary stream's content kind for
// display purposes.
type DescriptorComponent struct {
	StreamContentExt uint8 // 4 bits.
	StreamContent    uint8 // 4 bits.
	ComponentType    uint8
	ComponentTag     uint8
	Language         []byte // 3 bytes.
	Text             []byte
}

func (d *DescriptorComponent) Tag() uint8        { return DescriptorTagComponent }
func (d *DescriptorComponent) WireLength() uint8 { return uint8(6 + len(d.Text)) }
func (d *DescriptorComponent) toWire(w *BitWriter) {
	w.WriteBits(uint64(d.StreamContentExt), 4)
	w.WriteBits(uint64(d.StreamContent), 4)
	w.WriteUint8(d.ComponentType)
	w.WriteUint8(d.ComponentTag)
	w.WriteBytes(d.Language)
	w.WriteBytes(d.Text)
}
func (d *DescriptorComponent) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	d.StreamContentExt = uint8(r.ReadBits(4))
	d.StreamContent = uint8(r.ReadBits(4))
	d.ComponentType = r.ReadUint8()
	d.ComponentTag = r.ReadUint8()
	d.Language = r.ReadBytes(3)
	if n := int(endOffset - r.BytesRead()); n > 0 {
		d.Text = r.ReadBytes(n)
	}
	return r.Err()
}
func (d *DescriptorComponent) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "component_descriptor"
	e.SetAttr("stream_content_ext", encodeHexAttr(uint64(d.StreamContentExt)))
	e.SetAttr("stream_content", encodeHexAttr(uint64(d.StreamContent)))
	e.SetAttr("component_type", encodeHexAttr(uint64(d.ComponentType)))
	e.SetAttr("component_tag", encodeHexAttr(uint64(d.ComponentTag)))
	e.SetAttr("language_code", string(d.Language))
	e.Text = string(d.Text)
}
func (d *DescriptorComponent) fromXML(e *Element, _ *DescriptorContext) error {
	var err error
	if d.StreamContentExt, err = hexAttrUint8(e, "stream_content_ext"); err != nil {
		return err
	}
	if d.StreamContent, err = hexAttrUint8(e, "stream_content"); err != nil {
		return err
	}
	if d.ComponentType, err = hexAttrUint8(e, "component_type"); err != nil {
		return err
	}
	if d.ComponentTag, err = hexAttrUint8(e, "component_tag"); err != nil {
		return err
	}
	lang, _ := e.Attr("language_code")
	d.Language = []byte(lang)
	d.Text = []byte(e.Text)
	return nil
}

// DescriptorParentalRatingItem is one country's minimum-age rating.
type DescriptorParentalRatingItem struct {
	CountryCode []byte
	Rating      uint8
}

// MinimumAge returns the minimum viewing age, or 0 if undefined/user
// defined.
func (d DescriptorParentalRatingItem) MinimumAge() int {
	if d.Rating == 0 || d.Rating > 0x10 {
		return 0
	}
	return int(d.Rating) + 3
}

// DescriptorParentalRating lists per-country minimum-age ratings.
type DescriptorParentalRating struct {
	Items []*DescriptorParentalRatingItem
}

func (d *DescriptorParentalRating) Tag() uint8        { return DescriptorTagParentalRating }
func (d *DescriptorParentalRating) WireLength() uint8 { return uint8(4 * len(d.Items)) }
func (d *DescriptorParentalRating) toWire(w *BitWriter) {
	for _, it := range d.Items {
		w.WriteBytes(it.CountryCode)
		w.WriteUint8(it.Rating)
	}
}
func (d *DescriptorParentalRating) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	for r.BytesRead() < endOffset {
		it := &DescriptorParentalRatingItem{CountryCode: r.ReadBytes(3), Rating: r.ReadUint8()}
		d.Items = append(d.Items, it)
	}
	return r.Err()
}
func (d *DescriptorParentalRating) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "parental_rating_descriptor"
	for _, it := range d.Items {
		item := e.AddChild(NewElement("parental_rating"))
		item.SetAttr("country_code", string(it.CountryCode))
		item.SetAttr("rating", fmt.Sprintf("%d", it.Rating))
	}
}
func (d *DescriptorParentalRating) fromXML(e *Element, _ *DescriptorContext) error {
	for _, item := range e.ChildrenNamed("parental_rating") {
		it := &DescriptorParentalRatingItem{}
		cc, _ := item.Attr("country_code")
		it.CountryCode = []byte(cc)
		fmt.Sscanf(mustAttr(item, "rating"), "%d", &it.Rating)
		d.Items = append(d.Items, it)
	}
	return nil
}

// DescriptorLocalTimeOffsetItem is one country/region's current and next
// offset from UTC.
type DescriptorLocalTimeOffsetItem struct {
	CountryCode             []byte
	CountryRegionID         uint8 // 6 bits.
	LocalTimeOffsetPolarity bool
	LocalTimeOffset         time.Duration
	TimeOfChange            time.Time
	NextTimeOffset          time.Duration
}

// DescriptorLocalTimeOffset lists local-time offsets per region.
type DescriptorLocalTimeOffset struct {
	Items []*DescriptorLocalTimeOffsetItem
}

func (d *DescriptorLocalTimeOffset) Tag() uint8        { return DescriptorTagLocalTimeOffset }
func (d *DescriptorLocalTimeOffset) WireLength() uint8 { return uint8(13 * len(d.Items)) }
func (d *DescriptorLocalTimeOffset) toWire(w *BitWriter) {
	for _, it := range d.Items {
		w.WriteBytes(it.CountryCode)
		w.WriteBits(uint64(it.CountryRegionID), 6)
		w.WriteBits(0x1, 1)
		w.WriteBool(it.LocalTimeOffsetPolarity)
		writeDVBDurationMinutes(w, it.LocalTimeOffset)
		writeDVBTime(w, it.TimeOfChange)
		writeDVBDurationMinutes(w, it.NextTimeOffset)
	}
}
func (d *DescriptorLocalTimeOffset) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	for r.BytesRead() < endOffset {
		it := &DescriptorLocalTimeOffsetItem{}
		it.CountryCode = r.ReadBytes(3)
		it.CountryRegionID = uint8(r.ReadBits(6))
		r.ReadBits(1)
		it.LocalTimeOffsetPolarity = r.ReadBool()
		it.LocalTimeOffset = readDVBDurationMinutes(r)
		it.TimeOfChange = readDVBTime(r)
		it.NextTimeOffset = readDVBDurationMinutes(r)
		d.Items = append(d.Items, it)
	}
	return r.Err()
}
func (d *DescriptorLocalTimeOffset) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "local_time_offset_descriptor"
	for _, it := range d.Items {
		item := e.AddChild(NewElement("local_time_offset"))
		item.SetAttr("country_code", string(it.CountryCode))
		item.SetAttr("country_region_id", fmt.Sprintf("%d", it.CountryRegionID))
		item.SetAttr("local_time_offset_polarity", fmt.Sprintf("%v", it.LocalTimeOffsetPolarity))
		item.SetAttr("local_time_offset", it.LocalTimeOffset.String())
		item.SetAttr("time_of_change", it.TimeOfChange.Format(time.RFC3339))
		item.SetAttr("next_time_offset", it.NextTimeOffset.String())
	}
}
func (d *DescriptorLocalTimeOffset) fromXML(e *Element, _ *DescriptorContext) error {
	for _, item := range e.ChildrenNamed("local_time_offset") {
		it := &DescriptorLocalTimeOffsetItem{}
		cc, _ := item.Attr("country_code")
		it.CountryCode = []byte(cc)
		fmt.Sscanf(mustAttr(item, "country_region_id"), "%d", &it.CountryRegionID)
		it.LocalTimeOffsetPolarity = mustAttr(item, "local_time_offset_polarity") == "true"

		var err error
		if it.LocalTimeOffset, err = time.ParseDuration(mustAttr(item, "local_time_offset")); err != nil {
			return err
		}
		if it.TimeOfChange, err = time.Parse(time.RFC3339, mustAttr(item, "time_of_change")); err != nil {
			return err
		}
		if it.NextTimeOffset, err = time.ParseDuration(mustAttr(item, "next_time_offset")); err != nil {
			return err
		}
		d.Items = append(d.Items, it)
	}
	return nil
}

// DescriptorAC3 carries the optional fields of an AC-3 audio stream.
type DescriptorAC3 struct {
	HasComponentType bool
	HasBSID          bool
	HasMainID        bool
	HasASVC          bool
	ComponentType    uint8
	BSID             uint8
	MainID           uint8
	ASVC             uint8
	AdditionalInfo   []byte
}

func (d *DescriptorAC3) Tag() uint8 { return DescriptorTagAC3 }
func (d *DescriptorAC3) WireLength() uint8 {
	n := 1
	if d.HasComponentType {
		n++
	}
	if d.HasBSID {
		n++
	}
	if d.HasMainID {
		n++
	}
	if d.HasASVC {
		n++
	}
	return uint8(n + len(d.AdditionalInfo))
}
func (d *DescriptorAC3) toWire(w *BitWriter) {
	w.WriteBool(d.HasComponentType)
	w.WriteBool(d.HasBSID)
	w.WriteBool(d.HasMainID)
	w.WriteBool(d.HasASVC)
	w.WriteBits(0xf, 4)
	if d.HasComponentType {
		w.WriteUint8(d.ComponentType)
	}
	if d.HasBSID {
		w.WriteUint8(d.BSID)
	}
	if d.HasMainID {
		w.WriteUint8(d.MainID)
	}
	if d.HasASVC {
		w.WriteUint8(d.ASVC)
	}
	w.WriteBytes(d.AdditionalInfo)
}
func (d *DescriptorAC3) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	d.HasComponentType = r.ReadBool()
	d.HasBSID = r.ReadBool()
	d.HasMainID = r.ReadBool()
	d.HasASVC = r.ReadBool()
	r.ReadBits(4)

	if d.HasComponentType {
		d.ComponentType = r.ReadUint8()
	}
	if d.HasBSID {
		d.BSID = r.ReadUint8()
	}
	if d.HasMainID {
		d.MainID = r.ReadUint8()
	}
	if d.HasASVC {
		d.ASVC = r.ReadUint8()
	}
	if n := int(endOffset - r.BytesRead()); n > 0 {
		d.AdditionalInfo = r.ReadBytes(n)
	}
	return r.Err()
}
func (d *DescriptorAC3) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "ac3_descriptor"
	if d.HasComponentType {
		e.SetAttr("component_type", encodeHexAttr(uint64(d.ComponentType)))
	}
	if d.HasBSID {
		e.SetAttr("bsid", encodeHexAttr(uint64(d.BSID)))
	}
	if d.HasMainID {
		e.SetAttr("main_id", encodeHexAttr(uint64(d.MainID)))
	}
	if d.HasASVC {
		e.SetAttr("asvc", encodeHexAttr(uint64(d.ASVC)))
	}
	e.Text = encodeHexBlob(d.AdditionalInfo)
}
func (d *DescriptorAC3) fromXML(e *Element, _ *DescriptorContext) error {
	if v, ok := e.Attr("component_type"); ok {
		d.HasComponentType = true
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		d.ComponentType = uint8(n)
	}
	if v, ok := e.Attr("bsid"); ok {
		d.HasBSID = true
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		d.BSID = uint8(n)
	}
	if v, ok := e.Attr("main_id"); ok {
		d.HasMainID = true
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		d.MainID = uint8(n)
	}
	if v, ok := e.Attr("asvc"); ok {
		d.HasASVC = true
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		d.ASVC = uint8(n)
	}
	bs, err := decodeHexBlob(e.Text)
	if err != nil {
		return err
	}
	d.AdditionalInfo = bs
	return nil
}

// DescriptorExtensionSupplementaryAudio is the one extended-tag variant
// handled here, reached through DescriptorExtension below.
type DescriptorExtensionSupplementaryAudio struct {
	MixType                 bool
	EditorialClassification uint8 // 5 bits.
	HasLanguageCode         bool
	LanguageCode            []byte
	PrivateData             []byte
}

// DescriptorExtension dispatches on an extended tag byte within the
// DescriptorTagExtension (0x7F) tag space.
type DescriptorExtension struct {
	ExtensionTag       uint8
	SupplementaryAudio *DescriptorExtensionSupplementaryAudio
	Unknown            []byte
}

func (d *DescriptorExtension) Tag() uint8 { return DescriptorTagExtension }
func (d *DescriptorExtension) WireLength() uint8 {
	n := 1
	switch d.ExtensionTag {
	case DescriptorTagExtensionSupplementaryAudio:
		n += 1
		if d.SupplementaryAudio.HasLanguageCode {
			n += 3
		}
		n += len(d.SupplementaryAudio.PrivateData)
	default:
		n += len(d.Unknown)
	}
	return uint8(n)
}
func (d *DescriptorExtension) toWire(w *BitWriter) {
	w.WriteUint8(d.ExtensionTag)
	switch d.ExtensionTag {
	case DescriptorTagExtensionSupplementaryAudio:
		sa := d.SupplementaryAudio
		w.WriteBool(sa.MixType)
		w.WriteBits(uint64(sa.EditorialClassification), 5)
		w.WriteBool(true)
		w.WriteBool(sa.HasLanguageCode)
		if sa.HasLanguageCode {
			w.WriteBytes(sa.LanguageCode)
		}
		w.WriteBytes(sa.PrivateData)
	default:
		w.WriteBytes(d.Unknown)
	}
}
func (d *DescriptorExtension) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	d.ExtensionTag = r.ReadUint8()
	switch d.ExtensionTag {
	case DescriptorTagExtensionSupplementaryAudio:
		sa := &DescriptorExtensionSupplementaryAudio{}
		sa.MixType = r.ReadBool()
		sa.EditorialClassification = uint8(r.ReadBits(5))
		r.ReadBool()
		sa.HasLanguageCode = r.ReadBool()
		if sa.HasLanguageCode {
			sa.LanguageCode = r.ReadBytes(3)
		}
		if n := int(endOffset - r.BytesRead()); n > 0 {
			sa.PrivateData = r.ReadBytes(n)
		}
		d.SupplementaryAudio = sa
	default:
		if n := int(endOffset - r.BytesRead()); n > 0 {
			d.Unknown = r.ReadBytes(n)
		}
	}
	return r.Err()
}
func (d *DescriptorExtension) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "extension_descriptor"
	e.SetAttr("extension_tag", encodeHexAttr(uint64(d.ExtensionTag)))
	switch d.ExtensionTag {
	case DescriptorTagExtensionSupplementaryAudio:
		sa := d.SupplementaryAudio
		child := e.AddChild(NewElement("supplementary_audio"))
		child.SetAttr("mix_type", fmt.Sprintf("%v", sa.MixType))
		child.SetAttr("editorial_classification", encodeHexAttr(uint64(sa.EditorialClassification)))
		if sa.HasLanguageCode {
			child.SetAttr("language_code", string(sa.LanguageCode))
		}
		child.Text = encodeHexBlob(sa.PrivateData)
	default:
		e.Text = encodeHexBlob(d.Unknown)
	}
}
func (d *DescriptorExtension) fromXML(e *Element, _ *DescriptorContext) error {
	v, err := decodeHexAttr(mustAttr(e, "extension_tag"))
	if err != nil {
		return err
	}
	d.ExtensionTag = uint8(v)

	switch d.ExtensionTag {
	case DescriptorTagExtensionSupplementaryAudio:
		child := e.Child("supplementary_audio")
		if child == nil {
			return fmt.Errorf("section: extension_descriptor missing supplementary_audio")
		}
		sa := &DescriptorExtensionSupplementaryAudio{}
		sa.MixType = mustAttr(child, "mix_type") == "true"
		ec, err := decodeHexAttr(mustAttr(child, "editorial_classification"))
		if err != nil {
			return err
		}
		sa.EditorialClassification = uint8(ec)
		if lang, ok := child.Attr("language_code"); ok {
			sa.HasLanguageCode = true
			sa.LanguageCode = []byte(lang)
		}
		bs, err := decodeHexBlob(child.Text)
		if err != nil {
			return err
		}
		sa.PrivateData = bs
		d.SupplementaryAudio = sa
	default:
		bs, err := decodeHexBlob(e.Text)
		if err != nil {
			return err
		}
		d.Unknown = bs
	}
	return nil
}

// DescriptorLogicalChannelNumberItem maps one service to its channel
// number in an EPG/channel list.
type DescriptorLogicalChannelNumberItem struct {
	ServiceID            uint16
	VisibleServiceFlag   bool
	LogicalChannelNumber uint16 // 10 bits.
}

// DescriptorLogicalChannelNumber is EACEM's private_data_specifier-scoped
// reuse of the DVB user-private tag range: it only applies once a
// preceding private_data_specifier_descriptor has set
// PrivateDataSpecifierEACEM for the rest of the list.
type DescriptorLogicalChannelNumber struct {
	Items []*DescriptorLogicalChannelNumberItem
}

func (d *DescriptorLogicalChannelNumber) Tag() uint8        { return DescriptorTagLogicalChannelNumber }
func (d *DescriptorLogicalChannelNumber) WireLength() uint8 { return uint8(4 * len(d.Items)) }
func (d *DescriptorLogicalChannelNumber) toWire(w *BitWriter) {
	for _, it := range d.Items {
		w.WriteUint16(it.ServiceID)
		w.WriteBool(it.VisibleServiceFlag)
		w.WriteBits(0x1f, 5)
		w.WriteBits(uint64(it.LogicalChannelNumber), 10)
	}
}
func (d *DescriptorLogicalChannelNumber) fromWire(r *BitReader, endOffset int64, _ *DescriptorContext) error {
	for r.BytesRead() < endOffset {
		it := &DescriptorLogicalChannelNumberItem{}
		it.ServiceID = r.ReadUint16()
		it.VisibleServiceFlag = r.ReadBool()
		r.ReadBits(5)
		it.LogicalChannelNumber = uint16(r.ReadBits(10))
		d.Items = append(d.Items, it)
	}
	return r.Err()
}
func (d *DescriptorLogicalChannelNumber) toXML(e *Element, _ *DescriptorContext) {
	e.Name = "logical_channel_number_descriptor"
	for _, it := range d.Items {
		item := e.AddChild(NewElement("logical_channel"))
		item.SetAttr("service_id", fmt.Sprintf("%d", it.ServiceID))
		item.SetAttr("visible_service_flag", fmt.Sprintf("%v", it.VisibleServiceFlag))
		item.SetAttr("logical_channel_number", fmt.Sprintf("%d", it.LogicalChannelNumber))
	}
}
func (d *DescriptorLogicalChannelNumber) fromXML(e *Element, _ *DescriptorContext) error {
	for _, item := range e.ChildrenNamed("logical_channel") {
		it := &DescriptorLogicalChannelNumberItem{}
		fmt.Sscanf(mustAttr(item, "service_id"), "%d", &it.ServiceID)
		it.VisibleServiceFlag = mustAttr(item, "visible_service_flag") == "true"
		fmt.Sscanf(mustAttr(item, "logical_channel_number"), "%d", &it.LogicalChannelNumber)
		d.Items = append(d.Items, it)
	}
	return nil
}

func mustAttr(e *Element, key string) string {
	v, _ := e.Attr(key)
	return v
}

func hexAttrUint8(e *Element, key string) (uint8, error) {
	v, err := decodeHexAttr(mustAttr(e, key))
	return uint8(v), err
}
