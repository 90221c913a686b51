package section

import "fmt"

func init() {
	registerTableXML("bat", func() Table { return &BATTable{} })
}

// BATTable is the Bouquet Association Table, built here as NIT's
// structural twin: BAT and NIT share section syntax in DVB-SI, differing
// only in which identifier (bouquet vs network) keys the table.
type BATTable struct {
	BouquetID          uint16
	Version            uint8
	Current            bool
	Private            bool
	BouquetDescriptors DescriptorList
	TransportStreams   []NITTransport
}

func (t *BATTable) TableID() uint8 { return tableIDBAT }

func (t *BATTable) Deserialize(duck *DuckContext, bt *BinaryTable) error {
	if bt.TableID() != tableIDBAT {
		return ErrWrongTableID
	}
	t.BouquetID = bt.TableIDExtension()
	t.Version = bt.Version()
	t.Current = bt.CurrentNext()

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDBAT}
	bouquetDescriptors, transports, err := parseNetworkLikeSections(bt, ctx)
	if err != nil {
		return err
	}
	t.BouquetDescriptors = bouquetDescriptors
	t.TransportStreams = transports
	return nil
}

func (t *BATTable) Serialize(duck *DuckContext) (*BinaryTable, error) {
	return buildNetworkLikeSections(duck, tableIDBAT, t.BouquetID, t.Version, t.Current, t.Private, t.BouquetDescriptors, t.TransportStreams)
}

func (t *BATTable) ToXML(duck *DuckContext) *Element {
	e := NewElement("bat")
	e.SetAttr("bouquet_id", encodeHexAttr(uint64(t.BouquetID)))
	e.SetAttr("version", fmt.Sprintf("%d", t.Version))
	e.SetAttr("current", fmt.Sprintf("%t", t.Current))

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDBAT}
	t.BouquetDescriptors.toXML(e, ctx)
	transportsToXML(e, t.TransportStreams, ctx)
	return e
}

func (t *BATTable) FromXML(duck *DuckContext, e *Element) error {
	if v, ok := e.Attr("bouquet_id"); ok {
		n, err := decodeHexAttr(v)
		if err != nil {
			return err
		}
		t.BouquetID = uint16(n)
	}
	if v, ok := e.Attr("version"); ok {
		fmt.Sscanf(v, "%d", &t.Version)
	}
	if v, ok := e.Attr("current"); ok {
		t.Current = v == "true"
	}

	ctx := &DescriptorContext{Standard: duck.descriptorStandard(), TableID: tableIDBAT}
	list, err := descriptorListFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.BouquetDescriptors = list

	transports, err := transportsFromXML(e, ctx)
	if err != nil {
		return err
	}
	t.TransportStreams = transports
	return nil
}
