package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericShortTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	gt := &GenericShortTable{ID: 0x75, Private: true, Payload: []byte{1, 2, 3, 4}}

	bt, err := gt.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x75), bt.TableID())

	got := &GenericShortTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.Equal(t, gt.ID, got.ID)
	assert.True(t, got.Private)
	assert.Equal(t, gt.Payload, got.Payload)
}

func TestGenericShortTable_XMLRoundTrip(t *testing.T) {
	gt := &GenericShortTable{ID: 0x7e, Payload: []byte{0xaa, 0xbb}}
	e := gt.ToXML(nil)
	assert.Equal(t, "generic_short_table", e.Name)

	got := &GenericShortTable{}
	require.NoError(t, got.FromXML(nil, e))
	assert.Equal(t, gt.ID, got.ID)
	assert.Equal(t, gt.Payload, got.Payload)
}

func TestGenericLongTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	gt := &GenericLongTable{
		ID:               0x76,
		TableIDExtension: 0x1,
		Version:          3,
		Current:          true,
		SectionPayloads:  [][]byte{{1, 2, 3}, {4, 5, 6}},
	}

	bt, err := gt.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, 2, bt.SectionCount())

	got := &GenericLongTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.Equal(t, gt.ID, got.ID)
	assert.Equal(t, gt.Version, got.Version)
	require.Len(t, got.SectionPayloads, 2)
	assert.Equal(t, gt.SectionPayloads[0], got.SectionPayloads[0])
	assert.Equal(t, gt.SectionPayloads[1], got.SectionPayloads[1])
}

func TestGenericLongTable_XMLRoundTrip(t *testing.T) {
	gt := &GenericLongTable{ID: 0x77, TableIDExtension: 0x2, SectionPayloads: [][]byte{{9, 9}}}
	e := gt.ToXML(nil)
	assert.Equal(t, "generic_long_table", e.Name)

	got := &GenericLongTable{}
	require.NoError(t, got.FromXML(nil, e))
	assert.Equal(t, gt.ID, got.ID)
	require.Len(t, got.SectionPayloads, 1)
	assert.Equal(t, gt.SectionPayloads[0], got.SectionPayloads[0])
}
