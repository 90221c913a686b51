package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	tot := &TOTTable{
		UTCTime:     time.Date(2017, time.December, 25, 14, 55, 27, 0, time.UTC),
		Descriptors: DescriptorList{tenByteDescriptor(0x58)},
	}

	bt, err := tot.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, tableIDTOT, bt.TableID())
	assert.True(t, bt.IsShortSection())

	got := &TOTTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.True(t, tot.UTCTime.Equal(got.UTCTime))
	assert.Len(t, got.Descriptors, 1)
}

func TestTOTTable_XMLRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	tot := &TOTTable{UTCTime: time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)}

	e := tot.ToXML(duck)
	assert.Equal(t, "tot", e.Name)

	got := &TOTTable{}
	require.NoError(t, got.FromXML(duck, e))
	assert.True(t, tot.UTCTime.Equal(got.UTCTime))
}

func TestTOTTable_WrongTableIDRejected(t *testing.T) {
	duck := NewDuckContext()
	bt := newBinaryTable(tableIDPAT, 0xffff, 0, true, 0)
	bt.AddSection(newDraftSection(tableIDPAT, 0xffff, 0, true, 0, 0))

	tot := &TOTTable{}
	assert.ErrorIs(t, tot.Deserialize(duck, bt), ErrWrongTableID)
}
