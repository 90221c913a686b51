package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTDTTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	tdt := &TDTTable{UTCTime: time.Date(2017, time.December, 25, 14, 55, 27, 0, time.UTC)}

	bt, err := tdt.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, tableIDTDT, bt.TableID())
	assert.True(t, bt.IsShortSection())

	got := &TDTTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.True(t, tdt.UTCTime.Equal(got.UTCTime))
}

func TestTDTTable_XMLRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	tdt := &TDTTable{UTCTime: time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)}

	e := tdt.ToXML(duck)
	assert.Equal(t, "tdt", e.Name)

	got := &TDTTable{}
	require.NoError(t, got.FromXML(duck, e))
	assert.True(t, tdt.UTCTime.Equal(got.UTCTime))
}

func TestTDTTable_WrongTableIDRejected(t *testing.T) {
	duck := NewDuckContext()
	bt := newBinaryTable(tableIDPAT, 0xffff, 0, true, 0)
	bt.AddSection(newDraftSection(tableIDPAT, 0xffff, 0, true, 0, 0))

	tdt := &TDTTable{}
	assert.ErrorIs(t, tdt.Deserialize(duck, bt), ErrWrongTableID)
}
