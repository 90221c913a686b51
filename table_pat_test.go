package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPATTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	pat := &PATTable{
		TransportStreamID: 1,
		Version:           3,
		Current:           true,
		Programs:          map[uint16]uint16{1: 0x100, 2: 0x200},
		NITPID:            0x10,
	}

	bt, err := pat.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, tableIDPAT, bt.TableID())
	assert.True(t, bt.IsComplete())

	got := &PATTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.Equal(t, pat.TransportStreamID, got.TransportStreamID)
	assert.Equal(t, pat.Version, got.Version)
	assert.Equal(t, pat.Current, got.Current)
	assert.Equal(t, pat.Programs, got.Programs)
	assert.Equal(t, pat.NITPID, got.NITPID)
}

func TestPATTable_SegmentsAcrossMultipleSections(t *testing.T) {
	duck := NewDuckContext()
	pat := &PATTable{TransportStreamID: 7, Version: 0, Current: true, Programs: map[uint16]uint16{}}
	for i := uint16(1); i <= 305; i++ {
		pat.Programs[i] = 0x100 + i
	}

	bt, err := pat.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, 2, bt.SectionCount())

	got := &PATTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.Equal(t, pat.Programs, got.Programs)
}

func TestPATTable_XMLRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	pat := &PATTable{
		TransportStreamID: 9,
		Version:           1,
		Current:           true,
		Programs:          map[uint16]uint16{1: 0x101},
		NITPID:            0x11,
	}

	e := pat.ToXML(duck)
	assert.Equal(t, "pat", e.Name)

	got := &PATTable{}
	require.NoError(t, got.FromXML(duck, e))
	assert.Equal(t, pat.TransportStreamID, got.TransportStreamID)
	assert.Equal(t, pat.Programs, got.Programs)
	assert.Equal(t, pat.NITPID, got.NITPID)
}

func TestPATTable_WrongTableIDRejected(t *testing.T) {
	duck := NewDuckContext()
	bt := newBinaryTable(tableIDCAT, 0xffff, 0, true, 0)
	bt.AddSection(newDraftSection(tableIDCAT, 0xffff, 0, true, 0, 0))

	pat := &PATTable{}
	err := pat.Deserialize(duck, bt)
	assert.ErrorIs(t, err, ErrWrongTableID)
}
