package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDTTable_RoundTripThroughBinaryTable(t *testing.T) {
	duck := NewDuckContext()
	sdt := &SDTTable{
		Actual:            true,
		TransportStreamID: 0x10,
		OriginalNetworkID: 0x20,
		Version:           1,
		Current:           true,
		Services: []SDTService{
			{
				ServiceID:           1,
				EITSchedule:         true,
				EITPresentFollowing: true,
				RunningStatus:       RunningStatusRunning,
				FreeCAMode:          true,
				Descriptors:         DescriptorList{tenByteDescriptor(0x48)},
			},
			{ServiceID: 2, RunningStatus: RunningStatusNotRunning},
		},
	}

	bt, err := sdt.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, tableIDSDTActual, bt.TableID())

	got := &SDTTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.True(t, got.Actual)
	assert.Equal(t, sdt.TransportStreamID, got.TransportStreamID)
	assert.Equal(t, sdt.OriginalNetworkID, got.OriginalNetworkID)
	require.Len(t, got.Services, 2)
	assert.Equal(t, sdt.Services[0].ServiceID, got.Services[0].ServiceID)
	assert.True(t, got.Services[0].EITSchedule)
	assert.True(t, got.Services[0].EITPresentFollowing)
	assert.Equal(t, uint8(RunningStatusRunning), got.Services[0].RunningStatus)
	assert.True(t, got.Services[0].FreeCAMode)
	assert.Len(t, got.Services[0].Descriptors, 1)
	assert.Equal(t, uint8(RunningStatusNotRunning), got.Services[1].RunningStatus)
}

func TestSDTTable_OtherSelectsTableIDOther(t *testing.T) {
	sdt := &SDTTable{Actual: false}
	assert.Equal(t, tableIDSDTOther, sdt.TableID())
}

func TestSDTTable_SegmentsAcrossMultipleSections(t *testing.T) {
	duck := NewDuckContext()
	sdt := &SDTTable{Actual: true, TransportStreamID: 1}
	for i := uint16(0); i < 150; i++ {
		sdt.Services = append(sdt.Services, SDTService{
			ServiceID:   i,
			Descriptors: DescriptorList{tenByteDescriptor(0x48)},
		})
	}

	bt, err := sdt.Serialize(duck)
	require.NoError(t, err)
	assert.Greater(t, bt.SectionCount(), 1)

	got := &SDTTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	require.Len(t, got.Services, 150)
	for i, s := range got.Services {
		assert.Equal(t, uint16(i), s.ServiceID)
	}
}

func TestSDTTable_XMLRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	sdt := &SDTTable{
		Actual:            true,
		TransportStreamID: 5,
		OriginalNetworkID: 6,
		Version:           1,
		Current:           true,
		Services:          []SDTService{{ServiceID: 42, RunningStatus: RunningStatusRunning, FreeCAMode: true}},
	}

	e := sdt.ToXML(duck)
	assert.Equal(t, "sdt", e.Name)

	got := &SDTTable{}
	require.NoError(t, got.FromXML(duck, e))
	assert.Equal(t, sdt.TransportStreamID, got.TransportStreamID)
	require.Len(t, got.Services, 1)
	assert.Equal(t, uint16(42), got.Services[0].ServiceID)
	assert.True(t, got.Services[0].FreeCAMode)
}

func TestSDTTable_WrongTableIDRejected(t *testing.T) {
	duck := NewDuckContext()
	bt := newBinaryTable(tableIDPAT, 0xffff, 0, true, 0)
	bt.AddSection(newDraftSection(tableIDPAT, 0xffff, 0, true, 0, 0))

	sdt := &SDTTable{}
	assert.ErrorIs(t, sdt.Deserialize(duck, bt), ErrWrongTableID)
}
