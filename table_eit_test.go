package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eitEventWithDescriptors(id uint16, start time.Time, nDesc int) EITEvent {
	var list DescriptorList
	for i := 0; i < nDesc; i++ {
		list = append(list, tenByteDescriptor(0x4d))
	}
	return EITEvent{
		EventID:       id,
		StartTime:     start,
		Duration:      30 * time.Minute,
		RunningStatus: RunningStatusRunning,
		FreeCAMode:    false,
		Descriptors:   list,
	}
}

func TestEITTable_PresentFollowingRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	base := time.Date(2026, time.July, 31, 20, 0, 0, 0, time.UTC)
	eit := &EITTable{
		ServiceID:         1,
		TransportStreamID: 2,
		OriginalNetworkID: 3,
		Version:           1,
		Current:           true,
		Events: []EITEvent{
			eitEventWithDescriptors(1, base, 1),
			eitEventWithDescriptors(2, base.Add(30*time.Minute), 0),
		},
	}

	bt, err := eit.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, tableIDEITPresentFollowingActual, bt.TableID())
	assert.Equal(t, 1, bt.SectionCount())

	got := &EITTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	assert.Equal(t, eit.ServiceID, got.ServiceID)
	assert.Equal(t, eit.TransportStreamID, got.TransportStreamID)
	require.Len(t, got.Events, 2)
	assert.Equal(t, eit.Events[0].EventID, got.Events[0].EventID)
	assert.True(t, eit.Events[0].StartTime.Equal(got.Events[0].StartTime))
	assert.Equal(t, eit.Events[0].Duration, got.Events[0].Duration)
	assert.Len(t, got.Events[0].Descriptors, 1)
	assert.Empty(t, got.Events[1].Descriptors)
}

// TestEITTable_ScheduleSegmentsNeverShareASection pins the rule that a
// 3-hour schedule slot is its own run of sections: two events four hours
// apart fall in different slots and never share a section even though
// both would easily fit in one.
func TestEITTable_ScheduleSegmentsNeverShareASection(t *testing.T) {
	duck := NewDuckContext()
	base := time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)
	eit := &EITTable{
		TableIDValue: tableIDEITScheduleActualStart,
		ServiceID:    1,
		Events: []EITEvent{
			eitEventWithDescriptors(1, base, 0),
			eitEventWithDescriptors(2, base.Add(4*time.Hour), 0),
		},
	}

	bt, err := eit.Serialize(duck)
	require.NoError(t, err)
	assert.Equal(t, 2, bt.SectionCount())

	got := &EITTable{}
	require.NoError(t, got.Deserialize(duck, bt))
	require.Len(t, got.Events, 2)
	assert.True(t, eit.Events[0].StartTime.Equal(got.Events[0].StartTime))
	assert.True(t, eit.Events[1].StartTime.Equal(got.Events[1].StartTime))
}

func TestEITTable_ScheduleSegmentOverflow(t *testing.T) {
	duck := NewDuckContext()
	base := time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)
	eit := &EITTable{TableIDValue: tableIDEITScheduleActualStart, ServiceID: 1}
	for i := uint16(0); i < 40; i++ {
		eit.Events = append(eit.Events, eitEventWithDescriptors(i, base.Add(time.Duration(i)*time.Minute), 60))
	}

	_, err := eit.Serialize(duck)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestEITTable_XMLRoundTrip(t *testing.T) {
	duck := NewDuckContext()
	start := time.Date(2026, time.July, 31, 21, 0, 0, 0, time.UTC)
	eit := &EITTable{
		ServiceID: 9,
		Events:    []EITEvent{{EventID: 5, StartTime: start, Duration: time.Hour, RunningStatus: RunningStatusRunning}},
	}

	e := eit.ToXML(duck)
	assert.Equal(t, "eit", e.Name)

	got := &EITTable{}
	require.NoError(t, got.FromXML(duck, e))
	assert.Equal(t, eit.ServiceID, got.ServiceID)
	require.Len(t, got.Events, 1)
	assert.True(t, start.Equal(got.Events[0].StartTime))
	assert.Equal(t, time.Hour, got.Events[0].Duration)
}

func TestEITTable_WrongTableIDRejected(t *testing.T) {
	duck := NewDuckContext()
	bt := newBinaryTable(tableIDPAT, 0xffff, 0, true, 0)
	bt.AddSection(newDraftSection(tableIDPAT, 0xffff, 0, true, 0, 0))

	eit := &EITTable{}
	assert.ErrorIs(t, eit.Deserialize(duck, bt), ErrWrongTableID)
}
