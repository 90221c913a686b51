package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealedTestSection(t *testing.T, sectionNumber, lastSectionNumber uint8, payload byte) *Section {
	t.Helper()
	s := newDraftSection(tableIDPAT, 1, 0, true, sectionNumber, lastSectionNumber)
	require.NoError(t, s.SetPayload([]byte{payload}))
	require.NoError(t, s.seal())
	require.NoError(t, s.validate(CRCCheck))
	return s
}

func TestBinaryTable_AddSection(t *testing.T) {
	bt := newBinaryTable(tableIDPAT, 1, 0, true, 1)

	s0 := sealedTestSection(t, 0, 1, 0x01)
	assert.Equal(t, Added, bt.AddSection(s0))

	s1 := sealedTestSection(t, 1, 1, 0x02)
	assert.Equal(t, Completed, bt.AddSection(s1))
	assert.True(t, bt.IsComplete())
	assert.Equal(t, 2, bt.SectionCount())
}

func TestBinaryTable_DuplicateAndConflictingSections(t *testing.T) {
	bt := newBinaryTable(tableIDPAT, 1, 0, true, 0)

	s0 := sealedTestSection(t, 0, 0, 0x01)
	assert.Equal(t, Completed, bt.AddSection(s0))

	dup := sealedTestSection(t, 0, 0, 0x01)
	assert.Equal(t, DuplicatedSlot, bt.AddSection(dup))

	conflicting := sealedTestSection(t, 0, 0, 0x02)
	assert.Equal(t, Conflict, bt.AddSection(conflicting))
}

func TestBinaryTable_AddSectionRejectsMismatchedIdentity(t *testing.T) {
	bt := newBinaryTable(tableIDPAT, 1, 0, true, 1)

	wrongVersion := newDraftSection(tableIDPAT, 1, 1, true, 0, 1)
	require.NoError(t, wrongVersion.SetPayload([]byte{0x01}))
	require.NoError(t, wrongVersion.seal())
	require.NoError(t, wrongVersion.validate(CRCCheck))
	assert.Equal(t, Conflict, bt.AddSection(wrongVersion))
	assert.Equal(t, 0, bt.SectionCount())

	wrongTableIDExtension := newDraftSection(tableIDPAT, 2, 0, true, 0, 1)
	require.NoError(t, wrongTableIDExtension.SetPayload([]byte{0x01}))
	require.NoError(t, wrongTableIDExtension.seal())
	require.NoError(t, wrongTableIDExtension.validate(CRCCheck))
	assert.Equal(t, Conflict, bt.AddSection(wrongTableIDExtension))
	assert.Equal(t, 0, bt.SectionCount())
}

func TestBinaryTable_SetAttributePropagatesToSections(t *testing.T) {
	bt := newBinaryTable(tableIDPAT, 1, 0, true, 0)
	bt.AddSection(sealedTestSection(t, 0, 0, 0x01))

	bt.setAttribute("archived")
	assert.Equal(t, "archived", bt.Attribute())
	assert.Equal(t, "archived", bt.SectionAt(0).Attribute)

	bt.setAttribute("")
	assert.Equal(t, "archived", bt.Attribute(), "an empty attribute must not erase an existing one")
}
