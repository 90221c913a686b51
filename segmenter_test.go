package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRecords(t *testing.T) {
	t.Run("fits in one chunk", func(t *testing.T) {
		records := [][]byte{{1, 2}, {3, 4}, {5}}
		chunks, err := chunkRecords(records, 10)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, []byte{1, 2, 3, 4, 5}, chunks[0])
	})

	t.Run("splits once the budget overflows", func(t *testing.T) {
		records := [][]byte{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
		chunks, err := chunkRecords(records, 6)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, chunks[0])
		assert.Equal(t, []byte{7, 8, 9}, chunks[1])
	})

	t.Run("zero records still produces one empty chunk", func(t *testing.T) {
		chunks, err := chunkRecords(nil, 10)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Empty(t, chunks[0])
	})

	t.Run("an oversized record is rejected rather than split", func(t *testing.T) {
		_, err := chunkRecords([][]byte{{1, 2, 3, 4}}, 2)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, checkVersion(31))
	assert.ErrorIs(t, checkVersion(32), ErrVersionExhausted)
}

func TestBuildLongSections_NumbersSectionsSequentially(t *testing.T) {
	duck := NewDuckContext()
	bodies := [][]byte{{1}, {2}, {3}}
	sections, err := buildLongSections(duck, tableIDPAT, 1, 0, true, false, bodies)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	for i, s := range sections {
		assert.Equal(t, uint8(i), s.SectionNumber)
		assert.Equal(t, uint8(2), s.LastSectionNumber)
		assert.True(t, s.IsReadable())
	}
}

func TestBuildShortSection_TOTCarriesCRCButNotSyntaxHeader(t *testing.T) {
	duck := NewDuckContext()
	s, err := buildShortSection(duck, tableIDTOT, true, false, []byte{0xaa})
	require.NoError(t, err)
	assert.False(t, s.SectionSyntaxIndicator)
	assert.True(t, s.HasCRC)
	assert.NotZero(t, s.CRC32)
}
