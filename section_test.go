package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_SealLongSectionComputesCRCAndTransitionsState(t *testing.T) {
	s := newDraftSection(0x02, 0x1234, 7, true, 0, 1)
	require.NoError(t, s.SetPayload([]byte{0xAA, 0xBB, 0xCC}))

	bs, err := s.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 3+5+3+4, len(bs)) // header(3) + long syntax(5) + payload(3) + CRC(4)
	require.NoError(t, s.validate(CRCCheck))
	assert.True(t, s.IsReadable())
}

func TestSection_SetPayloadFailsOnceNotFilling(t *testing.T) {
	s := newDraftSection(0x00, 0xFFFF, 0, true, 0, 0)
	require.NoError(t, s.SetPayload([]byte{0x01}))
	_, err := s.Bytes()
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetPayload([]byte{0x02}), ErrSectionNotFilling)
}

func TestSection_ParseRoundTripsSealedBytes(t *testing.T) {
	s := newDraftSection(0x42, 0xABCD, 3, true, 0, 0)
	require.NoError(t, s.SetPayload([]byte{1, 2, 3, 4, 5}))
	bs, err := s.Bytes()
	require.NoError(t, err)

	r := NewBitReader(bs)
	parsed, err := parseSection(r)
	require.NoError(t, err)
	require.NoError(t, parsed.validate(CRCCheck))

	assert.Equal(t, s.TableID, parsed.TableID)
	assert.Equal(t, s.TableIDExtension, parsed.TableIDExtension)
	assert.Equal(t, s.Version, parsed.Version)
	assert.Equal(t, s.SectionNumber, parsed.SectionNumber)
	assert.Equal(t, s.LastSectionNumber, parsed.LastSectionNumber)
	assert.Equal(t, s.Payload, parsed.Payload)
	assert.True(t, s.Equal(parsed))
}

func TestSection_ValidateFlagsBadCRCUnderCheckPolicy(t *testing.T) {
	s := newDraftSection(0x42, 0xABCD, 3, true, 0, 0)
	require.NoError(t, s.SetPayload([]byte{1, 2, 3}))
	bs, err := s.Bytes()
	require.NoError(t, err)

	corrupt := append([]byte(nil), bs...)
	corrupt[len(corrupt)-5] ^= 0xFF // flip a payload byte, leaving the stored CRC stale

	r := NewBitReader(corrupt)
	parsed, err := parseSection(r)
	require.NoError(t, err)

	err = parsed.validate(CRCCheck)
	assert.ErrorIs(t, err, ErrPSIInvalidCRC32)
	assert.False(t, parsed.IsReadable())

	// Under CRCIgnore the same section is accepted without recomputation.
	parsed2, err := parseSection(NewBitReader(corrupt))
	require.NoError(t, err)
	require.NoError(t, parsed2.validate(CRCIgnore))
	assert.True(t, parsed2.IsReadable())
}

func TestSection_ParsePreservesWireCRCRatherThanRecomputing(t *testing.T) {
	s := newDraftSection(0x42, 0xABCD, 3, true, 0, 0)
	require.NoError(t, s.SetPayload([]byte{1, 2, 3}))
	bs, err := s.Bytes()
	require.NoError(t, err)

	corrupt := append([]byte(nil), bs...)
	corrupt[len(corrupt)-5] ^= 0xFF // payload now disagrees with the still-stale stored CRC

	parsed, err := parseSection(NewBitReader(corrupt))
	require.NoError(t, err)

	// The parsed CRC32 must be the stale on-wire value, not one freshly
	// recomputed from the (now corrupted) payload.
	assert.Equal(t, s.CRC32, parsed.CRC32)
	assert.NotEqual(t, computeCRC32(parsed.encoded[:len(parsed.encoded)-4]), parsed.CRC32)
}

func TestSection_ShortSectionHasNoSyntaxHeaderOrCRCUnlessTOT(t *testing.T) {
	tdt := newDraftShortSection(tableIDTDT, false)
	require.NoError(t, tdt.SetPayload([]byte{1, 2, 3, 4, 5}))
	bs, err := tdt.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 3+5, len(bs)) // 3-byte header + 5-byte payload, no CRC

	tot := newDraftShortSection(tableIDTOT, true)
	require.NoError(t, tot.SetPayload([]byte{1, 2, 3, 4, 5}))
	bs2, err := tot.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 3+5+4, len(bs2)) // TOT is short-form but still CRC-protected
}

func TestSection_CloneIsIndependentDeepCopy(t *testing.T) {
	s := newDraftSection(0x02, 0x1234, 7, true, 0, 0)
	require.NoError(t, s.SetPayload([]byte{1, 2, 3}))
	_, err := s.Bytes()
	require.NoError(t, err)

	c := s.Clone()
	c.Payload[0] = 0xFF
	assert.NotEqual(t, s.Payload[0], c.Payload[0])
	assert.True(t, s.Equal(s.Clone()))
}
