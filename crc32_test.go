package section

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	testDataPat = []byte{0x00, 0xb0, 0x0d, 0x00, 0x01, 0xe1, 0x00, 0x00, 0x00, 0x01, 0xf0, 0x00, 0xe2, 0x95, 0xf6, 0x9d}
	testDataPmt = []byte{0x02, 0xb0, 0x1d, 0x00, 0x01, 0xf5, 0x00, 0x00, 0xe1, 0x00, 0xf0, 0x00, 0x1b, 0xe1, 0x00, 0x00,
		0x00, 0x0f, 0xe1, 0x04, 0x00, 0x06, 0x0a, 0x04, 0x72, 0x75, 0x73, 0x00, 0x38, 0x92, 0x85, 0xac}
)

func Test_updateCRC32(t *testing.T) {
	tests := []struct {
		name string
		crc  uint32
		data []byte
	}{
		{
			name: "Calc PAT crc32",
			crc:  binary.BigEndian.Uint32(testDataPat[len(testDataPat)-4:]),
			data: testDataPat[:len(testDataPat)-4],
		}, {
			name: "Calc PMT crc32",
			crc:  binary.BigEndian.Uint32(testDataPmt[len(testDataPmt)-4:]),
			data: testDataPmt[:len(testDataPmt)-4],
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.crc, computeCRC32(test.data))
		})
	}
}

func TestCRC32Writer(t *testing.T) {
	var buf bytes.Buffer
	w := newCRC32Writer(&buf)

	_, err := w.Write(testDataPat[:len(testDataPat)-4])
	assert.NoError(t, err)
	assert.Equal(t, binary.BigEndian.Uint32(testDataPat[len(testDataPat)-4:]), w.CRC32())
	assert.Equal(t, testDataPat[:len(testDataPat)-4], buf.Bytes())
}

func TestCRC32Reader(t *testing.T) {
	r := newCRC32Reader(bytes.NewReader(testDataPmt[:len(testDataPmt)-4]))
	got := make([]byte, len(testDataPmt)-4)
	n, err := r.Read(got)
	assert.NoError(t, err)
	assert.Equal(t, len(testDataPmt)-4, n)
	assert.Equal(t, binary.BigEndian.Uint32(testDataPmt[len(testDataPmt)-4:]), r.CRC32())
}
