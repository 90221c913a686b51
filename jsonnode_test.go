package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementJSONNodeRoundTrip(t *testing.T) {
	root := NewElement("tsduck")
	pat := NewElement("pat")
	pat.SetAttr("transport_stream_id", "0x0001")
	pat.SetAttr("version", "3")
	prog := NewElement("program")
	prog.SetAttr("program_number", "0x0001")
	prog.Text = ""
	pat.AddChild(prog)
	root.AddChild(pat)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, root))

	got, err := ParseJSON(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, root.Name, got.Name)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "pat", got.Children[0].Name)
	assert.Equal(t, "0x0001", got.Children[0].Attrs["transport_stream_id"])
	assert.Equal(t, "3", got.Children[0].Attrs["version"])
	require.Len(t, got.Children[0].Children, 1)
	assert.Equal(t, "0x0001", got.Children[0].Children[0].Attrs["program_number"])
}

func TestJSONNode_TextLeafPreserved(t *testing.T) {
	e := NewElement("generic_short_table")
	e.SetAttr("table_id", "0x70")
	e.Text = "AABBCCDD"

	n := elementToJSONNode(e)
	assert.Equal(t, "AABBCCDD", n.Text)

	back := jsonNodeToElement(n)
	assert.Equal(t, "AABBCCDD", back.Text)
	assert.Equal(t, "0x70", back.Attrs["table_id"])
}
