package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_SetAttrAndChildLookupIsCaseInsensitive(t *testing.T) {
	root := NewElement("tsduck")
	root.AddChild(NewElement("PAT"))
	root.AddChild(NewElement("pmt"))
	root.AddChild(NewElement("pmt"))

	assert.NotNil(t, root.Child("pat"))
	assert.Len(t, root.ChildrenNamed("PMT"), 2)
	assert.Nil(t, root.Child("cat"))
}

func TestParseXML_WriteXML_RoundTrip(t *testing.T) {
	root := NewElement("tsduck")
	pat := root.AddChild(NewElement("pat"))
	pat.SetAttr("transport_stream_id", "0x1")
	pat.SetAttr("version", "1")

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, root))

	got, err := ParseXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, "tsduck", got.Name)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "pat", got.Children[0].Name)
	v, ok := got.Children[0].Attr("transport_stream_id")
	require.True(t, ok)
	assert.Equal(t, "0x1", v)
}

func TestParseXML_PreservesLeafText(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<descriptor tag="0x72">01 02 03</descriptor>`)

	got, err := ParseXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, "01 02 03", got.Text)
	v, ok := got.Attr("tag")
	require.True(t, ok)
	assert.Equal(t, "0x72", v)
}

func TestParseXML_EmptyDocumentFails(t *testing.T) {
	_, err := ParseXML(bytes.NewReader(nil))
	assert.Error(t, err)
}
