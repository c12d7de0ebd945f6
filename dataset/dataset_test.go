package dataset_test

import (
	"bytes"
	"testing"

	"github.com/suyashkumar/dicom"
	dicomtag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/dulengine/dul/dataset"
	"github.com/dulengine/dul/transfersyntax"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := dataset.NewDefaultCodec()
	ts := transfersyntax.Decode(transfersyntax.ImplicitVRLittleEndian)

	elem, err := dicom.NewElement(dicomtag.Tag{Group: 0x0008, Element: 0x0060}, []string{"OT"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeElements(&buf, ts, []*dicom.Element{elem}))
	require.NotZero(t, buf.Len())

	decoded, err := codec.DecodeElements(bytes.NewReader(buf.Bytes()), int64(buf.Len()), ts)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
}

func TestFileMetaHeaderHasPart10Preamble(t *testing.T) {
	codec := dataset.NewDefaultCodec()
	header, err := codec.FileMetaHeader(dataset.FileMeta{
		MediaStorageSOPClassUID:    "1.2.840.10008.5.1.4.1.1.2",
		MediaStorageSOPInstanceUID: "1.2.3.4.5",
		TransferSyntaxUID:          transfersyntax.ImplicitVRLittleEndian,
		ImplementationClassUID:     "1.2.840.10008.100.1",
	})
	require.NoError(t, err)
	require.Greater(t, len(header), 132)
	require.Equal(t, "DICM", string(header[128:132]))
	for _, b := range header[:128] {
		require.Zero(t, b)
	}
}
