package dimse_test

import (
	"bytes"
	"testing"

	"github.com/suyashkumar/dicom"

	"github.com/dulengine/dul/dimse"

	"github.com/stretchr/testify/require"
)

// roundTrip encodes v with EncodeMessage and decodes the result back with
// ReadMessage, mirroring how CommandAssembler reassembles a command set
// off the wire.
func roundTrip(t *testing.T, v dimse.Message) dimse.Message {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dimse.EncodeMessage(&buf, v))

	parsed, err := dicom.Parse(&buf, int64(buf.Len()), nil, dicom.SkipPixelData(), dicom.SkipMetadataReadOnNewParserInit())
	require.NoError(t, err)
	got, err := dimse.ReadMessage(&parsed)
	require.NoError(t, err)
	return got
}

func TestCEchoRqRoundTrip(t *testing.T) {
	in := &dimse.CEchoRq{MessageID: 1, CommandDataSetType: dimse.CommandDataSetTypeNull}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.CEchoRq)
	require.True(t, ok)
	require.Equal(t, in.MessageID, got.MessageID)
	require.False(t, got.HasData())
}

func TestCEchoRspRoundTrip(t *testing.T) {
	in := &dimse.CEchoRsp{MessageIDBeingRespondedTo: 1, CommandDataSetType: dimse.CommandDataSetTypeNull, Status: dimse.Success}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.CEchoRsp)
	require.True(t, ok)
	require.Equal(t, dimse.StatusSuccess, got.Status.Status)
}

func TestCStoreRqRoundTrip(t *testing.T) {
	in := &dimse.CStoreRq{
		AffectedSOPClassUID:    "1.2.840.10008.5.1.4.1.1.7",
		MessageID:              7,
		Priority:               0,
		CommandDataSetType:     dimse.CommandDataSetTypeNonNull,
		AffectedSOPInstanceUID: "1.2.3.4.5",
	}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.CStoreRq)
	require.True(t, ok)
	require.Equal(t, in.AffectedSOPClassUID, got.AffectedSOPClassUID)
	require.Equal(t, in.AffectedSOPInstanceUID, got.AffectedSOPInstanceUID)
	require.True(t, got.HasData())
}

func TestCFindRspRoundTrip(t *testing.T) {
	in := &dimse.CFindRsp{
		AffectedSOPClassUID:       "1.2.840.10008.5.1.4.1.2.2.1",
		MessageIDBeingRespondedTo: 3,
		CommandDataSetType:        dimse.CommandDataSetTypeNull,
		Status:                    dimse.Success,
	}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.CFindRsp)
	require.True(t, ok)
	require.Equal(t, in.MessageIDBeingRespondedTo, got.MessageIDBeingRespondedTo)
}

func TestCCancelRqRoundTrip(t *testing.T) {
	in := &dimse.CCancelRq{MessageIDBeingRespondedTo: 9, CommandDataSetType: dimse.CommandDataSetTypeNull}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.CCancelRq)
	require.True(t, ok)
	require.Equal(t, in.MessageIDBeingRespondedTo, got.MessageIDBeingRespondedTo)
	require.Equal(t, dimse.CommandFieldCCancelRq, got.CommandField())
}

func TestNGetRoundTrip(t *testing.T) {
	in := &dimse.NGetRq{
		RequestedSOPClassUID:    "1.2.840.10008.5.1.1.1",
		RequestedSOPInstanceUID: "1.2.3.4.5.6",
		MessageID:               5,
		CommandDataSetType:      dimse.CommandDataSetTypeNull,
	}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.NGetRq)
	require.True(t, ok)
	require.Equal(t, in.RequestedSOPInstanceUID, got.RequestedSOPInstanceUID)
}

func TestNCreateRspRoundTrip(t *testing.T) {
	in := &dimse.NCreateRsp{
		AffectedSOPClassUID:       "1.2.840.10008.5.1.1.1",
		AffectedSOPInstanceUID:    "1.2.3.4.5.6.7",
		MessageIDBeingRespondedTo: 11,
		CommandDataSetType:        dimse.CommandDataSetTypeNull,
		Status:                    dimse.Success,
	}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.NCreateRsp)
	require.True(t, ok)
	require.Equal(t, in.AffectedSOPInstanceUID, got.AffectedSOPInstanceUID)
}

func TestNDeleteRqRoundTrip(t *testing.T) {
	in := &dimse.NDeleteRq{
		RequestedSOPClassUID:    "1.2.840.10008.5.1.1.1",
		RequestedSOPInstanceUID: "1.2.3.4.5.6.8",
		MessageID:               12,
	}
	out := roundTrip(t, in)
	got, ok := out.(*dimse.NDeleteRq)
	require.True(t, ok)
	require.Equal(t, in.RequestedSOPInstanceUID, got.RequestedSOPInstanceUID)
	require.False(t, got.HasData())
}
