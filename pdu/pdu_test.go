package pdu_test

import (
	"bytes"
	"testing"

	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/pdu"
	"github.com/dulengine/dul/pdu/item"
	"github.com/stretchr/testify/require"
)

func mustAET(t *testing.T, s string) aetitle.AET {
	t.Helper()
	a, err := aetitle.Parse(s)
	require.NoError(t, err)
	return a
}

func TestAAssociateRQRoundTrip(t *testing.T) {
	called := mustAET(t, "SCP")
	calling := mustAET(t, "SCU")
	in := pdu.NewAAssociateRQ(called, calling, []item.SubItem{
		item.NewApplicationContextItem(item.DefaultApplicationContextName),
		&item.PresentationContextItem{
			Type:      item.TypePresentationContextRequest,
			ContextID: 1,
			Items: []item.SubItem{
				item.NewAbstractSyntaxItem("1.2.840.10008.1.1"),
				item.NewTransferSyntaxItem("1.2.840.10008.1.2"),
			},
		},
	})

	wire, err := pdu.EncodePDU(in)
	require.NoError(t, err)

	out, err := pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	decoded, ok := out.(*pdu.AAssociate)
	require.True(t, ok)
	require.Equal(t, pdu.TypeAAssociateRQ, decoded.PDUType())
	require.True(t, decoded.CalledAETitle.Equal(called))
	require.True(t, decoded.CallingAETitle.Equal(calling))
	require.Len(t, decoded.Items, 2)
}

func TestAAssociateRJRoundTrip(t *testing.T) {
	in := &pdu.AAssociateRJ{
		Result: pdu.RejectResultPermanent,
		Source: pdu.RejectSourceServiceUser,
		Reason: pdu.RejectReasonCalledAETitleNotRecognized,
	}
	wire, err := pdu.EncodePDU(in)
	require.NoError(t, err)
	out, err := pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	decoded, ok := out.(*pdu.AAssociateRJ)
	require.True(t, ok)
	require.Equal(t, pdu.RejectReasonCalledAETitleNotRecognized, decoded.Reason)
}

func TestAAbortRoundTrip(t *testing.T) {
	in := &pdu.AAbort{Source: pdu.AbortSourceServiceProvider, Reason: pdu.AbortReasonUnexpectedPDU}
	wire, err := pdu.EncodePDU(in)
	require.NoError(t, err)
	out, err := pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	decoded, ok := out.(*pdu.AAbort)
	require.True(t, ok)
	require.Equal(t, pdu.AbortReasonUnexpectedPDU, decoded.Reason)
}

func TestReleaseRoundTrip(t *testing.T) {
	wire, err := pdu.EncodePDU(&pdu.AReleaseRQ{})
	require.NoError(t, err)
	out, err := pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	_, ok := out.(*pdu.AReleaseRQ)
	require.True(t, ok)

	wire, err = pdu.EncodePDU(&pdu.AReleaseRP{})
	require.NoError(t, err)
	out, err = pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	_, ok = out.(*pdu.AReleaseRP)
	require.True(t, ok)
}

func TestPDataTFRoundTrip(t *testing.T) {
	in := &pdu.PDataTF{
		Items: []*pdu.PresentationDataValueItem{
			{ContextID: 1, Command: true, Last: true, Value: []byte{0x01, 0x02}},
			{ContextID: 1, Command: false, Last: false, Value: bytes.Repeat([]byte{0xab}, 128)},
		},
	}
	wire, err := pdu.EncodePDU(in)
	require.NoError(t, err)
	out, err := pdu.ReadPDU(bytes.NewReader(wire), 0)
	require.NoError(t, err)
	decoded, ok := out.(*pdu.PDataTF)
	require.True(t, ok)
	require.Len(t, decoded.Items, 2)
	require.True(t, decoded.Items[0].Command)
	require.True(t, decoded.Items[0].Last)
	require.False(t, decoded.Items[1].Last)
}

func TestReadPDURejectsOversizedLength(t *testing.T) {
	wire := []byte{byte(pdu.TypePDataTF), 0, 0xff, 0xff, 0xff, 0xff}
	_, err := pdu.ReadPDU(bytes.NewReader(wire), 16384)
	require.Error(t, err)
}
