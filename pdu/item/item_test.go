package item_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/suyashkumar/dicom/pkg/dicomio"

	"github.com/dulengine/dul/pdu/item"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, in item.SubItem) item.SubItem {
	t.Helper()
	var buf bytes.Buffer
	w := dicomio.NewWriter(&buf, binary.BigEndian, false)
	require.NoError(t, in.Write(w))

	r := dicomio.NewReader(bytes.NewReader(buf.Bytes()), binary.BigEndian, int64(buf.Len()))
	out, err := item.DecodeSubItem(r)
	require.NoError(t, err)
	require.True(t, r.IsLimitExhausted())
	return out
}

func TestNamedItemRoundTrip(t *testing.T) {
	in := item.NewAbstractSyntaxItem("1.2.840.10008.1.1")
	out := roundTrip(t, in)
	decoded, ok := out.(*item.AbstractSyntaxItem)
	require.True(t, ok)
	require.Equal(t, "1.2.840.10008.1.1", decoded.Name)
}

func TestPresentationContextRoundTrip(t *testing.T) {
	in := &item.PresentationContextItem{
		Type:      item.TypePresentationContextRequest,
		ContextID: 1,
		Items: []item.SubItem{
			item.NewAbstractSyntaxItem("1.2.840.10008.1.1"),
			item.NewTransferSyntaxItem("1.2.840.10008.1.2"),
		},
	}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.PresentationContextItem)
	require.True(t, ok)
	require.Equal(t, byte(1), decoded.ContextID)
	require.Len(t, decoded.Items, 2)
}

func TestPresentationContextRejectsEvenID(t *testing.T) {
	var buf bytes.Buffer
	w := dicomio.NewWriter(&buf, binary.BigEndian, false)
	in := &item.PresentationContextItem{Type: item.TypePresentationContextRequest, ContextID: 1}
	require.NoError(t, in.Write(w))

	wire := buf.Bytes()
	wire[4] = 2 // stomp the context ID to an even value

	r := dicomio.NewReader(bytes.NewReader(wire), binary.BigEndian, int64(len(wire)))
	_, err := item.DecodeSubItem(r)
	require.Error(t, err)
}

func TestMaximumLengthRoundTrip(t *testing.T) {
	in := &item.MaximumLengthItem{MaximumLengthReceived: 16384}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.MaximumLengthItem)
	require.True(t, ok)
	require.Equal(t, uint32(16384), decoded.MaximumLengthReceived)
}

func TestAsyncOpsWindowRoundTrip(t *testing.T) {
	in := &item.AsyncOpsWindowItem{MaxOpsInvoked: 1, MaxOpsPerformed: 1}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.AsyncOpsWindowItem)
	require.True(t, ok)
	require.Equal(t, uint16(1), decoded.MaxOpsInvoked)
	require.Equal(t, uint16(1), decoded.MaxOpsPerformed)
}

func TestRoleSelectionRoundTrip(t *testing.T) {
	in := &item.RoleSelectionItem{SOPClassUID: "1.2.840.10008.5.1.4.1.1.2", SCURole: false, SCPRole: true}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.RoleSelectionItem)
	require.True(t, ok)
	require.Equal(t, "1.2.840.10008.5.1.4.1.1.2", decoded.SOPClassUID)
	require.False(t, decoded.SCURole)
	require.True(t, decoded.SCPRole)
}

func TestSOPClassExtendedRoundTrip(t *testing.T) {
	in := &item.SOPClassExtendedItem{SOPClassUID: "1.2.840.10008.5.1.4.1.1.2", ApplicationInformation: []byte{0x01, 0x02, 0x03}}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.SOPClassExtendedItem)
	require.True(t, ok)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, decoded.ApplicationInformation)
}

func TestSOPClassCommonExtendedRoundTrip(t *testing.T) {
	in := &item.SOPClassCommonExtendedItem{
		SOPClassUID:                "1.2.840.10008.5.1.4.1.1.2",
		ServiceClassUID:            "1.2.840.10008.4.2",
		RelatedGeneralSOPClassUIDs: []string{"1.2.3", "4.5.6"},
	}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.SOPClassCommonExtendedItem)
	require.True(t, ok)
	require.Equal(t, []string{"1.2.3", "4.5.6"}, decoded.RelatedGeneralSOPClassUIDs)
}

func TestUserIdentityRequestRoundTrip(t *testing.T) {
	in := &item.UserIdentityRequestItem{
		Type:                      item.UserIdentityUsernamePassword,
		PositiveResponseRequested: true,
		PrimaryField:              []byte("alice"),
		SecondaryField:            []byte("hunter2"),
	}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.UserIdentityRequestItem)
	require.True(t, ok)
	require.Equal(t, item.UserIdentityUsernamePassword, decoded.Type)
	require.True(t, decoded.PositiveResponseRequested)
	require.Equal(t, []byte("alice"), decoded.PrimaryField)
	require.Equal(t, []byte("hunter2"), decoded.SecondaryField)
}

func TestUserIdentityResponseRoundTrip(t *testing.T) {
	in := &item.UserIdentityResponseItem{ServerResponse: []byte("token")}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.UserIdentityResponseItem)
	require.True(t, ok)
	require.Equal(t, []byte("token"), decoded.ServerResponse)
}

func TestUserInformationContainerRoundTrip(t *testing.T) {
	in := &item.UserInformationItem{
		Items: []item.SubItem{
			&item.MaximumLengthItem{MaximumLengthReceived: 16384},
			item.NewImplementationClassUIDItem("1.2.840.10008.100.1"),
			&item.AsyncOpsWindowItem{MaxOpsInvoked: 1, MaxOpsPerformed: 1},
		},
	}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.UserInformationItem)
	require.True(t, ok)
	require.Len(t, decoded.Items, 3)
}

func TestUnknownItemPreservesBytes(t *testing.T) {
	in := &item.UnknownSubItem{Type: 0x70, Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	out := roundTrip(t, in)
	decoded, ok := out.(*item.UnknownSubItem)
	require.True(t, ok)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded.Data)
}
