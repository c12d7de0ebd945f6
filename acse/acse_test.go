package acse_test

import (
	"testing"

	"github.com/dulengine/dul/acse"
	"github.com/dulengine/dul/pdu/item"
	"github.com/stretchr/testify/require"
)

const (
	verificationSOPClass = "1.2.840.10008.1.1"
	implicitVRLE         = "1.2.840.10008.1.2"
	explicitVRLE         = "1.2.840.10008.1.2.1"
)

func TestNegotiateAcceptedContext(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{implicitVRLE, explicitVRLE}},
	}, 16384)

	acceptor := acse.NewNegotiator()
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {explicitVRLE, implicitVRLE},
	}, nil, 16384)
	require.NoError(t, err)

	require.NoError(t, requestor.OnAssociateResponse(acItems))

	pc, ok := requestor.ByAbstractSyntax(verificationSOPClass)
	require.True(t, ok)
	require.Equal(t, explicitVRLE, pc.TransferSyntax)

	pc2, ok := acceptor.ByContextID(pc.ContextID)
	require.True(t, ok)
	require.Equal(t, verificationSOPClass, pc2.AbstractSyntax)
}

func TestNegotiateUnsupportedAbstractSyntax(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{AbstractSyntax: "1.2.3.4.5", TransferSyntaxes: []string{implicitVRLE}},
	}, 16384)

	acceptor := acse.NewNegotiator()
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {implicitVRLE},
	}, nil, 16384)
	require.NoError(t, err)

	var found bool
	for _, it := range acItems {
		if pc, ok := it.(*item.PresentationContextItem); ok {
			found = true
			require.Equal(t, item.ResultAbstractSyntaxNotSupported, pc.Result)
		}
	}
	require.True(t, found)
}

func TestNegotiateNoTransferSyntaxOverlap(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{"1.2.840.10008.1.2.4.50"}},
	}, 16384)

	acceptor := acse.NewNegotiator()
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {implicitVRLE, explicitVRLE},
	}, nil, 16384)
	require.NoError(t, err)

	for _, it := range acItems {
		if pc, ok := it.(*item.PresentationContextItem); ok {
			require.Equal(t, item.ResultTransferSyntaxesNotSupported, pc.Result)
		}
	}
}

func TestPeerUserInformationAbsorbed(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{implicitVRLE}},
	}, 16384)

	acceptor := acse.NewNegotiator()
	_, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{verificationSOPClass: {implicitVRLE}}, nil, 16384)
	require.NoError(t, err)
	require.Equal(t, uint32(16384), acceptor.PeerMaxPDUSize)
	require.Equal(t, acse.ImplementationClassUID, acceptor.PeerImplementationClassUID)
}

func TestRoleSelectionGrantedWhenAcceptorSupportsRequestedRole(t *testing.T) {
	requestor := acse.NewNegotiator()
	// The requestor offers to act as SCP (and proposes the acceptor act
	// as SCU) for this abstract syntax, the storage-commitment pattern
	// from spec.md §4.4 scenario 4.
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{
			AbstractSyntax:   verificationSOPClass,
			TransferSyntaxes: []string{implicitVRLE},
			RequestRole:      &acse.RoleProposal{SCU: false, SCP: true},
		},
	}, 16384)

	acceptor := acse.NewNegotiator()
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {implicitVRLE},
	}, map[string]acse.RoleSupport{
		verificationSOPClass: {SCU: true, SCP: false},
	}, 16384)
	require.NoError(t, err)

	require.NoError(t, requestor.OnAssociateResponse(acItems))

	pc, ok := requestor.ByAbstractSyntax(verificationSOPClass)
	require.True(t, ok)
	require.False(t, pc.SCURole)
	require.True(t, pc.SCPRole)

	pc2, ok := acceptor.ByAbstractSyntax(verificationSOPClass)
	require.True(t, ok)
	require.False(t, pc2.SCURole)
	require.True(t, pc2.SCPRole)
}

func TestRoleSelectionDeniedWhenAcceptorLacksSupport(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{
			AbstractSyntax:   verificationSOPClass,
			TransferSyntaxes: []string{implicitVRLE},
			RequestRole:      &acse.RoleProposal{SCU: true, SCP: true},
		},
	}, 16384)

	acceptor := acse.NewNegotiator()
	// Acceptor can only ever be SCU for this abstract syntax: the
	// requestor's SCU half needs an acceptor SCP and is denied, while its
	// SCP half pairs with the acceptor's SCU support and is granted.
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {implicitVRLE},
	}, map[string]acse.RoleSupport{
		verificationSOPClass: {SCU: true, SCP: false},
	}, 16384)
	require.NoError(t, err)

	require.NoError(t, requestor.OnAssociateResponse(acItems))

	pc, ok := requestor.ByAbstractSyntax(verificationSOPClass)
	require.True(t, ok)
	require.False(t, pc.SCURole)
	require.True(t, pc.SCPRole)
}

func TestNoRoleSelectionWhenNotRequested(t *testing.T) {
	requestor := acse.NewNegotiator()
	rqItems := requestor.BuildAssociateRQItems([]acse.ProposedContext{
		{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{implicitVRLE}},
	}, 16384)

	acceptor := acse.NewNegotiator()
	acItems, err := acceptor.OnAssociateRequest(rqItems, map[string][]string{
		verificationSOPClass: {implicitVRLE},
	}, map[string]acse.RoleSupport{
		verificationSOPClass: {SCU: true, SCP: true},
	}, 16384)
	require.NoError(t, err)

	for _, it := range acItems {
		ui, ok := it.(*item.UserInformationItem)
		if !ok {
			continue
		}
		for _, sub := range ui.Items {
			_, isRole := sub.(*item.RoleSelectionItem)
			require.False(t, isRole, "no role-selection item should be returned when none was requested")
		}
	}
}
