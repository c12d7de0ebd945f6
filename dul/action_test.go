package dul_test

import (
	"testing"

	"github.com/dulengine/dul/dul"
	"github.com/dulengine/dul/pdu"
	"github.com/stretchr/testify/require"
)

type fakeHooks struct {
	sent      []pdu.PDU
	connected bool
	artimOn   bool
	networkOn bool
	closed    bool
	delivered []dul.Indication
}

func newFakeHooks() (*fakeHooks, dul.Hooks) {
	f := &fakeHooks{}
	return f, dul.Hooks{
		Connect:        func() error { f.connected = true; return nil },
		Send:           func(p pdu.PDU) error { f.sent = append(f.sent, p); return nil },
		StartARTIM:     func() { f.artimOn = true },
		StopARTIM:      func() { f.artimOn = false },
		StartNetwork:   func() { f.networkOn = true },
		StopNetwork:    func() { f.networkOn = false },
		CloseTransport: func() { f.closed = true },
		Deliver:        func(i dul.Indication) { f.delivered = append(f.delivered, i) },
	}
}

func TestRequestorHappyPath(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("requestor", h)
	require.Equal(t, dul.Sta1, m.State)

	_, err := m.Step(dul.Input{Event: dul.EvtAssociateRequest})
	require.NoError(t, err)
	require.Equal(t, dul.Sta4, m.State)
	require.True(t, f.connected)

	rq := &pdu.AAssociate{Type: pdu.TypeAAssociateRQ}
	_, err = m.Step(dul.Input{Event: dul.EvtTransportConnected, PDU: rq})
	require.NoError(t, err)
	require.Equal(t, dul.Sta5, m.State)
	require.True(t, f.artimOn)
	require.Len(t, f.sent, 1)

	ac := &pdu.AAssociate{Type: pdu.TypeAAssociateAC}
	_, err = m.Step(dul.Input{Event: dul.EvtAAssociateAC, PDU: ac})
	require.NoError(t, err)
	require.Equal(t, dul.Sta6, m.State)
	require.False(t, f.artimOn)
	require.True(t, f.networkOn)
	require.Len(t, f.delivered, 1)
	require.Equal(t, dul.IndicationAssociateAccept, f.delivered[0].Kind)
}

func TestAcceptorRejectsThenIdles(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("acceptor", h)

	_, err := m.Step(dul.Input{Event: dul.EvtTransportAccepted})
	require.NoError(t, err)
	require.Equal(t, dul.Sta2, m.State)
	require.True(t, f.artimOn)

	rq := &pdu.AAssociate{Type: pdu.TypeAAssociateRQ}
	_, err = m.Step(dul.Input{Event: dul.EvtAAssociateRQ, PDU: rq})
	require.NoError(t, err)
	require.Equal(t, dul.Sta3, m.State)
	require.False(t, f.artimOn)

	rj := &pdu.AAssociateRJ{Result: pdu.RejectResultPermanent}
	_, err = m.Step(dul.Input{Event: dul.EvtAssociateReject, PDU: rj})
	require.NoError(t, err)
	require.Equal(t, dul.Sta13, m.State)
	require.True(t, f.artimOn)

	// The peer never closes the transport, so ARTIM expires and AA-2
	// closes it, returning the machine to idle.
	_, err = m.Step(dul.Input{Event: dul.EvtARTIMTimeout})
	require.NoError(t, err)
	require.Equal(t, dul.Sta1, m.State)
	require.True(t, f.closed)
}

func TestDataTransferAndRelease(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	m.State = dul.Sta6

	_, err := m.Step(dul.Input{Event: dul.EvtPDataTF, PDU: &pdu.PDataTF{}})
	require.NoError(t, err)
	require.Equal(t, dul.Sta6, m.State)
	require.True(t, f.networkOn)

	_, err = m.Step(dul.Input{Event: dul.EvtReleaseRequest, PDU: &pdu.AReleaseRQ{}})
	require.NoError(t, err)
	require.Equal(t, dul.Sta7, m.State)
	require.False(t, f.networkOn)

	_, err = m.Step(dul.Input{Event: dul.EvtAReleaseRP, PDU: &pdu.AReleaseRP{}})
	require.NoError(t, err)
	require.Equal(t, dul.Sta1, m.State)
}

func TestReleaseCollision(t *testing.T) {
	_, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	m.State = dul.Sta6

	_, err := m.Step(dul.Input{Event: dul.EvtReleaseRequest})
	require.NoError(t, err)
	require.Equal(t, dul.Sta7, m.State)

	// Peer's RQ crosses ours on the wire: collision.
	_, err = m.Step(dul.Input{Event: dul.EvtAReleaseRQ, PDU: &pdu.AReleaseRQ{}})
	require.NoError(t, err)
	require.Equal(t, dul.Sta9, m.State)

	_, err = m.Step(dul.Input{Event: dul.EvtReleaseResponse})
	require.NoError(t, err)
	require.Equal(t, dul.Sta11, m.State)

	_, err = m.Step(dul.Input{Event: dul.EvtAReleaseRP, PDU: &pdu.AReleaseRP{}})
	require.NoError(t, err)
	require.Equal(t, dul.Sta1, m.State)
}

func TestAbortFromEstablished(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	m.State = dul.Sta6

	_, err := m.Step(dul.Input{Event: dul.EvtAbortRequest})
	require.NoError(t, err)
	require.Equal(t, dul.Sta13, m.State)
	require.True(t, f.artimOn)
	require.Len(t, f.sent, 1)
	_, ok := f.sent[0].(*pdu.AAbort)
	require.True(t, ok)
}

func TestIllegalEventAbortsFromEstablished(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	m.State = dul.Sta6

	// EvtTransportAccepted only ever occurs in Sta1; seeing it once an
	// association is established means something has gone badly wrong,
	// and the FSM must abort rather than ignore it (spec.md §8).
	state, err := m.Step(dul.Input{Event: dul.EvtTransportAccepted})
	require.NoError(t, err)
	require.Equal(t, dul.Sta13, state)
	require.True(t, f.artimOn)
	require.Len(t, f.sent, 1)
	abort, ok := f.sent[0].(*pdu.AAbort)
	require.True(t, ok)
	require.Equal(t, pdu.AbortSourceServiceProvider, abort.Source)
	require.Equal(t, pdu.AbortReasonUnexpectedPDU, abort.Reason)
	require.False(t, f.networkOn)
}

func TestIllegalEventInIdleIsIgnored(t *testing.T) {
	_, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	// Sta1 has no association to abort; an unexpected event there (e.g.
	// a stray P-DATA-TF) is simply dropped.
	state, err := m.Step(dul.Input{Event: dul.EvtPDataTF})
	require.NoError(t, err)
	require.Equal(t, dul.Sta1, state)
}

func TestIllegalEventInSta13DiscardsWithoutRearmingARTIM(t *testing.T) {
	f, h := newFakeHooks()
	m := dul.NewMachine("assoc", h)
	m.State = dul.Sta13

	state, err := m.Step(dul.Input{Event: dul.EvtPDataTF})
	require.NoError(t, err)
	require.Equal(t, dul.Sta13, state)
	require.False(t, f.artimOn)
	require.Empty(t, f.sent)
}
