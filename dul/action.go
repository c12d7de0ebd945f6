package dul

import (
	"github.com/dulengine/dul/pdu"
)

// Input is one occurrence of an Event, carrying whatever payload that
// event needs (the PDU just received, or nil for a locally-generated
// primitive).
type Input struct {
	Event Event
	PDU   pdu.PDU
	Err   error
}

// Hooks are the side effects an action may trigger. A Machine's Step
// method never touches a socket or a timer directly; it only calls these
// so the transition table can be driven in tests with fakes.
type Hooks struct {
	// Connect asks the transport to open sta4's outbound TCP connection.
	Connect func() error
	// Send writes one PDU to the peer.
	Send func(p pdu.PDU) error
	// StartARTIM and StopARTIM arm/disarm the ACSE reject/release timer
	// (spec.md §4.3, §5).
	StartARTIM func()
	StopARTIM  func()
	// StartNetwork and StopNetwork arm/disarm the network inactivity
	// timer (spec.md §5) while the association is established; actions
	// call StartNetwork both on entering Sta6 and on every data transfer
	// so it tracks idle time rather than time-since-establishment, and
	// StopNetwork whenever the association leaves Sta6.
	StartNetwork func()
	StopNetwork  func()
	// CloseTransport tears down the underlying connection.
	CloseTransport func()
	// Deliver hands an indication/confirmation primitive to the
	// association layer above the FSM.
	Deliver func(Indication)
}

// IndicationKind enumerates the upcalls the FSM delivers to its caller.
type IndicationKind int

const (
	IndicationAssociateRequest IndicationKind = iota
	IndicationAssociateAccept
	IndicationAssociateReject
	IndicationDataTransfer
	IndicationReleaseRequest
	IndicationReleaseConfirm
	IndicationAbort
	IndicationTransportClosed
)

// Indication is one upcall delivered via Hooks.Deliver.
type Indication struct {
	Kind IndicationKind
	PDU  pdu.PDU
	Err  error
}

type action struct {
	Name string
	Run  func(h Hooks, in Input) State
}

// transitions maps (state, event) to the action DICOM PS3.8 Table 9-10
// specifies. A (state, event) pair absent from the table is a protocol
// violation (spec.md §8): Step resolves it through illegalAction, which
// picks actAAIllegal (the same kind of AA-abort AA-1 performs), or
// actIgnore in Sta1 and AA-7 in Sta13, so every combination has a
// defined, testable outcome.
var transitions = map[State]map[Event]*action{
	Sta1: {
		EvtAssociateRequest:  actAE1,
		EvtTransportAccepted: actAE5,
	},
	Sta2: {
		EvtAAssociateRQ: actAE6Accept,
		EvtTransportClosed: actAA5,
		EvtInvalidPDU:      actAA1,
	},
	Sta3: {
		EvtAssociateAccept: actAE7,
		EvtAssociateReject: actAE8,
		EvtTransportClosed: actAA4,
		EvtAbortRequest:    actAA1NoSend,
	},
	Sta4: {
		EvtTransportConnected: actAE2,
		EvtTransportClosed:    actAA4,
	},
	Sta5: {
		EvtAAssociateAC:    actAE3,
		EvtAAssociateRJ:    actAE4,
		EvtTransportClosed: actAA4,
		EvtARTIMTimeout:    actAA2,
		EvtInvalidPDU:      actAA1,
		EvtAbortRequest:    actAA1NoSend,
	},
	Sta6: {
		EvtPDataRequest:   actDT1,
		EvtPDataTF:        actDT2,
		EvtReleaseRequest: actAR1,
		EvtAReleaseRQ:     actAR2,
		EvtAAbort:         actAA3,
		EvtTransportClosed: actAA3,
		EvtAbortRequest:    actAA1,
		EvtInvalidPDU:      actAA1,
	},
	Sta7: {
		EvtAReleaseRP:      actAR3,
		EvtAReleaseRQ:      actAR8,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
		EvtAbortRequest:    actAA1NoSend,
	},
	Sta8: {
		EvtReleaseResponse: actAR4,
		EvtPDataRequest:    actAR7,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
		EvtAbortRequest:    actAA1NoSend,
	},
	Sta9: {
		EvtReleaseResponse: actAR9,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
	},
	Sta10: {
		EvtAReleaseRP:      actAR10,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
	},
	Sta11: {
		EvtAReleaseRP:      actAR3,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
	},
	Sta12: {
		EvtReleaseResponse: actAR4,
		EvtAAbort:          actAA3,
		EvtTransportClosed: actAA4,
	},
	Sta13: {
		EvtTransportClosed: actAR5,
		EvtAAssociateRQ:    actAA7,
		EvtAAssociateAC:    actAA7,
		EvtAAssociateRJ:    actAA7,
		EvtPDataTF:         actAA7,
		EvtAReleaseRQ:      actAA7,
		EvtAReleaseRP:      actAA7,
		EvtARTIMTimeout:    actAA2,
		EvtInvalidPDU:      actAA7,
	},
}

// Machine drives the association control FSM. It holds no socket or
// timer state itself; callers wire those through Hooks.
type Machine struct {
	State State
	Hooks Hooks

	label string
}

// NewMachine starts a Machine in Sta1 (Idle), DICOM PS3.8's initial
// state for both association requestor and acceptor roles.
func NewMachine(label string, h Hooks) *Machine {
	return &Machine{State: Sta1, Hooks: h, label: label}
}

// Step applies one Input against the current state and returns the
// resulting state (also stored in m.State). The returned error is
// always nil from Step itself today; it's kept in the signature so
// callers don't need to change when a future action reports one.
func (m *Machine) Step(in Input) (State, error) {
	act, ok := transitions[m.State][in.Event]
	if !ok {
		act = illegalAction(m.State)
	}
	next := act.Run(m.Hooks, in)
	m.State = next
	return next, nil
}

// illegalAction resolves an undefined (state, event) pair to the AA-abort
// that applies in that state. Sta1 has no association to abort yet, so an
// unexpected event there is simply ignored; Sta13 already discards
// anything but a transport close via AA-7, which is the right outcome
// without arming ARTIM a second time.
func illegalAction(s State) *action {
	switch s {
	case Sta1:
		return actIgnore
	case Sta13:
		return actAA7
	default:
		return actAAIllegal
	}
}
