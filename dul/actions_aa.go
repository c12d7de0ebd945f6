package dul

import "github.com/dulengine/dul/pdu"

// Abort actions, DICOM PS3.8 Table 9-10 AA-1..AA-8.

var actAA1 = &action{"AA-1", func(h Hooks, in Input) State {
	// Local A-ABORT request, or a PDU so malformed the FSM can't trust
	// the connection any further: send A-ABORT and start ARTIM.
	if h.Send != nil {
		abort := in.PDU
		if abort == nil {
			abort = &pdu.AAbort{Source: pdu.AbortSourceServiceUser}
		}
		h.Send(abort)
	}
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	if h.StopNetwork != nil {
		h.StopNetwork()
	}
	return Sta13
}}

// actAA1NoSend covers a local abort before the peer has sent or
// received anything interpretable (Sta3/Sta5/Sta7/Sta8), where closing
// the transport outright is cheaper than round-tripping an A-ABORT.
var actAA1NoSend = &action{"AA-1", func(h Hooks, in Input) State {
	if h.CloseTransport != nil {
		h.CloseTransport()
	}
	return Sta1
}}

var actAA2 = &action{"AA-2", func(h Hooks, in Input) State {
	// ARTIM timer expired: stop waiting for the peer and close.
	if h.CloseTransport != nil {
		h.CloseTransport()
	}
	return Sta1
}}

var actAA3 = &action{"AA-3", func(h Hooks, in Input) State {
	// A-ABORT received, or the transport dropped mid-association:
	// deliver the abort indication and close.
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationAbort, PDU: in.PDU, Err: in.Err})
	}
	if h.StopNetwork != nil {
		h.StopNetwork()
	}
	if h.CloseTransport != nil {
		h.CloseTransport()
	}
	return Sta1
}}

var actAA4 = &action{"AA-4", func(h Hooks, in Input) State {
	// Transport closed while waiting on a peer response: deliver an
	// abort indication so the caller unblocks.
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationTransportClosed, Err: in.Err})
	}
	return Sta1
}}

var actAA5 = &action{"AA-5", func(h Hooks, in Input) State {
	// Transport closed in Sta2 before any A-ASSOCIATE-RQ arrived.
	if h.StopARTIM != nil {
		h.StopARTIM()
	}
	return Sta1
}}

var actAA7 = &action{"AA-7", func(h Hooks, in Input) State {
	// Any PDU arriving in Sta13 is discarded; we're only waiting for
	// the transport close indication.
	return Sta13
}}

// actAAIllegal is the catch-all AA-abort Step applies to every
// (state, event) pair DICOM PS3.8 Table 9-10 doesn't define (spec.md
// §8): an event the table never expects in this state means the peer
// (or a local caller) has violated the protocol, so the association
// aborts exactly as AA-1 would for a locally detected error, with the
// source and reason fixed to reflect that it's this side's FSM, not the
// caller, that noticed.
var actAAIllegal = &action{"AA-abort(illegal-event)", func(h Hooks, in Input) State {
	if h.Send != nil {
		h.Send(&pdu.AAbort{Source: pdu.AbortSourceServiceProvider, Reason: pdu.AbortReasonUnexpectedPDU})
	}
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	if h.StopNetwork != nil {
		h.StopNetwork()
	}
	return Sta13
}}

// actIgnore is the no-op Step applies to an undefined event in Sta1:
// there is no association yet, so nothing to abort.
var actIgnore = &action{"ignore", func(h Hooks, in Input) State {
	return Sta1
}}
