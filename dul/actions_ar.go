package dul

// Association release actions, DICOM PS3.8 Table 9-10 AR-1..AR-10,
// including the release-collision branch (Sta9..Sta12) for the case
// where both peers issue A-RELEASE-RQ before either sees the other's.

var actAR1 = &action{"AR-1", func(h Hooks, in Input) State {
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.StopNetwork != nil {
		h.StopNetwork() // leaving Sta6: no longer tracking idle traffic.
	}
	return Sta7
}}

var actAR2 = &action{"AR-2", func(h Hooks, in Input) State {
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationReleaseRequest, PDU: in.PDU})
	}
	if h.StopNetwork != nil {
		h.StopNetwork()
	}
	return Sta8
}}

var actAR3 = &action{"AR-3", func(h Hooks, in Input) State {
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationReleaseConfirm, PDU: in.PDU})
	}
	if h.CloseTransport != nil {
		h.CloseTransport()
	}
	return Sta1
}}

var actAR4 = &action{"AR-4", func(h Hooks, in Input) State {
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	return Sta13
}}

var actAR5 = &action{"AR-5", func(h Hooks, in Input) State {
	if h.StopARTIM != nil {
		h.StopARTIM()
	}
	return Sta1
}}

var actAR7 = &action{"AR-7", func(h Hooks, in Input) State {
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	return Sta8
}}

var actAR8 = &action{"AR-8", func(h Hooks, in Input) State {
	// Release collision: the peer's RQ arrived while we were already
	// waiting on our own (Sta7). Deliver it to the association layer as
	// a release indication and move to Sta9; this action does not tell
	// requestor from acceptor, so it never moves to Sta10.
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationReleaseRequest, PDU: in.PDU})
	}
	return Sta9
}}

var actAR9 = &action{"AR-9", func(h Hooks, in Input) State {
	// Requestor side collision resolved locally: await the peer's RP.
	return Sta11
}}

var actAR10 = &action{"AR-10", func(h Hooks, in Input) State {
	// Acceptor side collision: peer's RP arrived; await the local
	// response before sending our own RP.
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationReleaseConfirm, PDU: in.PDU})
	}
	return Sta12
}}
