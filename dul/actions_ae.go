package dul

// Association establishment actions, DICOM PS3.8 Table 9-10 AE-1..AE-8.

var actAE1 = &action{"AE-1", func(h Hooks, in Input) State {
	// Issue TRANSPORT CONNECT request primitive to local transport
	// service; the requestor side moves to Sta4 and waits for the
	// connection to complete asynchronously.
	if h.Connect != nil {
		if err := h.Connect(); err != nil {
			if h.Deliver != nil {
				h.Deliver(Indication{Kind: IndicationAbort, Err: err})
			}
			return Sta1
		}
	}
	return Sta4
}}

var actAE2 = &action{"AE-2", func(h Hooks, in Input) State {
	// Connection established on the requestor side: send A-ASSOCIATE-RQ.
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	return Sta5
}}

var actAE3 = &action{"AE-3", func(h Hooks, in Input) State {
	// A-ASSOCIATE-AC received: issue A-ASSOCIATE confirmation (accept).
	if h.StopARTIM != nil {
		h.StopARTIM()
	}
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationAssociateAccept, PDU: in.PDU})
	}
	if h.StartNetwork != nil {
		h.StartNetwork()
	}
	return Sta6
}}

var actAE4 = &action{"AE-4", func(h Hooks, in Input) State {
	// A-ASSOCIATE-RJ received: issue A-ASSOCIATE confirmation (reject)
	// and close the transport connection.
	if h.StopARTIM != nil {
		h.StopARTIM()
	}
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationAssociateReject, PDU: in.PDU})
	}
	if h.CloseTransport != nil {
		h.CloseTransport()
	}
	return Sta1
}}

var actAE5 = &action{"AE-5", func(h Hooks, in Input) State {
	// Transport connection accepted (acceptor side): start ARTIM timer
	// and await the peer's A-ASSOCIATE-RQ.
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	return Sta2
}}

var actAE6Accept = &action{"AE-6", func(h Hooks, in Input) State {
	// A-ASSOCIATE-RQ received and acceptable to the service user: stop
	// ARTIM, issue the A-ASSOCIATE indication and await the local
	// accept/reject decision.
	if h.StopARTIM != nil {
		h.StopARTIM()
	}
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationAssociateRequest, PDU: in.PDU})
	}
	return Sta3
}}

var actAE7 = &action{"AE-7", func(h Hooks, in Input) State {
	// Send A-ASSOCIATE-AC PDU and issue the local A-ASSOCIATE
	// confirmation (accept), mirroring AE-3 on the requestor side.
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationAssociateAccept, PDU: in.PDU})
	}
	if h.StartNetwork != nil {
		h.StartNetwork()
	}
	return Sta6
}}

var actAE8 = &action{"AE-8", func(h Hooks, in Input) State {
	// Send A-ASSOCIATE-RJ PDU and start ARTIM timer.
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.StartARTIM != nil {
		h.StartARTIM()
	}
	return Sta13
}}
