package dul

// Data transfer actions, DICOM PS3.8 Table 9-10 DT-1..DT-2.

var actDT1 = &action{"DT-1", func(h Hooks, in Input) State {
	// Send P-DATA-TF PDU carrying the fragments the association layer
	// already assembled for this P-DATA request.
	if in.PDU != nil && h.Send != nil {
		h.Send(in.PDU)
	}
	if h.StartNetwork != nil {
		h.StartNetwork() // traffic resets the inactivity timer.
	}
	return Sta6
}}

var actDT2 = &action{"DT-2", func(h Hooks, in Input) State {
	// P-DATA-TF received: issue a P-DATA indication. Reassembly across
	// PDV fragments happens one layer up (dimse.CommandAssembler); the
	// FSM only forwards the raw PDU.
	if h.Deliver != nil {
		h.Deliver(Indication{Kind: IndicationDataTransfer, PDU: in.PDU})
	}
	if h.StartNetwork != nil {
		h.StartNetwork()
	}
	return Sta6
}}
