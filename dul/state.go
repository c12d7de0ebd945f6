// Package dul implements the DICOM Upper Layer's 13-state association
// control finite state machine (DICOM PS3.8 §9.2). The state table is a
// pure function of (State, Event) -> (Action, State); all socket and
// timer I/O lives behind the Hooks callbacks (action.go) so the table
// itself can be driven and tested without a real connection.
package dul

import "fmt"

// State is one of the 13 states of DICOM PS3.8 Table 9-10.
type State int

const (
	Sta1 State = iota + 1
	Sta2
	Sta3
	Sta4
	Sta5
	Sta6
	Sta7
	Sta8
	Sta9
	Sta10
	Sta11
	Sta12
	Sta13
)

var stateNames = map[State]string{
	Sta1:  "Sta1(Idle)",
	Sta2:  "Sta2(transport open, awaiting A-ASSOCIATE-RQ)",
	Sta3:  "Sta3(awaiting local A-ASSOCIATE response)",
	Sta4:  "Sta4(awaiting transport connection to open)",
	Sta5:  "Sta5(awaiting A-ASSOCIATE-AC or -RJ)",
	Sta6:  "Sta6(association established, ready for data transfer)",
	Sta7:  "Sta7(awaiting A-RELEASE-RP)",
	Sta8:  "Sta8(awaiting local A-RELEASE response)",
	Sta9:  "Sta9(release collision, requestor side, awaiting local response)",
	Sta10: "Sta10(release collision, acceptor side, awaiting A-RELEASE-RP)",
	Sta11: "Sta11(release collision, requestor side, awaiting A-RELEASE-RP)",
	Sta12: "Sta12(release collision, acceptor side, awaiting local response)",
	Sta13: "Sta13(awaiting transport close)",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event is one of the 19 events of DICOM PS3.8 Table 9-10.
type Event int

const (
	EvtAssociateRequest Event = iota + 1 // evt01: local A-ASSOCIATE request primitive
	EvtTransportConnected                // evt02: transport connect confirm (requestor side)
	EvtAAssociateAC                      // evt03: A-ASSOCIATE-AC received
	EvtAAssociateRJ                      // evt04: A-ASSOCIATE-RJ received
	EvtTransportAccepted                 // evt05: transport connection accepted (acceptor side)
	EvtAAssociateRQ                      // evt06: A-ASSOCIATE-RQ received
	EvtAssociateAccept                   // evt07: local A-ASSOCIATE response primitive (accept)
	EvtAssociateReject                   // evt08: local A-ASSOCIATE response primitive (reject)
	EvtPDataRequest                      // evt09: local P-DATA request primitive
	EvtPDataTF                           // evt10: P-DATA-TF received
	EvtReleaseRequest                    // evt11: local A-RELEASE request primitive
	EvtAReleaseRQ                        // evt12: A-RELEASE-RQ received
	EvtAReleaseRP                        // evt13: A-RELEASE-RP received
	EvtReleaseResponse                   // evt14: local A-RELEASE response primitive
	EvtAbortRequest                      // evt15: local A-ABORT request primitive
	EvtAAbort                            // evt16: A-ABORT received
	EvtTransportClosed                   // evt17: transport connection closed
	EvtARTIMTimeout                      // evt18: ARTIM timer expired
	EvtInvalidPDU                        // evt19: unrecognized or invalid PDU received

	// EvtNetworkTimeout is not one of PS3.8's 19 table events: it's an
	// engine-level signal that the network inactivity timer (spec.md §5)
	// expired while established. The reactor resolves it to a local
	// release or abort request per config.NetworkTimeoutResponse before
	// it ever reaches the state table, so it never appears as a key in
	// the transitions map.
	EvtNetworkTimeout
)

var eventNames = map[Event]string{
	EvtAssociateRequest:   "evt01(A-ASSOCIATE request)",
	EvtTransportConnected: "evt02(transport connected)",
	EvtAAssociateAC:       "evt03(A-ASSOCIATE-AC)",
	EvtAAssociateRJ:       "evt04(A-ASSOCIATE-RJ)",
	EvtTransportAccepted:  "evt05(transport accepted)",
	EvtAAssociateRQ:       "evt06(A-ASSOCIATE-RQ)",
	EvtAssociateAccept:    "evt07(A-ASSOCIATE accept)",
	EvtAssociateReject:    "evt08(A-ASSOCIATE reject)",
	EvtPDataRequest:       "evt09(P-DATA request)",
	EvtPDataTF:            "evt10(P-DATA-TF)",
	EvtReleaseRequest:     "evt11(A-RELEASE request)",
	EvtAReleaseRQ:         "evt12(A-RELEASE-RQ)",
	EvtAReleaseRP:         "evt13(A-RELEASE-RP)",
	EvtReleaseResponse:    "evt14(A-RELEASE response)",
	EvtAbortRequest:       "evt15(A-ABORT request)",
	EvtAAbort:             "evt16(A-ABORT)",
	EvtTransportClosed:    "evt17(transport closed)",
	EvtARTIMTimeout:       "evt18(ARTIM timeout)",
	EvtInvalidPDU:         "evt19(invalid PDU)",
	EvtNetworkTimeout:     "network-timeout(engine)",
}

func (e Event) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("Event(%d)", int(e))
}
