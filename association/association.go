// Package association implements the top-level Association type spec.md
// §3 describes: the runtime entity wiring L1 (transport) through L5
// (DIMSE) together behind one reactor task per association (spec.md
// §5). Callers drive it through Associate (requestor side) or Accept
// (acceptor side), then Send/Recv DIMSE messages by presentation
// context, and finally Release or Abort.
package association

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/acse"
	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/config"
	"github.com/dulengine/dul/dimse"
	"github.com/dulengine/dul/dul"
	"github.com/dulengine/dul/dulerr"
	"github.com/dulengine/dul/eventbus"
	"github.com/dulengine/dul/pdu"
	"github.com/dulengine/dul/pdu/item"
	"github.com/dulengine/dul/transport"
)

// Role distinguishes which side of the association this process plays.
type Role int

const (
	RoleRequestor Role = iota
	RoleAcceptor
)

func (r Role) String() string {
	if r == RoleAcceptor {
		return "acceptor"
	}
	return "requestor"
}

// Lifecycle mirrors spec.md §3's "idle -> requesting -> established ->
// releasing -> closed, or idle -> aborted".
type Lifecycle int

const (
	LifecycleIdle Lifecycle = iota
	LifecycleRequesting
	LifecycleEstablished
	LifecycleReleasing
	LifecycleClosed
	LifecycleAborted
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleIdle:
		return "idle"
	case LifecycleRequesting:
		return "requesting"
	case LifecycleEstablished:
		return "established"
	case LifecycleReleasing:
		return "releasing"
	case LifecycleClosed:
		return "closed"
	case LifecycleAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// inboundMessage is one fully reassembled DIMSE message waiting in a
// per-context queue for RecvDIMSE.
type inboundMessage struct {
	msg     dimse.Message
	dataset []byte
	err     error
}

// Association is the top-level runtime entity spec.md §3 names. It owns
// the socket and every timer for one association; it is destroyed once
// both peers have released it or an abort sequence has completed.
type Association struct {
	Label string
	Role  Role
	Cfg   config.Config

	CallingAET aetitle.AET
	CalledAET  aetitle.AET

	Notify   *eventbus.NotificationBus
	Handlers *eventbus.Registry

	machine    *dul.Machine
	negotiator *acse.Negotiator
	timers     *dul.TimerSet
	events     chan dul.Input
	log        zerolog.Logger
	closeConn  func()

	mu        sync.Mutex
	lifecycle Lifecycle
	contexts  map[byte]*acse.PresentationContext

	assemblers map[byte]*dimse.CommandAssembler
	inboxes    map[byte]chan inboundMessage
	rqCh       chan *pdu.AAssociate

	establishedCh chan error // fired once with the establishment outcome
	releasedCh    chan error
	abortedCh     chan error

	nextMessageID uint16

	closeOnce sync.Once
	doneCh    chan struct{}
}

func newAssociation(role Role, cfg config.Config, label string) *Association {
	a := &Association{
		Label:         label,
		Role:          role,
		Cfg:           cfg,
		Notify:        eventbus.NewNotificationBus(cfg.Logger),
		Handlers:      eventbus.NewRegistry(),
		negotiator:    acse.NewNegotiator(),
		events:        make(chan dul.Input, 16),
		log:           cfg.Logger.With().Str("assoc", label).Str("role", role.String()).Logger(),
		contexts:      make(map[byte]*acse.PresentationContext),
		assemblers:    make(map[byte]*dimse.CommandAssembler),
		inboxes:       make(map[byte]chan inboundMessage),
		rqCh:          make(chan *pdu.AAssociate, 1),
		establishedCh: make(chan error, 1),
		releasedCh:    make(chan error, 1),
		abortedCh:     make(chan error, 1),
		doneCh:        make(chan struct{}),
	}
	a.timers = dul.NewTimerSet(a.events)
	return a
}

// RequestorParams configures Associate.
type RequestorParams struct {
	CallingAET       aetitle.AET
	CalledAET        aetitle.AET
	ProposedContexts []acse.ProposedContext
}

// Associate opens addr, sends an A-ASSOCIATE-RQ built from params, and
// blocks until the acceptor responds (AC, RJ) or the attempt fails
// (spec.md §4.3 "Requestor path"). On success the returned Association
// is in Sta6 / LifecycleEstablished and ready for SendDIMSE/RecvDIMSE.
func Associate(ctx context.Context, addr string, params RequestorParams, cfg config.Config) (*Association, error) {
	label := fmt.Sprintf("%s->%s", params.CallingAET, params.CalledAET)
	a := newAssociation(RoleRequestor, cfg, label)
	a.CallingAET = params.CallingAET
	a.CalledAET = params.CalledAET
	a.lifecycle = LifecycleRequesting

	dialCtx := ctx
	var cancel context.CancelFunc
	if cfg.ConnectionTimeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, cfg.ConnectionTimeout)
		defer cancel()
	}
	conn, err := transport.Connect(dialCtx, addr, transport.DialOptions{Timeout: cfg.ConnectionTimeout})
	if err != nil {
		return nil, err
	}

	a.closeConn = func() { _ = conn.Close() }
	a.machine = dul.NewMachine(label, dul.Hooks{
		Send:           dul.SendFunc(conn),
		StartARTIM:     func() { a.timers.StartARTIM(cfg.ARTIMTimeout) },
		StopARTIM:      a.timers.StopARTIM,
		StartNetwork:   func() { a.timers.StartNetwork(cfg.NetworkTimeout) },
		StopNetwork:    a.timers.StopNetwork,
		CloseTransport: a.closeConn,
		Deliver:        a.handleIndication,
	})

	go dul.ReadLoop(conn, cfg.MaxPDUSize, a.events, a.log)
	go a.run()

	rqItems := a.negotiator.BuildAssociateRQItems(params.ProposedContexts, cfg.MaxPDUSize)
	rq := &pdu.AAssociate{
		Type:            pdu.TypeAAssociateRQ,
		ProtocolVersion: pdu.CurrentProtocolVersion,
		CalledAETitle:   params.CalledAET,
		CallingAETitle:  params.CallingAET,
		Items:           rqItems,
	}

	a.events <- dul.Input{Event: dul.EvtAssociateRequest}
	a.events <- dul.Input{Event: dul.EvtTransportConnected, PDU: rq}

	select {
	case err := <-a.establishedCh:
		if err != nil {
			return nil, err
		}
		return a, nil
	case <-ctx.Done():
		a.Abort()
		return nil, ctx.Err()
	}
}

// AcceptorParams configures Accept.
type AcceptorParams struct {
	CalledAET aetitle.AET
	// Supported maps an abstract syntax UID to the transfer syntax UIDs
	// this process accepts for it, in preference order (spec.md §4.4
	// step 2: "preserving the acceptor's order").
	Supported map[string][]string
	// SupportedRoles declares, per abstract syntax, which SCU/SCP roles
	// this process can perform locally. A proposed role the requestor
	// offers is granted only to the extent SupportedRoles allows it
	// (spec.md §3, §4.4 scenario 4; DICOM PS3.7 Annex D.3.3.4). Abstract
	// syntaxes absent from this map get no role-selection response,
	// leaving the conventional requestor-is-SCU assignment in place.
	SupportedRoles map[string]acse.RoleSupport
}

// Accept drives the acceptor side of one already-accepted connection
// (spec.md §4.3 "Acceptor path"): it waits for the peer's
// A-ASSOCIATE-RQ, negotiates every proposed context against
// params.Supported, and accepts (sending AC) when at least one context
// is usable, or rejects (sending RJ, per spec.md §3's invariant "an
// established association has at least one accepted context").
func Accept(ctx context.Context, conn net.Conn, params AcceptorParams, cfg config.Config) (*Association, error) {
	a := newAssociation(RoleAcceptor, cfg, fmt.Sprintf("accept:%s", params.CalledAET))
	a.CalledAET = params.CalledAET

	a.closeConn = func() { _ = conn.Close() }
	a.machine = dul.NewMachine(a.Label, dul.Hooks{
		Send:           dul.SendFunc(conn),
		StartARTIM:     func() { a.timers.StartARTIM(cfg.ARTIMTimeout) },
		StopARTIM:      a.timers.StopARTIM,
		StartNetwork:   func() { a.timers.StartNetwork(cfg.NetworkTimeout) },
		StopNetwork:    a.timers.StopNetwork,
		CloseTransport: a.closeConn,
		Deliver:        a.handleIndication,
	})

	go dul.ReadLoop(conn, cfg.MaxPDUSize, a.events, a.log)
	go a.run()

	a.events <- dul.Input{Event: dul.EvtTransportAccepted}

	select {
	case rq := <-a.rqCh:
		return a.negotiateAndRespond(rq, params, cfg)
	case err := <-a.abortedCh:
		return nil, err
	case <-ctx.Done():
		a.Abort()
		return nil, ctx.Err()
	}
}

func (a *Association) negotiateAndRespond(rq *pdu.AAssociate, params AcceptorParams, cfg config.Config) (*Association, error) {
	a.CallingAET = rq.CallingAETitle

	responseItems, err := a.negotiator.OnAssociateRequest(rq.Items, params.Supported, params.SupportedRoles, cfg.MaxPDUSize)
	if err != nil {
		rj := &pdu.AAssociateRJ{Result: pdu.RejectResultPermanent, Source: pdu.RejectSourceServiceProviderACSE, Reason: pdu.RejectReasonNoReasonGiven}
		// AE-8 only sends the RJ and arms ARTIM; it never calls Deliver,
		// so there is nothing to wait on here. The reactor's job ends
		// with this association, so tear it down directly rather than
		// waiting out ARTIM for a peer-initiated close that may not come.
		a.events <- dul.Input{Event: dul.EvtAssociateReject, PDU: rj}
		a.closeConn()
		a.close()
		return nil, &dulerr.NegotiationRejected{Result: byte(rj.Result), Source: byte(rj.Source), Reason: byte(rj.Reason)}
	}

	accepted := false
	for _, it := range responseItems {
		if pc, ok := it.(*item.PresentationContextItem); ok && pc.Type == item.TypePresentationContextResponse && pc.Result == item.ResultAcceptance {
			accepted = true
		}
	}
	if !accepted {
		rj := &pdu.AAssociateRJ{Result: pdu.RejectResultPermanent, Source: pdu.RejectSourceServiceUser, Reason: pdu.RejectReasonNoReasonGiven}
		a.events <- dul.Input{Event: dul.EvtAssociateReject, PDU: rj}
		a.closeConn()
		a.close()
		return nil, &dulerr.NegotiationRejected{Result: byte(rj.Result), Source: byte(rj.Source), Reason: byte(rj.Reason)}
	}

	a.mu.Lock()
	for id, pc := range a.negotiator.AllContexts() {
		a.contexts[id] = pc
		a.ensureInboxLocked(id)
	}
	a.mu.Unlock()

	ac := &pdu.AAssociate{
		Type:            pdu.TypeAAssociateAC,
		ProtocolVersion: pdu.CurrentProtocolVersion,
		CalledAETitle:   rq.CalledAETitle,
		CallingAETitle:  rq.CallingAETitle,
		Items:           responseItems,
	}
	a.events <- dul.Input{Event: dul.EvtAssociateAccept, PDU: ac}

	select {
	case err := <-a.establishedCh:
		if err != nil {
			return nil, err
		}
	case <-time.After(cfg.ACSETimeout):
		return nil, &dulerr.TimeoutExpired{Class: dulerr.TimerARTIM}
	}
	return a, nil
}

// ensureInboxLocked returns (allocating if needed) the inbound queue for
// contextID. Callers must hold a.mu.
func (a *Association) ensureInboxLocked(contextID byte) chan inboundMessage {
	if ch, ok := a.inboxes[contextID]; ok {
		return ch
	}
	ch := make(chan inboundMessage, 64)
	a.inboxes[contextID] = ch
	return ch
}

// handleIndication is the Hooks.Deliver callback. It runs on the
// reactor's Step call; it only ever enqueues work or sends on buffered/
// one-shot channels, never re-enters the Machine, so Step's own state
// commit is never interleaved with a second Step call (spec.md §5: "FSM
// transitions are totally ordered").
func (a *Association) handleIndication(ind dul.Indication) {
	switch ind.Kind {
	case dul.IndicationAssociateRequest:
		rq, _ := ind.PDU.(*pdu.AAssociate)
		select {
		case a.rqCh <- rq:
		default:
		}
	case dul.IndicationAssociateAccept:
		a.mu.Lock()
		a.lifecycle = LifecycleEstablished
		if ac, ok := ind.PDU.(*pdu.AAssociate); ok && a.Role == RoleRequestor {
			_ = a.negotiator.OnAssociateResponse(ac.Items)
			for id, pc := range a.negotiator.AllContexts() {
				a.contexts[id] = pc
				a.ensureInboxLocked(id)
			}
		}
		a.mu.Unlock()
		select {
		case a.establishedCh <- nil:
		default:
		}
		a.Notify.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyAssociationEstablished, AssociationLabel: a.Label})
	case dul.IndicationAssociateReject:
		rj, _ := ind.PDU.(*pdu.AAssociateRJ)
		var err error
		if rj != nil {
			err = &dulerr.NegotiationRejected{Result: byte(rj.Result), Source: byte(rj.Source), Reason: byte(rj.Reason)}
		} else {
			err = dulerr.ErrNegotiationRejected
		}
		select {
		case a.establishedCh <- err:
		default:
		}
	case dul.IndicationDataTransfer:
		if pdataTF, ok := ind.PDU.(*pdu.PDataTF); ok {
			a.onPDataTF(pdataTF)
		}
	case dul.IndicationReleaseRequest:
		// The peer asked to release; respond immediately. AR-8 delivers
		// this same indication on a release collision (Sta7 -> Sta9), and
		// the response posted here then moves the FSM on to Sta11 (AR-9).
		a.mu.Lock()
		a.lifecycle = LifecycleReleasing
		a.mu.Unlock()
		a.events <- dul.Input{Event: dul.EvtReleaseResponse, PDU: &pdu.AReleaseRP{}}
	case dul.IndicationReleaseConfirm:
		a.mu.Lock()
		a.lifecycle = LifecycleClosed
		a.mu.Unlock()
		select {
		case a.releasedCh <- nil:
		default:
		}
		a.Notify.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyAssociationReleased, AssociationLabel: a.Label})
		a.close()
	case dul.IndicationAbort, dul.IndicationTransportClosed:
		a.mu.Lock()
		a.lifecycle = LifecycleAborted
		a.mu.Unlock()
		err := ind.Err
		if err == nil {
			err = &dulerr.Aborted{Local: false}
		}
		select {
		case a.establishedCh <- err:
		default:
		}
		select {
		case a.releasedCh <- err:
		default:
		}
		select {
		case a.abortedCh <- err:
		default:
		}
		a.failInboxes(err)
		a.Notify.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyAssociationAborted, AssociationLabel: a.Label, Err: err})
		a.close()
	}
}

func (a *Association) failInboxes(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ch := range a.inboxes {
		select {
		case ch <- inboundMessage{err: err}:
		default:
		}
	}
}

// onPDataTF reassembles PDV fragments through the per-context
// CommandAssembler and, once a message is complete, queues it for
// RecvDIMSE.
func (a *Association) onPDataTF(p *pdu.PDataTF) {
	if len(p.Items) == 0 {
		return
	}
	contextID := p.Items[0].ContextID

	a.mu.Lock()
	asm, ok := a.assemblers[contextID]
	if !ok {
		asm = &dimse.CommandAssembler{}
		a.assemblers[contextID] = asm
	}
	inbox := a.ensureInboxLocked(contextID)
	a.mu.Unlock()

	_, msg, data, err := asm.AddDataPDU(p)
	if err != nil {
		a.log.Warn().Err(err).Msg("association: dropping malformed P-DATA-TF")
		return
	}
	if msg == nil {
		return
	}
	if isDIMSEResponse(msg.CommandField()) {
		a.timers.StopDIMSE() // the request we were waiting on just answered.
	}

	a.Notify.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyDIMSEReceived, AssociationLabel: a.Label, Detail: msg})

	select {
	case inbox <- inboundMessage{msg: msg, dataset: data}:
	default:
		a.log.Warn().Uint8("ctx", contextID).Msg("association: inbound DIMSE queue full, dropping message")
	}
}

// run is the one reactor task per association (spec.md §5): it owns the
// socket indirectly through Hooks and serialises every FSM transition.
// It never closes a.events itself: dul.ReadLoop always posts one final
// event on its way out (EvtTransportClosed or EvtInvalidPDU), and that
// send must never race a close of the channel it's sending on. doneCh
// is the only shutdown signal.
//
// Not every path back to Sta1 calls Hooks.Deliver first: AR-5 (the
// Sta13 -> Sta1 transition once the peer closes the transport after a
// release response) is silent by design, since the release itself was
// already logically complete when the RP was sent. Sta1 is otherwise
// always a terminal state for an association, so run treats reaching
// it as the general-purpose close signal rather than relying on every
// action to deliver one.
func (a *Association) run() {
	for {
		select {
		case in := <-a.events:
			if in.Event == dul.EvtNetworkTimeout {
				a.onNetworkTimeout()
				continue
			}
			if in.Event == dul.EvtAbortRequest {
				a.mu.Lock()
				a.lifecycle = LifecycleAborted
				a.mu.Unlock()
			}
			state, err := a.machine.Step(in)
			if err != nil {
				a.log.Warn().Err(err).Msg("association: FSM step failed")
			}
			if state == dul.Sta1 {
				a.close()
			}
		case <-a.doneCh:
			return
		}
	}
}

// onNetworkTimeout resolves an EvtNetworkTimeout into a local release or
// abort request per Cfg.NetworkTimeoutResponse (spec.md §5), feeding the
// result back through a.events so it runs through the FSM table exactly
// like any other locally generated primitive.
func (a *Association) onNetworkTimeout() {
	a.log.Warn().Dur("timeout", a.Cfg.NetworkTimeout).Msg("association: network inactivity timeout")
	if a.Cfg.NetworkTimeoutResponse == config.NetworkTimeoutRelease {
		a.mu.Lock()
		a.lifecycle = LifecycleReleasing
		a.mu.Unlock()
		a.events <- dul.Input{Event: dul.EvtReleaseRequest, PDU: &pdu.AReleaseRQ{}}
		return
	}
	a.events <- dul.Input{Event: dul.EvtAbortRequest}
}

// close tears down the reactor loop and the per-context queues exactly
// once, regardless of which path (release or abort) triggered it.
func (a *Association) close() {
	a.closeOnce.Do(func() {
		a.timers.StopAll()
		close(a.doneCh)
	})
}

// ContextByID returns the negotiated presentation context for id, or
// ok=false if none was accepted under that id (spec.md §3 "context
// closure").
func (a *Association) ContextByID(id byte) (*acse.PresentationContext, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pc, ok := a.contexts[id]
	return pc, ok
}

// NextMessageID returns a fresh 16-bit Message ID for an outgoing
// request, wrapping per the wire field's width.
func (a *Association) NextMessageID() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextMessageID++
	return a.nextMessageID
}

// pdvPayloadBudget is how much of a negotiated max PDU size is left for
// PDV value bytes once the P-DATA-TF PDU header (6 bytes) and one PDV
// item's own length+context+header fields (6 bytes) are subtracted.
func pdvPayloadBudget(maxPDUSize uint32) int {
	const overhead = 6 + 6
	if maxPDUSize == 0 || maxPDUSize <= overhead {
		return 16 * 1024
	}
	return int(maxPDUSize) - overhead
}

// fragmentPDVs splits payload into one or more PresentationDataValueItem
// fragments no larger than budget bytes each (DICOM PS3.8 §9.3.5,
// spec.md §5's PDV fragmentation). The final fragment's Last flag is
// always set, so the command half and the dataset half each end with
// their own Last fragment.
func fragmentPDVs(contextID byte, command bool, payload []byte, budget int) []*pdu.PresentationDataValueItem {
	if len(payload) == 0 {
		return []*pdu.PresentationDataValueItem{{ContextID: contextID, Command: command, Last: true}}
	}
	var out []*pdu.PresentationDataValueItem
	for off := 0; off < len(payload); off += budget {
		end := off + budget
		if end > len(payload) {
			end = len(payload)
		}
		out = append(out, &pdu.PresentationDataValueItem{
			ContextID: contextID,
			Command:   command,
			Value:     payload[off:end],
		})
	}
	out[len(out)-1].Last = true
	return out
}

// SendDIMSE encodes msg's command set (and dataset, if msg.HasData())
// and fragments them into one P-DATA-TF PDU per PDV, no larger than the
// peer's negotiated Maximum Length (spec.md §4.5 `send`). Command-half
// PDVs always precede dataset-half PDVs.
func (a *Association) SendDIMSE(contextID byte, msg dimse.Message, dataset []byte) error {
	pc, ok := a.ContextByID(contextID)
	if !ok || pc == nil {
		return &dulerr.UnsupportedContext{ContextID: contextID}
	}

	var commandBuf bytes.Buffer
	if err := dimse.EncodeMessage(&commandBuf, msg); err != nil {
		return fmt.Errorf("association: encoding DIMSE command: %w", err)
	}

	budget := pdvPayloadBudget(a.negotiator.PeerMaxPDUSize)
	hasDataset := msg.HasData() && len(dataset) > 0

	pdvs := fragmentPDVs(contextID, true, commandBuf.Bytes(), budget)
	if hasDataset {
		pdvs = append(pdvs, fragmentPDVs(contextID, false, dataset, budget)...)
	}

	for _, pdv := range pdvs {
		a.events <- dul.Input{Event: dul.EvtPDataRequest, PDU: &pdu.PDataTF{Items: []*pdu.PresentationDataValueItem{pdv}}}
	}

	// The DIMSE timer bounds one outstanding local request (spec.md §5):
	// sending a request arms it, sending a response (we were the one
	// asked) disarms it, since there's nothing further to wait for.
	if isDIMSEResponse(msg.CommandField()) {
		a.timers.StopDIMSE()
	} else {
		a.timers.StartDIMSE(a.Cfg.DIMSETimeout)
	}

	a.Notify.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyDIMSESent, AssociationLabel: a.Label, Detail: msg})
	return nil
}

// isDIMSEResponse reports whether cmd is a *-RSP command field: DIMSE
// response command fields always have the 0x8000 bit set over their
// matching request's value (DICOM PS3.7 §9.3, e.g. CommandFieldCStoreRq
// 0x0001 vs. CommandFieldCStoreRsp 0x8001).
func isDIMSEResponse(cmd uint16) bool {
	return cmd&0x8000 != 0
}

// RecvDIMSE blocks until a complete DIMSE message is reassembled on
// contextID or ctx is done (spec.md §4.5 `recv`).
func (a *Association) RecvDIMSE(ctx context.Context, contextID byte) (dimse.Message, []byte, error) {
	a.mu.Lock()
	inbox := a.ensureInboxLocked(contextID)
	a.mu.Unlock()

	select {
	case m := <-inbox:
		return m.msg, m.dataset, m.err
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// Cancel sends a C-CANCEL command for messageID on contextID (spec.md
// §4.5 `cancel`).
func (a *Association) Cancel(contextID byte, messageID dimse.MessageID) error {
	return a.SendDIMSE(contextID, &dimse.CCancelRq{
		MessageIDBeingRespondedTo: messageID,
		CommandDataSetType:        dimse.CommandDataSetTypeNull,
	}, nil)
}

// Release issues a local A-RELEASE request and waits for the peer's
// A-RELEASE-RP (spec.md §4.3 "Release").
func (a *Association) Release(ctx context.Context) error {
	a.mu.Lock()
	a.lifecycle = LifecycleReleasing
	a.mu.Unlock()
	a.events <- dul.Input{Event: dul.EvtReleaseRequest, PDU: &pdu.AReleaseRQ{}}
	select {
	case err := <-a.releasedCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort issues a local A-ABORT request (service-user source), usable
// safely from any goroutine at any lifecycle stage (spec.md §5:
// "Explicit association.abort() is always safe to call from any task").
func (a *Association) Abort() {
	select {
	case a.events <- dul.Input{Event: dul.EvtAbortRequest}:
	default:
	}
}

// Done returns a channel closed once the association's reactor has torn
// down, after a clean release or any abort path.
func (a *Association) Done() <-chan struct{} { return a.doneCh }

// Lifecycle reports the association's current coarse-grained state.
func (a *Association) Lifecycle() Lifecycle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lifecycle
}
