// Package eventbus implements the two handler models spec.md §2 and §5
// name for the layer above DIMSE: a notification bus (any number of
// subscribers, exceptions logged and swallowed) and an intervention
// registry (exactly one handler per event, its return value feeding
// directly back into the DIMSE response).
package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/dulerr"
)

// NotificationKind enumerates the events multiple subscribers may
// observe. These are informational: nothing downstream waits on a
// subscriber's return value.
type NotificationKind int

const (
	NotifyAssociationEstablished NotificationKind = iota
	NotifyAssociationReleased
	NotifyAssociationAborted
	NotifyDIMSESent
	NotifyDIMSEReceived
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyAssociationEstablished:
		return "association-established"
	case NotifyAssociationReleased:
		return "association-released"
	case NotifyAssociationAborted:
		return "association-aborted"
	case NotifyDIMSESent:
		return "dimse-sent"
	case NotifyDIMSEReceived:
		return "dimse-received"
	default:
		return fmt.Sprintf("notification(%d)", int(k))
	}
}

// NotificationEvent is the payload passed to every subscriber of Kind.
type NotificationEvent struct {
	Kind        NotificationKind
	AssociationLabel string
	Err         error
	Detail      interface{}
}

// Subscriber observes one NotificationEvent. A non-nil return value is
// logged at Warn and otherwise ignored: a misbehaving subscriber never
// affects the association (spec.md §4.5 "exceptions logged and
// swallowed").
type Subscriber func(context.Context, NotificationEvent) error

// NotificationBus fans one event out to every subscriber registered for
// its kind.
type NotificationBus struct {
	mu   sync.RWMutex
	subs map[NotificationKind][]Subscriber
	log  zerolog.Logger
}

// NewNotificationBus returns an empty bus logging swallowed subscriber
// errors through log.
func NewNotificationBus(log zerolog.Logger) *NotificationBus {
	return &NotificationBus{subs: make(map[NotificationKind][]Subscriber), log: log}
}

// Subscribe registers fn for kind. Order of delivery among subscribers
// of the same kind matches registration order.
func (b *NotificationBus) Subscribe(kind NotificationKind, fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], fn)
}

// Publish delivers ev to every subscriber of ev.Kind in turn. A
// subscriber error is logged and does not stop delivery to the rest.
func (b *NotificationBus) Publish(ctx context.Context, ev NotificationEvent) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subs[ev.Kind]...)
	b.mu.RUnlock()
	for _, fn := range subs {
		if err := fn(ctx, ev); err != nil {
			b.log.Warn().Err(err).Stringer("event", ev.Kind).Str("assoc", ev.AssociationLabel).
				Msg("eventbus: notification subscriber failed")
		}
	}
}

// InterventionKind enumerates the events that accept exactly one
// handler (spec.md §4.5 "exactly one handler per intervention event").
type InterventionKind int

const (
	InterventionCEcho InterventionKind = iota
	InterventionCStore
	InterventionCFind
	InterventionCGet
	InterventionCMove
	InterventionNEventReport
	InterventionNGet
	InterventionNSet
	InterventionNAction
	InterventionNCreate
	InterventionNDelete
	// InterventionUserIdentity, InterventionSOPClassExtended,
	// InterventionSOPClassCommonExtended and InterventionAsyncOpsWindow
	// are the four extended-negotiation hooks spec.md §4.5 and
	// SPEC_FULL.md's SUPPLEMENTED FEATURES section name; all four carry
	// opaque request/response blobs the engine never interprets.
	InterventionUserIdentity
	InterventionSOPClassExtended
	InterventionSOPClassCommonExtended
	InterventionAsyncOpsWindow
)

func (k InterventionKind) String() string {
	switch k {
	case InterventionCEcho:
		return "c-echo"
	case InterventionCStore:
		return "c-store"
	case InterventionCFind:
		return "c-find"
	case InterventionCGet:
		return "c-get"
	case InterventionCMove:
		return "c-move"
	case InterventionNEventReport:
		return "n-event-report"
	case InterventionNGet:
		return "n-get"
	case InterventionNSet:
		return "n-set"
	case InterventionNAction:
		return "n-action"
	case InterventionNCreate:
		return "n-create"
	case InterventionNDelete:
		return "n-delete"
	case InterventionUserIdentity:
		return "user-identity"
	case InterventionSOPClassExtended:
		return "sop-class-extended"
	case InterventionSOPClassCommonExtended:
		return "sop-class-common-extended"
	case InterventionAsyncOpsWindow:
		return "async-ops-window"
	default:
		return fmt.Sprintf("intervention(%d)", int(k))
	}
}

// Handler answers one intervention event. req and the returned resp are
// event-specific shapes (e.g. *CStoreRequest/*CStoreResponse); the
// caller type-asserts both sides, matching spec.md §9's "handler trait
// per intervention event" redesign. A panic inside fn is recovered by
// Registry.Invoke and reported as a *dulerr.HandlerFailure, never torn
// down into the association.
type Handler func(ctx context.Context, req interface{}) (resp interface{}, err error)

// Registry holds at most one Handler per InterventionKind. Registering a
// second handler for an already-bound kind replaces the first: the
// "single-slot" model names a cardinality of at most one live handler at
// a time, not write-once semantics.
type Registry struct {
	mu       sync.RWMutex
	handlers map[InterventionKind]Handler
}

// NewRegistry returns an empty intervention registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[InterventionKind]Handler)}
}

// Bind registers fn as the handler for kind.
func (r *Registry) Bind(kind InterventionKind, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// Bound reports whether kind has a registered handler.
func (r *Registry) Bound(kind InterventionKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[kind]
	return ok
}

// Invoke runs the handler bound to kind with req. If no handler is
// bound, or the handler panics, the call returns a *dulerr.HandlerFailure
// instead of propagating a panic up through the reactor (spec.md §4.5:
// "an uncaught handler error is caught and reported as a service-
// specific failure status ... without tearing down the association").
func (r *Registry) Invoke(ctx context.Context, kind InterventionKind, req interface{}) (resp interface{}, err error) {
	r.mu.RLock()
	fn, ok := r.handlers[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, &dulerr.HandlerFailure{Event: kind.String(), Err: fmt.Errorf("no handler bound for %s", kind)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &dulerr.HandlerFailure{Event: kind.String(), Err: fmt.Errorf("handler panicked: %v", rec)}
			resp = nil
		}
	}()

	resp, err = fn(ctx, req)
	if err != nil {
		return nil, &dulerr.HandlerFailure{Event: kind.String(), Err: err}
	}
	return resp, nil
}
