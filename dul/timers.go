package dul

import (
	"sync"
	"time"
)

// TimerSet arms the ARTIM, DIMSE and network-inactivity timers and
// funnels their expirations
// back onto a single events channel as Input values, so the reactor
// loop never blocks on more than one source of truth.
type TimerSet struct {
	mu       sync.Mutex
	artim    *time.Timer
	dimse    *time.Timer
	network  *time.Timer
	events   chan<- Input
}

// NewTimerSet returns a TimerSet that posts expirations to events.
func NewTimerSet(events chan<- Input) *TimerSet {
	return &TimerSet{events: events}
}

func (t *TimerSet) arm(slot **time.Timer, d time.Duration, ev Event) func() {
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if *slot != nil {
			(*slot).Stop()
		}
		*slot = time.AfterFunc(d, func() {
			t.events <- Input{Event: ev}
		})
	}
}

func (t *TimerSet) disarm(slot **time.Timer) func() {
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if *slot != nil {
			(*slot).Stop()
			*slot = nil
		}
	}
}

// StartARTIM / StopARTIM manage the ACSE reject/release timer
// (spec.md §4.3).
func (t *TimerSet) StartARTIM(d time.Duration) { t.arm(&t.artim, d, EvtARTIMTimeout)() }
func (t *TimerSet) StopARTIM()                 { t.disarm(&t.artim)() }

// StartDIMSE / StopDIMSE bound a single outstanding DIMSE request.
// Expiration is surfaced as an abort request, per spec.md §5's "DIMSE
// timer expiry aborts the association" default.
func (t *TimerSet) StartDIMSE(d time.Duration) { t.arm(&t.dimse, d, EvtAbortRequest)() }
func (t *TimerSet) StopDIMSE()                 { t.disarm(&t.dimse)() }

// StartNetwork / StopNetwork bound inactivity once an association is
// established; the reactor decides abort vs. release on expiry per
// config.NetworkTimeoutResponse.
func (t *TimerSet) StartNetwork(d time.Duration) { t.arm(&t.network, d, EvtNetworkTimeout)() }
func (t *TimerSet) StopNetwork()                 { t.disarm(&t.network)() }

// StopAll disarms every timer, e.g. on transport close.
func (t *TimerSet) StopAll() {
	t.StopARTIM()
	t.StopDIMSE()
	t.StopNetwork()
}
