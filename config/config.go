// Package config gathers the process-wide options the engine needs,
// replacing the "process-wide configuration mutables" pattern with an
// explicit struct and a blessed default constructor (see SPEC_FULL.md's
// AMBIENT STACK / DESIGN NOTES).
package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NetworkTimeoutResponse selects what the reactor does when the network
// (inactivity) timer expires on an established association.
type NetworkTimeoutResponse int

const (
	// NetworkTimeoutAbort issues an A-ABORT on inactivity timeout.
	NetworkTimeoutAbort NetworkTimeoutResponse = iota
	// NetworkTimeoutRelease issues a graceful A-RELEASE on inactivity timeout.
	NetworkTimeoutRelease
)

// UIDValidator and AETValidator are the plug-in extension points named in
// spec.md §6. Returning a non-nil error rejects the value.
type UIDValidator func(uid string) error
type AETValidator func(aet string) error

// TextCodec lets a caller override how PDU text fields (AE titles,
// implementation version names, user identity strings) are decoded from
// and encoded to bytes, e.g. to support non-ASCII deployments.
type TextCodec interface {
	Encode(s string) []byte
	Decode(b []byte) string
}

// defaultTextCodec implements TextCodec using plain ASCII, per the wire
// format spec.md §3 describes for AE titles.
type defaultTextCodec struct{}

func (defaultTextCodec) Encode(s string) []byte { return []byte(s) }
func (defaultTextCodec) Decode(b []byte) string { return string(b) }

// Config bundles every individually-overridable option from spec.md §6
// plus the four timeout classes of §5. Construct one with Default() and
// override only the fields that matter to the caller; the zero value of
// most fields is not meaningful on its own.
//
// The packages of this module read only the timeout fields,
// NetworkTimeoutResponse, MaxPDUSize and Logger. The option fields from
// EnforceUIDConformance through PropagateContext are stored with their
// defaults but are not consulted anywhere, so setting them changes no
// engine behaviour.
type Config struct {
	// EnforceUIDConformance toggles strict vs. lenient UID validation
	// (length, charset) when building or parsing presentation contexts.
	EnforceUIDConformance bool

	// ShortAETHandling, when true, rejects AE titles that round-trip to
	// the empty string after trimming trailing spaces; when false, an
	// empty AE title is tolerated on ingest (some peers send all-space
	// titles for anonymous requestors).
	ShortAETHandling bool

	// LongAETInDIMSE allows AE-title-shaped values longer than 16 chars
	// to pass through DIMSE string elements (some PACS systems embed
	// longer identifiers in Move Destination, etc.) instead of
	// truncating them to the AE title wire width.
	LongAETInDIMSE bool

	// LogRequestIdentifiers and LogResponseIdentifiers control whether
	// C-FIND/C-GET/C-MOVE identifiers are rendered into the log stream
	// (they can be large and contain patient-identifying data).
	LogRequestIdentifiers  bool
	LogResponseIdentifiers bool

	// ChunkedTransfer enables streaming dataset receive/send instead of
	// buffering a whole dataset in memory before handing it to the
	// handler (spec.md §4.5 "dataset may be delivered as a streaming
	// reader when the caller opts into chunked receive").
	ChunkedTransfer bool

	// UnrestrictedStorage, when true, puts a storage SCP in the
	// "DECODE_STORE_DATASETS=false" mode from spec.md §9 Open Question
	// (iii): raw P-DATA bytes are passed to the C-STORE handler without
	// VR validation, trading conformance checking for throughput.
	UnrestrictedStorage bool

	// ValidateUID and ValidateAET are optional plug-ins; nil means no
	// extra validation beyond the engine's own wire-format checks.
	ValidateUID UIDValidator
	ValidateAET AETValidator

	// TextCodec controls PDU text field encoding; defaults to ASCII.
	TextCodec TextCodec

	// TimerResolution is the minimum granularity timers are armed with.
	// On Windows the OS timer tick historically forced callers to widen
	// this; kept configurable for parity with that deployment target.
	TimerResolution time.Duration

	// PropagateContext, when true, threads a context.Context obtained
	// from the caller's Associate()/Accept() call through every
	// downstream handler invocation instead of using context.Background().
	PropagateContext bool

	// ConnectionTimeout bounds Sta4 (TCP connect).
	ConnectionTimeout time.Duration
	// ACSETimeout bounds Accept's wait for the association to be
	// established once the A-ASSOCIATE-AC is queued; Associate and
	// Release do not use it.
	ACSETimeout time.Duration
	// DIMSETimeout bounds a single outstanding DIMSE request.
	DIMSETimeout time.Duration
	// NetworkTimeout is the inactivity timeout once established.
	NetworkTimeout time.Duration
	// NetworkTimeoutResponse selects abort vs. release on NetworkTimeout.
	NetworkTimeoutResponse NetworkTimeoutResponse

	// ARTIMTimeout is the ACSE-release timer default (spec.md §4.3).
	ARTIMTimeout time.Duration

	// MaxPDUSize guards the maximum incoming PDU length the transport
	// layer will accept before the declared length is even trusted
	// (spec.md §4.1's "maximum-incoming-PDU guard"), independent of the
	// negotiated peer maximum length used for outbound fragmentation.
	MaxPDUSize uint32

	// Logger receives structured log records from every layer. Defaults
	// to a console writer on stderr at info level.
	Logger zerolog.Logger
}

// Default returns the blessed default Config. Every timeout matches the
// values the DICOM Upper Layer standard and common PACS deployments use.
func Default() Config {
	return Config{
		EnforceUIDConformance:  true,
		ShortAETHandling:       false,
		LongAETInDIMSE:         false,
		LogRequestIdentifiers:  false,
		LogResponseIdentifiers: false,
		ChunkedTransfer:        false,
		UnrestrictedStorage:    false,
		TextCodec:              defaultTextCodec{},
		TimerResolution:        10 * time.Millisecond,
		PropagateContext:       false,
		ConnectionTimeout:      30 * time.Second,
		ACSETimeout:            30 * time.Second,
		DIMSETimeout:           30 * time.Second,
		NetworkTimeout:         60 * time.Second,
		NetworkTimeoutResponse: NetworkTimeoutAbort,
		ARTIMTimeout:           30 * time.Second,
		MaxPDUSize:             16 * 1024 * 1024,
		Logger:                 zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
}
