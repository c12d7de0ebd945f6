// Package uid implements the DICOM UID value type and the process-wide
// UID registry (spec.md §3 "UID", §5 "process-wide registry").
package uid

import (
	"fmt"
	"strings"
	"sync"

	"github.com/grailbio/go-dicom/dicomuid"
)

// MaxLength is the maximum encoded length of a UID on the wire (spec.md §3).
const MaxLength = 64

// UID is a dotted-numeric ASCII identifier, treated as an opaque value by
// the engine beyond validity checking and the optional human name carried
// for logging. Two UIDs are equal iff their Value fields are equal.
type UID struct {
	value   string
	name    string
	isValid bool
}

// New validates and wraps a raw UID string. It never returns an error:
// an invalid UID is still representable (IsValid() reports false) so
// that negotiation can reject it as a value rather than failing the
// whole decode.
func New(raw string) UID {
	raw = strings.TrimRight(raw, "\x00 ")
	u := UID{value: raw, isValid: validSyntax(raw)}
	if entry, ok := Lookup(raw); ok {
		u.name = entry.Name
	} else if named := dicomuid.UIDString(raw); named != raw {
		u.name = named
	}
	return u
}

// Value returns the raw dotted-numeric string.
func (u UID) Value() string { return u.value }

// IsValid reports whether the UID is syntactically well-formed: ASCII,
// dot-separated numeric components, no leading zeros in a component
// (other than the component "0" itself), and length <= MaxLength.
func (u UID) IsValid() bool { return u.isValid }

// Name returns the human-readable name for well-known UIDs (e.g.
// "CT Image Storage"), or "" if unknown.
func (u UID) Name() string { return u.name }

func (u UID) String() string {
	if u.name != "" {
		return fmt.Sprintf("%s (%s)", u.value, u.name)
	}
	return u.value
}

// Equal compares two UIDs by value only.
func (u UID) Equal(o UID) bool { return u.value == o.value }

func validSyntax(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	components := strings.Split(s, ".")
	for _, c := range components {
		if c == "" {
			return false
		}
		if len(c) > 1 && c[0] == '0' {
			return false
		}
		for _, r := range c {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// ServiceClassTag identifies the query/retrieve service-class family a
// registered UID belongs to, per spec.md §9's "Single-dispatch method
// tables on service classes → a service-class trait" redesign note.
type ServiceClassTag int

const (
	ServiceClassNone ServiceClassTag = iota
	ServiceClassStorage
	ServiceClassQueryRetrieveFind
	ServiceClassQueryRetrieveGet
	ServiceClassQueryRetrieveMove
	ServiceClassVerification
	ServiceClassNonPatientObjectStorage
)

// RegistryEntry is the value stored for each registered UID.
type RegistryEntry struct {
	UID            string
	Keyword        string
	Name           string
	ServiceClass   ServiceClassTag
	DIMSEMsgType   string // optional, e.g. "C-STORE"; "" if not fixed to one.
}

// Registry is a process-wide, read-only-after-init map from UID value to
// RegistryEntry. The zero value is usable; NewRegistry seeds it from the
// grailbio dicomuid table so well-known SOP classes and transfer syntaxes
// are registered out of the box.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]RegistryEntry
}

var defaultRegistry = NewRegistry()

// wellKnownUIDs seeds the registry with the handful of SOP classes the
// engine itself must recognize to route DIMSE requests (verification,
// and the Patient Root and Study Root query/retrieve FIND models).
// Everything else is
// resolved lazily through dicomuid.UIDString for display purposes, or
// registered explicitly by the application via Register.
var wellKnownUIDs = []struct {
	uid, keyword string
	class        ServiceClassTag
}{
	{dicomuid.VerificationSOPClass, "VerificationSOPClass", ServiceClassVerification},
	{dicomuid.PatientRootQRFind, "PatientRootQueryRetrieveInformationModelFIND", ServiceClassQueryRetrieveFind},
	{dicomuid.StudyRootQRFind, "StudyRootQueryRetrieveInformationModelFIND", ServiceClassQueryRetrieveFind},
}

// NewRegistry builds a Registry pre-seeded with the well-known UIDs the
// engine needs to classify out of the box (an enrichment grounded on the
// teacher's own grailbio/go-dicom dependency; see DESIGN.md). Applications
// typically use Default() instead of creating their own registry, but a
// private one is useful in tests.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]RegistryEntry)}
	for _, e := range wellKnownUIDs {
		r.entries[e.uid] = RegistryEntry{
			UID:          e.uid,
			Keyword:      e.keyword,
			Name:         dicomuid.UIDString(e.uid),
			ServiceClass: e.class,
		}
	}
	return r
}

// Default returns the process-wide default registry.
func Default() *Registry { return defaultRegistry }

// Register adds or overwrites the entry for uid. This is the
// "register_uid(uid, keyword, service_class, dimse_msg_type?)" extension
// point from spec.md §5.
func (r *Registry) Register(uidValue, keyword string, class ServiceClassTag, dimseMsgType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.entries[uidValue]
	existing.UID = uidValue
	existing.Keyword = keyword
	existing.ServiceClass = class
	existing.DIMSEMsgType = dimseMsgType
	r.entries[uidValue] = existing
}

// Lookup returns the registry entry for value, if any, from the default
// registry. Most callers use this rather than constructing a Registry.
func Lookup(value string) (RegistryEntry, bool) {
	return defaultRegistry.Get(value)
}

// Get returns the registry entry for value, if any.
func (r *Registry) Get(value string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[value]
	return e, ok
}

