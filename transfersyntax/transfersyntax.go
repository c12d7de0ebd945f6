// Package transfersyntax implements the Transfer Syntax value type
// (spec.md §3): a UID plus decoded byte order, VR mode and deflate flag.
package transfersyntax

import "encoding/binary"

// Well-known transfer syntax UIDs. These four are the defaults proposed
// by a requestor that supplies none explicitly (spec.md §6).
const (
	ImplicitVRLittleEndian = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian    = "1.2.840.10008.1.2.2"
)

// Defaults is proposed when the caller supplies no transfer syntax list.
var Defaults = []string{
	ImplicitVRLittleEndian,
	ExplicitVRLittleEndian,
	DeflatedExplicitVRLittleEndian,
	ExplicitVRBigEndian,
}

// CommandSetSyntax is the transfer syntax every DIMSE command set is
// encoded with, regardless of the negotiated context (spec.md §3, §6).
const CommandSetSyntax = ImplicitVRLittleEndian

// VRMode selects implicit or explicit VR encoding.
type VRMode int

const (
	ImplicitVR VRMode = iota
	ExplicitVR
)

// TransferSyntax is the decoded form of a transfer syntax UID.
type TransferSyntax struct {
	UID       string
	ByteOrder binary.ByteOrder
	VR        VRMode
	Deflated  bool
}

// Decode maps a transfer syntax UID to its encoding attributes. Unknown
// UIDs decode to Explicit VR Little Endian attributes (the conservative
// default pynetdicom-style stacks use for codecs they don't recognize by
// name but still need to move bytes for), with the UID preserved as-is.
func Decode(uidValue string) TransferSyntax {
	switch uidValue {
	case ImplicitVRLittleEndian:
		return TransferSyntax{UID: uidValue, ByteOrder: binary.LittleEndian, VR: ImplicitVR}
	case ExplicitVRLittleEndian:
		return TransferSyntax{UID: uidValue, ByteOrder: binary.LittleEndian, VR: ExplicitVR}
	case DeflatedExplicitVRLittleEndian:
		return TransferSyntax{UID: uidValue, ByteOrder: binary.LittleEndian, VR: ExplicitVR, Deflated: true}
	case ExplicitVRBigEndian:
		return TransferSyntax{UID: uidValue, ByteOrder: binary.BigEndian, VR: ExplicitVR}
	default:
		// Compressed transfer syntaxes (JPEG family, RLE, etc.) are all
		// Explicit VR Little Endian at the dataset-element level; the
		// compression itself lives inside pixel data fragments, which
		// is the injected dataset codec's concern, not ours.
		return TransferSyntax{UID: uidValue, ByteOrder: binary.LittleEndian, VR: ExplicitVR}
	}
}

// IsDefault reports whether uidValue is one of the four defaults.
func IsDefault(uidValue string) bool {
	for _, d := range Defaults {
		if d == uidValue {
			return true
		}
	}
	return false
}
