// Package item implements the DICOM Upper Layer PDU variable items and
// sub-items nested inside A-ASSOCIATE-RQ/AC PDUs (spec.md §4.2). Every
// item type round-trips through Write/decode; unknown User Information
// sub-item types are preserved as opaque blobs for forward compatibility.
package item

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// Item type codes, DICOM PS3.8 Annex D.
const (
	TypeApplicationContext          byte = 0x10
	TypePresentationContextRequest  byte = 0x20
	TypePresentationContextResponse byte = 0x21
	TypeAbstractSyntax               byte = 0x30
	TypeTransferSyntax                byte = 0x40
	TypeUserInformation                byte = 0x50
	TypeMaximumLength                  byte = 0x51
	TypeImplementationClassUID         byte = 0x52
	TypeAsynchronousOperationsWindow   byte = 0x53
	TypeSCPSCURoleSelection             byte = 0x54
	TypeImplementationVersionName       byte = 0x55
	TypeSOPClassExtendedNegotiation     byte = 0x56
	TypeSOPClassCommonExtendedNegotiation byte = 0x57
	TypeUserIdentityRequest               byte = 0x58
	TypeUserIdentityResponse               byte = 0x59
)

// DefaultApplicationContextName is the only Application Context Name
// this engine proposes or accepts (DICOM PS3.7 Annex A.2.1).
const DefaultApplicationContextName = "1.2.840.10008.3.1.1.1"

// SubItem is implemented by every variable item and nested sub-item.
type SubItem interface {
	// Write encodes the item's header and body, including its own
	// 1-byte type and 2-byte length prefix.
	Write(w *dicomio.Writer) error
	String() string
}

func writeHeader(w *dicomio.Writer, itemType byte, length uint16) error {
	if err := w.WriteByte(itemType); err != nil {
		return err
	}
	if err := w.WriteByte(0); err != nil { // reserved
		return err
	}
	return w.WriteUInt16(length)
}

// encodeBody runs fn against a scratch writer so the item's length can be
// computed before the real header+body is written to w.
func encodeBody(bo binary.ByteOrder, fn func(*dicomio.Writer) error) ([]byte, error) {
	// dicomio.Writer writes directly to an io.Writer; route through an
	// in-memory buffer so we can measure the body length before emitting
	// the real header to the caller's writer.
	buf := &bytes.Buffer{}
	bw := dicomio.NewWriter(buf, bo, false)
	if err := fn(bw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSubItem reads one item (header + body) from r. Unknown User
// Information sub-item types decode into UnknownSubItem rather than
// failing, so a re-encode preserves bytes the engine doesn't understand.
func DecodeSubItem(r *dicomio.Reader) (SubItem, error) {
	itemType, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("item: reading type: %w", err)
	}
	if err := r.Skip(1); err != nil {
		return nil, fmt.Errorf("item: skipping reserved byte: %w", err)
	}
	length, err := r.ReadUInt16()
	if err != nil {
		return nil, fmt.Errorf("item: reading length: %w", err)
	}
	switch itemType {
	case TypeApplicationContext:
		return decodeNamedItem(r, TypeApplicationContext, length, newApplicationContextItem)
	case TypeAbstractSyntax:
		return decodeNamedItem(r, TypeAbstractSyntax, length, newAbstractSyntaxItem)
	case TypeTransferSyntax:
		return decodeNamedItem(r, TypeTransferSyntax, length, newTransferSyntaxItem)
	case TypeImplementationClassUID:
		return decodeNamedItem(r, TypeImplementationClassUID, length, newImplementationClassUIDItem)
	case TypeImplementationVersionName:
		return decodeNamedItem(r, TypeImplementationVersionName, length, newImplementationVersionNameItem)
	case TypePresentationContextRequest, TypePresentationContextResponse:
		return decodePresentationContextItem(r, itemType, length)
	case TypeUserInformation:
		return decodeUserInformationItem(r, length)
	case TypeMaximumLength:
		return decodeMaximumLengthItem(r, length)
	case TypeAsynchronousOperationsWindow:
		return decodeAsyncOpsWindowItem(r, length)
	case TypeSCPSCURoleSelection:
		return decodeRoleSelectionItem(r, length)
	case TypeSOPClassExtendedNegotiation:
		return decodeSOPClassExtendedItem(r, length)
	case TypeSOPClassCommonExtendedNegotiation:
		return decodeSOPClassCommonExtendedItem(r, length)
	case TypeUserIdentityRequest:
		return decodeUserIdentityRequestItem(r, length)
	case TypeUserIdentityResponse:
		return decodeUserIdentityResponseItem(r, length)
	default:
		data, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("item: reading unknown item type 0x%02x body: %w", itemType, err)
		}
		return &UnknownSubItem{Type: itemType, Data: data}, nil
	}
}

// namedItem is the shared shape of every item whose body is just a raw
// ASCII name: Application Context, Abstract Syntax, Transfer Syntax,
// Implementation Class UID, Implementation Version Name.
type namedItem struct {
	itemType byte
	label    string
	Name     string
}

func newApplicationContextItem(name string) SubItem {
	return NewApplicationContextItem(name)
}
func newAbstractSyntaxItem(name string) SubItem {
	return NewAbstractSyntaxItem(name)
}
func newTransferSyntaxItem(name string) SubItem {
	return NewTransferSyntaxItem(name)
}
func newImplementationClassUIDItem(name string) SubItem {
	return NewImplementationClassUIDItem(name)
}
func newImplementationVersionNameItem(name string) SubItem {
	return NewImplementationVersionNameItem(name)
}

// ApplicationContextItem, AbstractSyntaxItem, TransferSyntaxItem,
// ImplementationClassUIDItem and ImplementationVersionNameItem are typed
// constructors over namedItem so callers get a distinct Go type to
// type-switch on.
type ApplicationContextItem struct{ namedItem }
type AbstractSyntaxItem struct{ namedItem }
type TransferSyntaxItem struct{ namedItem }
type ImplementationClassUIDItem struct{ namedItem }
type ImplementationVersionNameItem struct{ namedItem }

func NewApplicationContextItem(name string) *ApplicationContextItem {
	return &ApplicationContextItem{namedItem{itemType: TypeApplicationContext, label: "application-context", Name: name}}
}
func NewAbstractSyntaxItem(name string) *AbstractSyntaxItem {
	return &AbstractSyntaxItem{namedItem{itemType: TypeAbstractSyntax, label: "abstract-syntax", Name: name}}
}
func NewTransferSyntaxItem(name string) *TransferSyntaxItem {
	return &TransferSyntaxItem{namedItem{itemType: TypeTransferSyntax, label: "transfer-syntax", Name: name}}
}
func NewImplementationClassUIDItem(name string) *ImplementationClassUIDItem {
	return &ImplementationClassUIDItem{namedItem{itemType: TypeImplementationClassUID, label: "implementation-class-uid", Name: name}}
}
func NewImplementationVersionNameItem(name string) *ImplementationVersionNameItem {
	return &ImplementationVersionNameItem{namedItem{itemType: TypeImplementationVersionName, label: "implementation-version-name", Name: name}}
}

func (v *namedItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, v.itemType, uint16(len(v.Name))); err != nil {
		return err
	}
	return w.WriteString(v.Name)
}

func (v *namedItem) String() string {
	return fmt.Sprintf("%s{%q}", v.label, v.Name)
}

func decodeNamedItem(r *dicomio.Reader, itemType byte, length uint16, ctor func(string) SubItem) (SubItem, error) {
	name, err := r.ReadString(int(length))
	if err != nil {
		return nil, fmt.Errorf("item: reading name body (type 0x%02x): %w", itemType, err)
	}
	return ctor(name), nil
}

// UnknownSubItem preserves a User Information sub-item this decoder does
// not recognize, so re-encoding is lossless (spec.md §4.2 forward
// compatibility requirement).
type UnknownSubItem struct {
	Type byte
	Data []byte
}

func (v *UnknownSubItem) Write(w *dicomio.Writer) error {
	if err := writeHeader(w, v.Type, uint16(len(v.Data))); err != nil {
		return err
	}
	return w.WriteBytes(v.Data)
}

func (v *UnknownSubItem) String() string {
	return fmt.Sprintf("unknown{type:0x%02x, %d bytes}", v.Type, len(v.Data))
}

func ListString(items []SubItem) string {
	s := "["
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += it.String()
	}
	return s + "]"
}
