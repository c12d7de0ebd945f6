package dimse

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/suyashkumar/dicom"
	dicomtag "github.com/suyashkumar/dicom/pkg/tag"
)

// NewElement builds a command-set element for tag from v, accepting the
// handful of Go types the group-0000 command dictionary actually uses:
// strings (UI/AE values) and integers (US values, always stored as a
// single-element []int by the suyashkumar/dicom element model).
func NewElement(t dicomtag.Tag, v interface{}) (*dicom.Element, error) {
	switch val := v.(type) {
	case string:
		return dicom.NewElement(t, []string{val})
	case uint16:
		return dicom.NewElement(t, []int{int(val)})
	case int:
		return dicom.NewElement(t, []int{val})
	default:
		return nil, fmt.Errorf("dimse: NewElement: unsupported value type %T for tag %v", v, t)
	}
}

// EncodeElements writes elems to w in Implicit VR Little Endian, the
// encoding DIMSE command sets always use regardless of the negotiated
// presentation-context transfer syntax (DICOM PS3.7 §6.3.1).
func EncodeElements(w io.Writer, elems []*dicom.Element) error {
	writer, err := dicom.NewWriter(w)
	if err != nil {
		return fmt.Errorf("dimse: creating command writer: %w", err)
	}
	writer.SetTransferSyntax(binary.LittleEndian, true)
	for _, e := range elems {
		if err := writer.WriteElement(e); err != nil {
			return fmt.Errorf("dimse: writing command element %v: %w", e.Tag, err)
		}
	}
	return nil
}

// commandBuilder accumulates one message's command-set elements for
// Encode, latching the first construction failure so a command type's
// Encode method reads as a flat field list instead of repeating an
// if-err-return after every field.
type commandBuilder struct {
	elems []*dicom.Element
	err   error
}

// field appends the element for tag, built from v via NewElement.
func (b *commandBuilder) field(t dicomtag.Tag, v interface{}) *commandBuilder {
	if b.err != nil {
		return b
	}
	elem, err := NewElement(t, v)
	if err != nil {
		b.err = err
		return b
	}
	b.elems = append(b.elems, elem)
	return b
}

// optionalField appends tag's element only when present, for the fields
// a command set emits conditionally (e.g. C-STORE's move-originator
// pair, C-MOVE/C-GET's suboperation counters).
func (b *commandBuilder) optionalField(present bool, t dicomtag.Tag, v interface{}) *commandBuilder {
	if !present {
		return b
	}
	return b.field(t, v)
}

// status appends a response command's Status elements (DICOM PS3.7
// §6.3.1 group 0000).
func (b *commandBuilder) status(s *Status) *commandBuilder {
	if b.err != nil {
		return b
	}
	statusElems, err := s.ToElements()
	if err != nil {
		b.err = err
		return b
	}
	b.elems = append(b.elems, statusElems...)
	return b
}

// finish appends extra (the command set's unrecognized-on-decode
// elements, echoed back unchanged) and returns the assembled element
// list, or the first error latched by an earlier field/status call.
func (b *commandBuilder) finish(extra []*dicom.Element) ([]*dicom.Element, error) {
	if b.err != nil {
		return nil, b.err
	}
	return append(b.elems, extra...), nil
}
