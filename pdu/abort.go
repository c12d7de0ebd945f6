package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// AbortSource distinguishes who originated an A-ABORT, DICOM PS3.8
// §9.3.8 Table 9-26.
type AbortSource byte

const (
	AbortSourceServiceUser             AbortSource = 0
	AbortSourceServiceProvider         AbortSource = 2
)

// AbortReason is meaningful only when Source is AbortSourceServiceProvider.
type AbortReason byte

const (
	AbortReasonNotSpecified             AbortReason = 0
	AbortReasonUnrecognizedPDU          AbortReason = 1
	AbortReasonUnexpectedPDU            AbortReason = 2
	AbortReasonUnrecognizedPDUParameter AbortReason = 4
	AbortReasonUnexpectedPDUParameter   AbortReason = 5
	AbortReasonInvalidPDUParameterValue AbortReason = 6
)

// AAbort is the association abort PDU (DICOM PS3.8 §9.3.8).
type AAbort struct {
	Source AbortSource
	Reason AbortReason
}

func (pdu *AAbort) PDUType() Type { return TypeAAbort }

func (pdu *AAbort) WritePayload(w *dicomio.Writer) error {
	if err := w.WriteZeros(2); err != nil {
		return err
	}
	if err := w.WriteByte(byte(pdu.Source)); err != nil {
		return err
	}
	return w.WriteByte(byte(pdu.Reason))
}

func (pdu *AAbort) String() string {
	return fmt.Sprintf("A-ABORT{source:%d reason:%d}", pdu.Source, pdu.Reason)
}

func readAAbort(d *dicomio.Reader) (*AAbort, error) {
	if err := d.Skip(2); err != nil {
		return nil, err
	}
	source, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	reason, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	return &AAbort{Source: AbortSource(source), Reason: AbortReason(reason)}, nil
}
